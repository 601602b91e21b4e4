package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used for the public identifiers of users, loans, fines and submissions.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewTransactionUUID is the reference handed to the payment gateway; its
// success redirect echoes it back as transaction_uuid.
func NewTransactionUUID() string {
	return uuid.NewString()
}
