// Package gateway decodes the payment gateway's success-redirect payload.
// The gateway appends a base64 JSON blob as a query parameter when it
// bounces the payer back to us; signature verification happened upstream,
// so this package only deals with the encoding.
package gateway

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrPayloadMissing means the redirect arrived without the data
	// parameter; the payment cannot be reconciled from this request.
	ErrPayloadMissing = errors.New("payment payload missing")
	ErrPayloadInvalid = errors.New("payment payload invalid")
)

// SuccessPayload is what the gateway reports for a completed payment.
// Amounts arrive as strings to survive the gateway's JSON encoder.
type SuccessPayload struct {
	TransactionUUID string          `json:"transaction_uuid"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status,omitempty"`
	ProductCode     string          `json:"product_code,omitempty"`
}

// DecodeSuccessPayload reverses the gateway's URL-safe base64 encoding:
// '-' and '_' map back to '+' and '/', then '=' padding is restored before
// a standard base64 decode of the JSON body.
func DecodeSuccessPayload(raw string) (*SuccessPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrPayloadMissing
	}

	s := strings.NewReplacer("-", "+", "_", "/").Replace(raw)
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}

	var p SuccessPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	if p.TransactionUUID == "" {
		return nil, fmt.Errorf("%w: missing transaction_uuid", ErrPayloadInvalid)
	}
	if !p.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive total_amount", ErrPayloadInvalid)
	}
	return &p, nil
}
