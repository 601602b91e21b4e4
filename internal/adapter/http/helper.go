package http

import (
	"errors"
	"net/http"
	"strings"

	domainFine "lendmarket/internal/domain/fine"
	domainKYC "lendmarket/internal/domain/kyc"
	domainLoan "lendmarket/internal/domain/loan"
	domainUser "lendmarket/internal/domain/user"
	"lendmarket/internal/terms"

	"github.com/labstack/echo/v4"
)

// domainStatus maps usecase/domain errors onto HTTP codes so every handler
// fails the same way.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, terms.ErrInvalidLoanTerms):
		return http.StatusUnprocessableEntity
	case errors.Is(err, terms.ErrInvalidInput):
		// caller bug by contract
		return http.StatusInternalServerError
	case errors.Is(err, domainUser.ErrNotFound),
		errors.Is(err, domainLoan.ErrNotFound),
		errors.Is(err, domainFine.ErrNotFound),
		errors.Is(err, domainKYC.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainUser.ErrEmailTaken),
		errors.Is(err, domainLoan.ErrOpenLoanExists),
		errors.Is(err, domainLoan.ErrAlreadyFunded),
		errors.Is(err, domainLoan.ErrInvalidTransition),
		errors.Is(err, domainFine.ErrAlreadyPaid),
		errors.Is(err, domainKYC.ErrAlreadyReviewed),
		errors.Is(err, domainKYC.ErrPendingExists):
		return http.StatusConflict
	case errors.Is(err, domainUser.ErrBanned),
		errors.Is(err, domainUser.ErrNotVerified):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func fail(c echo.Context, err error) error {
	return c.JSON(domainStatus(err), ErrorResponse{Error: err.Error()})
}

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
