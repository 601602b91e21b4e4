package http

import (
	"errors"
	"net/http"

	"lendmarket/internal/gateway"
	"lendmarket/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

// GatewayReturn is where the payment gateway redirects the payer after a
// successful payment, with the base64 payload in the data query parameter.
func (h *PaymentHandler) GatewayReturn(c echo.Context) error {
	dto, err := h.uc.HandleGatewayReturn(c.Request().Context(), c.QueryParam("data"))
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrPayloadMissing), errors.Is(err, gateway.ErrPayloadInvalid):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payment processing error"})
		case errors.Is(err, payment.ErrNeedsReconciliation):
			// The gateway already took the money; don't show a hard failure.
			return c.JSON(http.StatusAccepted, map[string]string{
				"status":  "recorded",
				"message": err.Error(),
			})
		default:
			return fail(c, err)
		}
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) MarkDefaulted(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.MarkDefaulted(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type payFineReq struct {
	TransactionUUID string `json:"transaction_uuid" validate:"required,uuid4"`
}

func (h *PaymentHandler) PayFine(c echo.Context) error {
	fineID := c.Param("fine_id")
	if !reHex32.MatchString(fineID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid fine_id path param"})
	}
	var req payFineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.PayFine(c.Request().Context(), fineID, req.TransactionUUID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
