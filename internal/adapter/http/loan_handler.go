package http

import (
	"net/http"
	"strconv"

	"lendmarket/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	BorrowerID       string  `json:"borrower_id"       validate:"required,hex32"`
	Principal        float64 `json:"principal"         validate:"required,gt=0,dec2"`
	AnnualRate       float64 `json:"annual_rate"       validate:"gte=0,lte=100,dec2"`
	DurationDays     int     `json:"duration_days"     validate:"required,gt=0,lte=3650"`
	RepaymentType    string  `json:"repayment_type"    validate:"required,repayment_type"`
	MilestoneCount   int     `json:"milestone_count"   validate:"omitempty,gte=2,lte=60"`
	InsuranceApplied bool    `json:"insurance_applied"`
}

func (h *LoanHandler) ApplyLoan(c echo.Context) error {
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput{
		BorrowerID:       req.BorrowerID,
		Principal:        decimal.NewFromFloat(req.Principal),
		AnnualRate:       decimal.NewFromFloat(req.AnnualRate),
		DurationDays:     req.DurationDays,
		RepaymentType:    req.RepaymentType,
		MilestoneCount:   req.MilestoneCount,
		InsuranceApplied: req.InsuranceApplied,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetSchedule(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loan_id":  dto.LoanID,
		"state":    dto.State,
		"schedule": dto.Schedule,
	})
}

func (h *LoanHandler) ListOpenLoans(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	out, err := h.uc.ListOpen(c.Request().Context(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": out})
}

type fundLoanReq struct {
	LenderID string `json:"lender_id" validate:"required,hex32"`
}

func (h *LoanHandler) FundLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req fundLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Fund(c.Request().Context(), loanID, req.LenderID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
