package http

import (
	"net/http"
	"strconv"

	adapterMiddleware "lendmarket/internal/adapter/middleware"
	"lendmarket/internal/usecase/kyc"
	"lendmarket/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	kyc   *kyc.Usecase
	users *user.Usecase
}

func NewAdminHandler(kycUC *kyc.Usecase, userUC *user.Usecase) *AdminHandler {
	return &AdminHandler{kyc: kycUC, users: userUC}
}

func (h *AdminHandler) ListPendingKYC(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	out, err := h.kyc.ListPending(c.Request().Context(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"submissions": out})
}

type reviewKYCReq struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=2000"`
}

func (h *AdminHandler) ReviewKYC(c echo.Context) error {
	submissionID := c.Param("submission_id")
	if !reHex32.MatchString(submissionID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid submission_id path param"})
	}
	var req reviewKYCReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.kyc.Review(c.Request().Context(), kyc.ReviewInput{
		SubmissionID: submissionID,
		Approve:      req.Approve,
		ReviewerID:   adapterMiddleware.ActorID(c),
		Note:         req.Note,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) BanUser(c echo.Context) error   { return h.setBanned(c, true) }
func (h *AdminHandler) UnbanUser(c echo.Context) error { return h.setBanned(c, false) }

func (h *AdminHandler) setBanned(c echo.Context, banned bool) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id path param"})
	}
	dto, err := h.users.SetBanned(c.Request().Context(), userID, banned)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
