package http

import (
	"net/http"

	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	otps     *usecase.OTPUseCase
	sessions *usecase.SessionUseCase
	logger   *zap.Logger
}

func NewAuthHandler(otps *usecase.OTPUseCase, sessions *usecase.SessionUseCase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		otps:     otps,
		sessions: sessions,
		logger:   logger,
	}
}

type requestOTPBody struct {
	Phone string `json:"phone"`
}

func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var body requestOTPBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	code, err := h.otps.Request(c.Request().Context(), body.Phone)
	if err != nil {
		return fail(err)
	}

	resp := map[string]interface{}{"sent": true}
	if code != "" {
		// Development mode only.
		resp["code"] = code
	}
	return c.JSON(http.StatusOK, resp)
}

type verifyOTPBody struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var body verifyOTPBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.otps.Verify(c.Request().Context(), body.Phone, body.Code)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.sessions.Revoke(c.Request().Context(), bearerToken(c)); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.sessions.Authenticate(c.Request().Context(), bearerToken(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req usecase.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.sessions.UpdateProfile(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}
