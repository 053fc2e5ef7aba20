package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/service"
)

// AuthHandler exposes the staff login endpoint of the API.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login/ requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, service.ErrStaffAuthDisabled):
			return Error(c, http.StatusNotFound, "staff login is not enabled")
		default:
			return Error(c, http.StatusInternalServerError, "unable to authenticate")
		}
	}

	return JSON(c, http.StatusOK, dto.LoginResponse{AccessToken: token})
}
