package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/contactdesk/internal/auth"
)

var (
	errMissingToken = errors.New("missing authorization header")
	errBadHeader    = errors.New("invalid authorization header")
)

// JWT validates staff tokens for the JSON API. The token comes from a Bearer
// header or the session cookie; failures answer 401.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return staffAuth(manager, func(c echo.Context, err error) error {
		msg := "invalid token"
		if errors.Is(err, errMissingToken) || errors.Is(err, errBadHeader) {
			msg = err.Error()
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
	})
}

// JWTPage validates staff tokens for server-rendered pages and redirects to
// loginPath when the session is missing or expired.
func JWTPage(manager *authpkg.JWTManager, loginPath string) echo.MiddlewareFunc {
	return staffAuth(manager, func(c echo.Context, _ error) error {
		target := loginPath
		if c.Request().Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
		}
		return c.Redirect(http.StatusFound, target)
	})
}

func staffAuth(manager *authpkg.JWTManager, reject func(echo.Context, error) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := tokenFromRequest(c)
			if err != nil {
				return reject(c, err)
			}

			claims, err := manager.ParseToken(token)
			if err != nil {
				return reject(c, err)
			}

			c.Set(ContextKeyStaffEmail, claims.Email)
			c.Set(ContextKeyStaffRole, claims.Role)

			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", errBadHeader
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(authpkg.TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errMissingToken
}

// IsStaff reports whether the request carries a verified staff session.
func IsStaff(c echo.Context) bool {
	return sessionRole(c) == authpkg.RoleStaff
}
