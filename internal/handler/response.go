package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-validation API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON sends data as-is. The API uses bare payloads rather than an envelope.
func JSON(c echo.Context, status int, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, data)
}

// Error sends {"error": message}.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: message})
}

// FieldErrors sends a 400 with a field to message map.
func FieldErrors(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, fields)
}
