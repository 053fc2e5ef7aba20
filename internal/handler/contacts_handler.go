package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/middleware"
	"github.com/octobees/contactdesk/internal/service"
)

const (
	msgContactNotFound = "Contact not found"
	msgInvalidStatus   = "Invalid status"
)

// ContactsHandler exposes the JSON contact endpoints.
type ContactsHandler struct {
	service *service.ContactsService
	logger  *zap.Logger
}

// NewContactsHandler creates a new handler instance.
func NewContactsHandler(service *service.ContactsService, logger *zap.Logger) *ContactsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactsHandler{service: service, logger: logger}
}

// List handles GET /api/contacts/ requests.
func (h *ContactsHandler) List(c echo.Context) error {
	filter := dto.ContactFilter{
		Status:  strings.TrimSpace(c.QueryParam("status")),
		Service: strings.TrimSpace(c.QueryParam("service")),
	}

	contacts, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("list contacts", zap.String("request_id", middleware.RequestIDFromContext(c)), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "unable to list contacts")
	}

	return JSON(c, http.StatusOK, contacts)
}

// Submit handles POST /api/contacts/submit/ requests.
func (h *ContactsHandler) Submit(c echo.Context) error {
	var req dto.ContactSubmission
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	contact, err := h.service.Submit(c.Request().Context(), req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return FieldErrors(c, vErr.Fields)
		}
		h.logger.Error("submit contact", zap.String("request_id", middleware.RequestIDFromContext(c)), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "unable to save contact")
	}

	return JSON(c, http.StatusCreated, contact)
}

// UpdateStatus handles POST /api/contacts/update_status/:id/ requests.
func (h *ContactsHandler) UpdateStatus(c echo.Context) error {
	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	contact, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactNotFound):
			return Error(c, http.StatusNotFound, msgContactNotFound)
		case errors.Is(err, service.ErrInvalidStatus):
			return Error(c, http.StatusBadRequest, msgInvalidStatus)
		default:
			h.logger.Error("update contact status", zap.String("request_id", middleware.RequestIDFromContext(c)), zap.Error(err))
			return Error(c, http.StatusInternalServerError, "unable to update contact")
		}
	}

	return JSON(c, http.StatusOK, contact)
}
