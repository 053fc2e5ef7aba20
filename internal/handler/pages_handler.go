package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/contactdesk/internal/auth"
	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
	"github.com/octobees/contactdesk/internal/middleware"
	"github.com/octobees/contactdesk/internal/service"
	"github.com/octobees/contactdesk/internal/web"
)

const (
	flashCookie      = "flash"
	flashSubmitted   = "Your message has been sent successfully!"
	csrfContextKey   = "csrf"
	msgLoginRejected = "Invalid email or password."
)

// PagesHandler serves the server-rendered pages.
type PagesHandler struct {
	contacts *service.ContactsService
	auth     *service.AuthService
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewPagesHandler creates a new handler instance. authService may be nil when
// staff login is disabled.
func NewPagesHandler(contacts *service.ContactsService, authService *service.AuthService, tokenTTL time.Duration, logger *zap.Logger) *PagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PagesHandler{contacts: contacts, auth: authService, tokenTTL: tokenTTL, logger: logger}
}

// Index handles GET / requests.
func (h *PagesHandler) Index(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))

	contacts, err := h.contacts.List(c.Request().Context(), dto.ContactFilter{Status: status})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, web.PageIndex, web.IndexView{
		Page:          h.page(c, "Contacts"),
		Contacts:      contacts,
		Statuses:      entity.Statuses,
		CurrentStatus: status,
	})
}

// ContactForm handles GET /contact/ requests.
func (h *PagesHandler) ContactForm(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageContact, web.ContactFormView{
		Page:     h.page(c, "Contact us"),
		Services: entity.Services,
	})
}

// SubmitContact handles POST /contact/ requests.
func (h *PagesHandler) SubmitContact(c echo.Context) error {
	var req dto.ContactSubmission
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	if _, err := h.contacts.Submit(c.Request().Context(), req); err != nil {
		var vErr *service.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		return c.Render(http.StatusOK, web.PageContact, web.ContactFormView{
			Page: h.page(c, "Contact us"),
			Values: web.FormValues{
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				Service:      req.Service,
				OtherService: req.OtherService,
				Email:        req.Email,
				PhoneNumber:  req.PhoneNumber,
				Description:  req.Description,
			},
			Errors:   vErr.Fields,
			Services: entity.Services,
		})
	}

	setFlash(c, flashSubmitted)
	return c.Redirect(http.StatusFound, "/")
}

// UpdateStatus handles POST /update_status/:id/ requests. It always returns to
// the list; failures are only logged.
func (h *PagesHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	status := c.FormValue("status")

	if _, err := h.contacts.UpdateStatus(c.Request().Context(), id, status); err != nil {
		h.logger.Warn("status update rejected",
			zap.String("request_id", middleware.RequestIDFromContext(c)),
			zap.String("contact_id", id),
			zap.String("status", status),
			zap.Error(err),
		)
	}
	return c.Redirect(http.StatusFound, "/")
}

// LoginForm handles GET /login/ requests.
func (h *PagesHandler) LoginForm(c echo.Context) error {
	if !h.auth.Enabled() {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, web.PageLogin, web.LoginView{
		Page: h.page(c, "Staff login"),
		Next: safeNext(c.QueryParam("next")),
	})
}

// Login handles POST /login/ requests.
func (h *PagesHandler) Login(c echo.Context) error {
	if !h.auth.Enabled() {
		return c.Redirect(http.StatusFound, "/")
	}

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	next := safeNext(c.FormValue("next"))

	token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("staff login failed", zap.String("request_id", middleware.RequestIDFromContext(c)), zap.Error(err))
		return c.Render(http.StatusUnauthorized, web.PageLogin, web.LoginView{
			Page:  h.page(c, "Staff login"),
			Email: req.Email,
			Next:  next,
			Error: msgLoginRejected,
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL / time.Second),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, next)
}

// Logout handles POST /logout/ requests.
func (h *PagesHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/")
}

func (h *PagesHandler) page(c echo.Context, title string) web.Page {
	csrf, _ := c.Get(csrfContextKey).(string)
	return web.Page{
		Title:        title,
		CSRF:         csrf,
		Flash:        popFlash(c),
		StaffEnabled: h.auth.Enabled(),
		IsStaff:      middleware.IsStaff(c) || h.hasSession(c),
	}
}

// hasSession verifies the session cookie on pages that JWTPage does not guard.
func (h *PagesHandler) hasSession(c echo.Context) bool {
	cookie, err := c.Cookie(auth.TokenCookie)
	if err != nil {
		return false
	}
	return h.auth.Authenticated(cookie.Value)
}

func setFlash(c echo.Context, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(c echo.Context) string {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
