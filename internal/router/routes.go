package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/contactdesk/internal/auth"
	"github.com/octobees/contactdesk/internal/config"
	"github.com/octobees/contactdesk/internal/handler"
	middlewarepkg "github.com/octobees/contactdesk/internal/middleware"
)

const (
	loginPath = "/login/"
	bodyLimit = "1M"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Contacts *handler.ContactsHandler
	Pages    *handler.PagesHandler
}

// Options controls optional route groups.
type Options struct {
	// StaffAuth protects listing and status updates with a staff token.
	StaffAuth bool
	// CSRF enables token checks on the page forms.
	CSRF bool
}

// Register installs the global middleware and wires every route.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, logger *zap.Logger, handlers Handlers, opts Options) {
	e.Pre(echoMiddleware.AddTrailingSlash())
	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit(bodyLimit))

	e.GET("/healthz/", func(c echo.Context) error {
		return handler.JSON(c, http.StatusOK, map[string]string{"status": "ok"})
	})

	submitLimiter := middlewarepkg.SubmissionRateLimiter(cfg.RateLimitSubmit)

	registerAPI(e.Group("/api"), jwtManager, handlers, opts, submitLimiter)
	registerPages(e.Group(""), jwtManager, handlers, opts, submitLimiter)
}

func registerAPI(api *echo.Group, jwtManager *auth.JWTManager, handlers Handlers, opts Options, submitLimiter echo.MiddlewareFunc) {
	api.POST("/contacts/submit/", handlers.Contacts.Submit, submitLimiter)

	var staff []echo.MiddlewareFunc
	if opts.StaffAuth {
		staff = append(staff, middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole(auth.RoleStaff))
		api.POST("/auth/login/", handlers.Auth.Login, submitLimiter)
	}
	api.GET("/contacts/", handlers.Contacts.List, staff...)
	api.POST("/contacts/update_status/:id/", handlers.Contacts.UpdateStatus, staff...)
}

// Middleware is attached per route; the empty-prefix group itself carries none.
func registerPages(pages *echo.Group, jwtManager *auth.JWTManager, handlers Handlers, opts Options, submitLimiter echo.MiddlewareFunc) {
	var common []echo.MiddlewareFunc
	if opts.CSRF {
		common = append(common, echoMiddleware.CSRFWithConfig(echoMiddleware.CSRFConfig{
			TokenLookup:    "form:csrf",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
	with := func(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, common...), extra...)
	}

	pages.GET("/contact/", handlers.Pages.ContactForm, with()...)
	pages.POST("/contact/", handlers.Pages.SubmitContact, with(submitLimiter)...)

	var staff []echo.MiddlewareFunc
	if opts.StaffAuth {
		pages.GET(loginPath, handlers.Pages.LoginForm, with()...)
		pages.POST(loginPath, handlers.Pages.Login, with(submitLimiter)...)
		pages.POST("/logout/", handlers.Pages.Logout, with()...)
		staff = append(staff, middlewarepkg.JWTPage(jwtManager, loginPath))
	}
	pages.GET("/", handlers.Pages.Index, with(staff...)...)
	pages.POST("/update_status/:id/", handlers.Pages.UpdateStatus, with(staff...)...)
}
