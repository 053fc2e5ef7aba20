// Package web renders the server-side pages from embedded templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contactdesk/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names accepted by Renderer.Render.
const (
	PageIndex   = "index.html"
	PageContact = "contact.html"
	PageLogin   = "login.html"
)

// Page carries the values every page needs.
type Page struct {
	Title        string
	CSRF         string
	Flash        string
	StaffEnabled bool
	IsStaff      bool
}

// IndexView is the contact list page.
type IndexView struct {
	Page
	Contacts      []entity.Contact
	Statuses      []entity.Status
	CurrentStatus string
}

// ContactFormView is the submission form. Values echo what was posted.
type ContactFormView struct {
	Page
	Values   FormValues
	Errors   map[string]string
	Services []entity.Service
}

// FormValues are the raw strings of a posted contact form.
type FormValues struct {
	FirstName    string
	LastName     string
	Service      string
	OtherService string
	Email        string
	PhoneNumber  string
	Description  string
}

// LoginView is the staff login page.
type LoginView struct {
	Page
	Email string
	Next  string
	Error string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page against the shared layout.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := clone.ParseFS(templateFS, entry)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry, err)
		}
		pages[path.Base(entry)] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

var _ echo.Renderer = (*Renderer)(nil)

var funcs = template.FuncMap{
	"statusLabel":  func(s entity.Status) string { return s.Label() },
	"statusColor":  func(s entity.Status) string { return s.Color() },
	"serviceLabel": func(s entity.Service) string { return s.Label() },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"datetime": func(t time.Time) string { return t.UTC().Format("Jan 2, 2006 15:04 UTC") },
}
