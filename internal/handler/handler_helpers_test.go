package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contactdesk/internal/database"
	"github.com/octobees/contactdesk/internal/entity"
	"github.com/octobees/contactdesk/internal/repository"
	"github.com/octobees/contactdesk/internal/service"
	"github.com/octobees/contactdesk/internal/web"
)

type recordingNotifier struct {
	mu       sync.Mutex
	contacts []entity.Contact
}

func (n *recordingNotifier) NotifyNewContact(contact entity.Contact) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, contact)
	return true
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.contacts)
}

func newSQLiteRepository(t *testing.T) repository.ContactsRepository {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := database.MigrateSQLite(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewSQLContactsRepository(db)
}

func newContactsService(t *testing.T, notifier service.Notifier) *service.ContactsService {
	t.Helper()
	return service.NewContactsService(newSQLiteRepository(t), service.NewContactValidator("US"), notifier)
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	return e
}
