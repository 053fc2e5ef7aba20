package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
)

var (
	// ErrContactNotFound is returned when no contact matches the identifier.
	ErrContactNotFound = errors.New("contact not found")
	// ErrInvalidStatus is returned when the store rejects a serving status value.
	ErrInvalidStatus = errors.New("invalid serving status")
)

// ContactsRepository describes persistence operations for contacts.
// Rows are never deleted and only serving_status changes after insertion.
type ContactsRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.Status) (*entity.Contact, error)
}

// pgxPool is the subset of *pgxpool.Pool used by the pgx repository.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

const contactColumns = `id, first_name, last_name, email, phone_number, service, other_service, description, serving_status, created_at`

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
