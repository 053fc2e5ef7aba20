package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
)

const pgCheckViolation = "23514"

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

var (
	_ pgxPool            = (*pgxpool.Pool)(nil)
	_ ContactsRepository = (*PGXContactsRepository)(nil)
)

// Create inserts a new contact row.
func (r *PGXContactsRepository) Create(ctx context.Context, contact *entity.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact payload is nil")
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO contacts (`+contactColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		stringOrNil(contact.PhoneNumber),
		string(contact.Service),
		stringOrNil(contact.OtherService),
		contact.Description,
		string(contact.ServingStatus),
		contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact by identifier.
func (r *PGXContactsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)

	contact, err := scanPGXContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}
	return contact, nil
}

// List returns contacts matching the filter, newest first.
func (r *PGXContactsRepository) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + contactColumns + ` FROM contacts`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("serving_status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.Service != "" {
		clauses = append(clauses, fmt.Sprintf("service = $%d", idx))
		args = append(args, filter.Service)
		idx++
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0)
	for rows.Next() {
		contact, err := scanPGXContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateStatus sets serving_status and returns the updated row.
func (r *PGXContactsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.Status) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx, `UPDATE contacts SET serving_status = $1 WHERE id = $2 RETURNING `+contactColumns, string(status), id)

	contact, err := scanPGXContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, pgErr)
		}
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return contact, nil
}

func scanPGXContact(row pgx.Row) (*entity.Contact, error) {
	var (
		contact entity.Contact
		service string
		status  string
	)
	if err := row.Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.PhoneNumber,
		&service,
		&contact.OtherService,
		&contact.Description,
		&status,
		&contact.CreatedAt,
	); err != nil {
		return nil, err
	}
	contact.Service = entity.Service(service)
	contact.ServingStatus = entity.Status(status)
	contact.CreatedAt = contact.CreatedAt.UTC()
	return &contact, nil
}
