package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
)

// SQLContactsRepository implements ContactsRepository over database/sql with
// SQLite placeholders. created_at is stored as unix microseconds.
type SQLContactsRepository struct {
	db *sql.DB
}

// NewSQLContactsRepository wires a database/sql backed repository.
func NewSQLContactsRepository(db *sql.DB) *SQLContactsRepository {
	return &SQLContactsRepository{db: db}
}

var _ ContactsRepository = (*SQLContactsRepository)(nil)

// Create inserts a new contact row.
func (r *SQLContactsRepository) Create(ctx context.Context, contact *entity.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact payload is nil")
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO contacts (`+contactColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		contact.ID.String(),
		contact.FirstName,
		contact.LastName,
		contact.Email,
		stringOrNil(contact.PhoneNumber),
		string(contact.Service),
		stringOrNil(contact.OtherService),
		contact.Description,
		string(contact.ServingStatus),
		contact.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact by identifier.
func (r *SQLContactsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())

	contact, err := scanSQLContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}
	return contact, nil
}

// List returns contacts matching the filter, newest first.
func (r *SQLContactsRepository) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + contactColumns + ` FROM contacts`)

	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		clauses = append(clauses, "serving_status = ?")
		args = append(args, filter.Status)
	}
	if filter.Service != "" {
		clauses = append(clauses, "service = ?")
		args = append(args, filter.Service)
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0)
	for rows.Next() {
		contact, err := scanSQLContact(rows)
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
func (r *SQLContactsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.Status) (*entity.Contact, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE contacts SET serving_status = ? WHERE id = ?`, string(status), id.String())
	if err != nil {
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	if affected == 0 {
		return nil, ErrContactNotFound
	}
	return r.FindByID(ctx, id)
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLContact(row sqlScanner) (*entity.Contact, error) {
	var (
		contact      entity.Contact
		id           string
		phone        sql.NullString
		service      string
		otherService sql.NullString
		status       string
		createdAt    int64
	)
	if err := row.Scan(
		&id,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&phone,
		&service,
		&otherService,
		&contact.Description,
		&status,
		&createdAt,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse contact id %q: %w", id, err)
	}
	contact.ID = parsed
	if phone.Valid {
		contact.PhoneNumber = &phone.String
	}
	if otherService.Valid {
		contact.OtherService = &otherService.String
	}
	contact.Service = entity.Service(service)
	contact.ServingStatus = entity.Status(status)
	contact.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &contact, nil
}
