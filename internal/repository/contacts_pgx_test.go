package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

func (s *stubPool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (s *stubRows) Close() {}

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.err != nil {
		return false
	}
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

func fillContact(id uuid.UUID, first, status string, created time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		phone := "+14155551234"
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = first
		*dest[2].(*string) = "Lee"
		*dest[3].(*string) = strings.ToLower(first) + "@example.com"
		*dest[4].(**string) = &phone
		*dest[5].(*string) = "web_development"
		*dest[6].(**string) = nil
		*dest[7].(*string) = "need a site"
		*dest[8].(*string) = status
		*dest[9].(*time.Time) = created
		return nil
	}
}

func TestPGXContactsRepository_Create(t *testing.T) {
	var gotArgs []any
	repo := &PGXContactsRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			if !strings.Contains(query, "INSERT INTO contacts") {
				t.Fatalf("unexpected query: %s", query)
			}
			gotArgs = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}}

	contact := &entity.Contact{
		ID:            uuid.New(),
		FirstName:     "Ana",
		LastName:      "Lee",
		Email:         "ana@x.com",
		Service:       entity.ServiceWebDevelopment,
		Description:   "need a site",
		ServingStatus: entity.StatusInitial,
		CreatedAt:     time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), contact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotArgs) != 10 {
		t.Fatalf("expected 10 args, got %d", len(gotArgs))
	}
	if gotArgs[4] != nil || gotArgs[6] != nil {
		t.Fatalf("expected nil optionals, got %v and %v", gotArgs[4], gotArgs[6])
	}
	if gotArgs[5] != "web_development" || gotArgs[8] != "initial" {
		t.Fatalf("expected enum values as strings, got %v", gotArgs)
	}

	if err := repo.Create(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil contact")
	}

	repo.pool = &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("boom")
		},
	}
	if err := repo.Create(context.Background(), contact); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

func TestPGXContactsRepository_FindByID(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	repo := &PGXContactsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: fillContact(id, "Ana", "initial", created)}
		},
	}}

	contact, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact.ID != id || contact.FirstName != "Ana" || contact.ServingStatus != entity.StatusInitial {
		t.Fatalf("unexpected contact: %+v", contact)
	}
	if contact.PhoneNumber == nil || *contact.PhoneNumber != "+14155551234" || contact.OtherService != nil {
		t.Fatalf("unexpected optionals: %+v", contact)
	}
	if contact.CreatedAt.Location() != time.UTC || !contact.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at normalised to UTC, got %s", contact.CreatedAt)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.FindByID(context.Background(), id); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestPGXContactsRepository_List(t *testing.T) {
	var (
		gotQuery string
		gotArgs  []any
	)
	now := time.Now().UTC()
	repo := &PGXContactsRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			gotQuery = query
			gotArgs = args
			return &stubRows{scans: []func(dest ...any) error{
				fillContact(uuid.New(), "Bea", "done", now),
				fillContact(uuid.New(), "Ana", "done", now.Add(-time.Hour)),
			}}, nil
		},
	}}

	contacts, err := repo.List(context.Background(), dto.ContactFilter{Status: "done", Service: "web_development"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 || contacts[0].FirstName != "Bea" {
		t.Fatalf("unexpected contacts: %+v", contacts)
	}
	if !strings.Contains(gotQuery, "serving_status = $1") || !strings.Contains(gotQuery, "service = $2") {
		t.Fatalf("expected filters in query, got %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "ORDER BY created_at DESC") {
		t.Fatalf("expected newest-first ordering, got %s", gotQuery)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "done" || gotArgs[1] != "web_development" {
		t.Fatalf("unexpected args: %v", gotArgs)
	}

	repo.pool = &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			gotQuery = query
			gotArgs = args
			return &stubRows{}, nil
		},
	}
	contacts, err = repo.List(context.Background(), dto.ContactFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contacts == nil || len(contacts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", contacts)
	}
	if strings.Contains(gotQuery, "WHERE") || len(gotArgs) != 0 {
		t.Fatalf("expected unfiltered query, got %s %v", gotQuery, gotArgs)
	}
}

func TestPGXContactsRepository_UpdateStatus(t *testing.T) {
	id := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	var gotArgs []any
	repo := &PGXContactsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if !strings.HasPrefix(query, "UPDATE contacts SET serving_status = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			gotArgs = args
			return &stubRow{scan: fillContact(id, "Ana", "done", time.Now())}
		},
	}}

	contact, err := repo.UpdateStatus(context.Background(), id, entity.StatusDone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact.ServingStatus != entity.StatusDone {
		t.Fatalf("unexpected status: %s", contact.ServingStatus)
	}
	if gotArgs[0] != "done" || gotArgs[1] != id {
		t.Fatalf("unexpected args: %v", gotArgs)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.UpdateStatus(context.Background(), id, entity.StatusDone); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23514", ConstraintName: "contacts_serving_status_check"}
			}}
		},
	}
	if _, err := repo.UpdateStatus(context.Background(), id, entity.Status("bogus")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
