package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
	"github.com/octobees/contactdesk/internal/repository"
)

var (
	// ErrContactNotFound is returned for unknown or malformed contact ids.
	ErrContactNotFound = repository.ErrContactNotFound
	// ErrInvalidStatus is returned when a requested status is outside the enumeration.
	ErrInvalidStatus = repository.ErrInvalidStatus
)

// Notifier receives every newly stored contact. Implementations must not block.
type Notifier interface {
	NotifyNewContact(contact entity.Contact) bool
}

// ContactsService coordinates validation, persistence and notification of contacts.
type ContactsService struct {
	repo      repository.ContactsRepository
	validator *ContactValidator
	notifier  Notifier
	now       func() time.Time
}

// NewContactsService wires the contact workflow. A nil notifier disables notifications.
func NewContactsService(repo repository.ContactsRepository, validator *ContactValidator, notifier Notifier) *ContactsService {
	if validator == nil {
		validator = NewContactValidator(defaultPhoneRegion)
	}
	return &ContactsService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Submit validates and stores a new contact, then queues the admin notification.
func (s *ContactsService) Submit(ctx context.Context, input dto.ContactSubmission) (*entity.Contact, error) {
	contact, err := s.validator.Validate(input)
	if err != nil {
		return nil, err
	}

	contact.ID = uuid.New()
	contact.ServingStatus = entity.StatusInitial
	contact.CreatedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("store contact: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyNewContact(*contact)
	}
	return contact, nil
}

// List returns contacts newest first, optionally filtered by status and service.
func (s *ContactsService) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Service = strings.TrimSpace(filter.Service)
	return s.repo.List(ctx, filter)
}

// UpdateStatus sets the serving status of an existing contact. Any enumerated
// status may follow any other.
func (s *ContactsService) UpdateStatus(ctx context.Context, rawID, rawStatus string) (*entity.Contact, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrContactNotFound
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	status := entity.Status(rawStatus)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	contact, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) || errors.Is(err, ErrInvalidStatus) {
			return nil, err
		}
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return contact, nil
}
