package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/contactdesk/internal/dto"
	"github.com/octobees/contactdesk/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+\-']+@[a-z0-9.\-\p{L}]+\.[a-z\p{L}]{2,}$`)
	idnaProfile  = idna.Lookup
)

const (
	defaultPhoneRegion = "US"

	maxNameLength         = 50
	maxOtherServiceLength = 100
	maxPhoneLength        = 20
	maxEmailLength        = 254

	msgRequired     = "This field is required."
	msgInvalidEmail = "Enter a valid email address."
)

// ValidationError carries field keyed messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ContactValidator turns raw submissions into contacts ready for insertion.
type ContactValidator struct {
	DefaultRegion       string
	RequireOtherService bool
}

// ContactValidatorOption configures optional rules.
type ContactValidatorOption func(*ContactValidator)

// WithRequireOtherService makes other_service mandatory when service is "other".
func WithRequireOtherService(required bool) ContactValidatorOption {
	return func(v *ContactValidator) {
		v.RequireOtherService = required
	}
}

// NewContactValidator builds a validator for the given phone region.
func NewContactValidator(defaultRegion string, opts ...ContactValidatorOption) *ContactValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	v := &ContactValidator{DefaultRegion: region}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks the submission and returns the contact fields it describes.
// Identity, status and creation time are left for the caller to assign.
func (v *ContactValidator) Validate(input dto.ContactSubmission) (*entity.Contact, error) {
	fields := make(map[string]string)

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	service := strings.TrimSpace(input.Service)
	otherService := strings.TrimSpace(input.OtherService)
	email := strings.TrimSpace(input.Email)
	description := strings.TrimSpace(input.Description)
	status := strings.TrimSpace(input.ServingStatus)

	phone := strings.TrimSpace(input.PhoneNumber)
	if full := strings.TrimSpace(input.FullPhone); full != "" {
		phone = v.normalizePhone(full)
	}

	requireText(fields, "first_name", firstName, maxNameLength)
	requireText(fields, "last_name", lastName, maxNameLength)
	requireText(fields, "description", description, 0)

	switch {
	case service == "":
		fields["service"] = msgRequired
	case !entity.Service(service).Valid():
		fields["service"] = invalidChoice(service)
	case entity.Service(service) == entity.ServiceOther && v.RequireOtherService && otherService == "":
		fields["other_service"] = "Please specify the service you need."
	}
	if _, set := fields["other_service"]; !set {
		checkLength(fields, "other_service", otherService, maxOtherServiceLength)
	}

	switch {
	case email == "":
		fields["email"] = msgRequired
	case utf8.RuneCountInString(email) > maxEmailLength:
		fields["email"] = tooLong(maxEmailLength, email)
	case !validEmail(email):
		fields["email"] = msgInvalidEmail
	}

	checkLength(fields, "phone_number", phone, maxPhoneLength)

	if status != "" && !entity.Status(status).Valid() {
		fields["serving_status"] = invalidChoice(status)
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &entity.Contact{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PhoneNumber:  optional(phone),
		Service:      entity.Service(service),
		OtherService: optional(otherService),
		Description:  description,
	}, nil
}

func (v *ContactValidator) normalizePhone(raw string) string {
	if normalized := normalizePhone(raw, v.DefaultRegion); normalized != "" {
		return normalized
	}
	return raw
}

func requireText(fields map[string]string, key, value string, max int) {
	if value == "" {
		fields[key] = msgRequired
		return
	}
	if max > 0 {
		checkLength(fields, key, value, max)
	}
}

func checkLength(fields map[string]string, key, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		fields[key] = tooLong(max, value)
	}
}

func tooLong(max int, value string) string {
	return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", max, utf8.RuneCountInString(value))
}

func invalidChoice(value string) string {
	return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", value)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func validEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	if !isDomainValid(domain) {
		return false
	}
	ascii, err := idnaProfile.ToASCII(domain)
	return err == nil && ascii != ""
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
