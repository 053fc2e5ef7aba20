package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/contactdesk/internal/auth"
	"github.com/octobees/contactdesk/internal/config"
)

var (
	// ErrInvalidCredentials is returned for any failed staff login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStaffAuthDisabled is returned when no staff account is configured.
	ErrStaffAuthDisabled = errors.New("staff authentication is not configured")
)

// AuthService validates the configured staff account and issues tokens.
type AuthService struct {
	staff config.StaffConfig
	jwt   *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(staff config.StaffConfig, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{staff: staff, jwt: jwtManager}
}

// Enabled reports whether staff routes require a token.
func (s *AuthService) Enabled() bool {
	return s != nil && s.staff.Enabled()
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrStaffAuthDisabled
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}

	expected := strings.ToLower(strings.TrimSpace(s.staff.Email))
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(expected)) == 1
	hashErr := bcrypt.CompareHashAndPassword([]byte(s.staff.PasswordHash), []byte(password))
	if !emailMatch || hashErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(auth.StaffSubject, expected, auth.RoleStaff)
	if err != nil {
		return "", err
	}

	return token, nil
}

// Authenticated reports whether token is an unexpired staff token signed by this service.
func (s *AuthService) Authenticated(token string) bool {
	if !s.Enabled() || token == "" {
		return false
	}
	claims, err := s.jwt.ParseToken(token)
	return err == nil && claims.Role == auth.RoleStaff
}
