package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/ports"
	"github.com/samirrijal/placemap/internal/pkg/session"
)

const minPasswordLength = 8

const (
	msgFillAllFields    = "Please fill in all fields."
	msgPasswordMismatch = "Passwords do not match."
	msgPasswordTooShort = "Password must be at least 8 characters."
	msgBadCredentials   = "Invalid username or password."
	msgCannotConnect    = "Cannot connect to server. Please check your connection and try again."
	msgLoginFailed      = "Login failed. Please try again."
	msgRegisterFailed   = "Registration failed. Please try again."
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthService logs users in and registers them against the backend.
type AuthService struct {
	auth ports.Authenticator
}

// NewAuthService creates a new AuthService.
func NewAuthService(auth ports.Authenticator) *AuthService {
	return &AuthService{auth: auth}
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, &FormError{Message: msgFillAllFields}
	}

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, fail(ctx, "auth.login", err, msgLoginFailed)
	}
	return newSession(res), nil
}

// Register validates the form and creates an account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.Session, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	switch {
	case req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "":
		return nil, &FormError{Message: msgFillAllFields}
	case req.Password != req.ConfirmPassword:
		return nil, &FormError{Message: msgPasswordMismatch}
	case len(req.Password) < minPasswordLength:
		return nil, &FormError{Message: msgPasswordTooShort}
	}

	res, err := s.auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, fail(ctx, "auth.register", err, msgRegisterFailed)
	}
	return newSession(res), nil
}

func newSession(res *domain.AuthResult) *domain.Session {
	sess := &domain.Session{User: res.User, Token: res.Token}
	if exp, err := session.Expiry(res.Token); err == nil {
		sess.ExpiresAt = exp
	}
	return sess
}

// SessionExpired reports whether token carries an expiry that has passed.
// Tokens that cannot be decoded are left for the backend to judge.
func SessionExpired(token string, now time.Time) bool {
	exp, err := session.Expiry(token)
	if err != nil {
		return false
	}
	return domain.Session{Token: token, ExpiresAt: exp}.Expired(now)
}

// LoginMessage frames a failed login for the login form.
func LoginMessage(e *apierror.NormalizedError) string {
	switch e.Status {
	case 401:
		return msgBadCredentials
	case 0:
		return msgCannotConnect
	}
	if e.Message != "" {
		return e.Message
	}
	return msgLoginFailed
}

// RegisterMessage frames a failed registration for the sign-up form.
func RegisterMessage(e *apierror.NormalizedError) string {
	switch {
	case e.Status == 409:
		return e.Message
	case e.Status == 400 && len(e.ValidationErrors) > 0:
		return apierror.FormatValidationErrors(e.ValidationErrors)
	case e.Status == 0:
		return msgCannotConnect
	case e.Message != "":
		return e.Message
	default:
		return msgRegisterFailed
	}
}
