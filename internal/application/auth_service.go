package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/courtbooking/internal/persistence"
)

// UserStore exposes the account storage operations required by the auth
// service.
type UserStore interface {
	CreateUser(ctx context.Context, user persistence.User) error
	GetUserByEmail(ctx context.Context, email string) (persistence.User, error)
}

// TokenIssuer mints the signed session credential handed back after a
// successful authentication.
type TokenIssuer interface {
	Issue(email, name, lastname, phone, role string, points int) (string, error)
	TTL() time.Duration
}

// PasswordHasher derives a storable hash from a cleartext password.
type PasswordHasher func(password string) (string, error)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates registration, login, and identity lookup.
type AuthService struct {
	users          UserStore
	tokens         TokenIssuer
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
// Nil hash/verify functions fall back to the argon2id implementations.
func NewAuthService(users UserStore, tokens TokenIssuer, hash PasswordHasher, verify PasswordVerifier, now func() time.Time, logger *slog.Logger) *AuthService {
	if hash == nil {
		hash = HashPassword
	}
	if verify == nil {
		verify = VerifyPassword
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:          users,
		tokens:         tokens,
		hashPassword:   hash,
		verifyPassword: verify,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register creates an account, hashes the password at rest, and issues the
// first session credential for the new identity.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (result AuthResult, err error) {
	if s == nil || s.users == nil || s.tokens == nil {
		err = fmt.Errorf("AuthService not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Register", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user registered")
	}()

	vErr := validateRegistration(email, params)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(params.Password)
	if err != nil {
		return
	}

	user := persistence.User{
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		Lastname:     strings.TrimSpace(params.Lastname),
		Phone:        strings.TrimSpace(params.Phone),
		Role:         RoleUser,
		Points:       0,
		PasswordHash: hash,
	}

	if err = s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = fmt.Errorf("%w: email already registered", ErrDuplicateKey)
		}
		return
	}

	result, err = s.issueFor(identityFromUser(user))
	return
}

// Login verifies the presented credentials and issues a fresh session
// credential. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result AuthResult, err error) {
	if s == nil || s.users == nil || s.tokens == nil {
		err = fmt.Errorf("AuthService not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	var user persistence.User
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if err = s.verifyPassword(user.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	result, err = s.issueFor(identityFromUser(user))
	return
}

// GetUserByEmail returns the identity view of a stored account.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (identity Identity, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("AuthService not configured")
		return
	}

	email = strings.TrimSpace(strings.ToLower(email))
	logger := s.loggerWith(ctx, "GetUserByEmail", "email", email)

	var user persistence.User
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		logger.ErrorContext(ctx, "user lookup failed", "error", err, "error_kind", ErrorKind(err))
		return
	}

	identity = identityFromUser(user)
	return
}

func (s *AuthService) issueFor(identity Identity) (AuthResult, error) {
	token, err := s.tokens.Issue(identity.Email, identity.Name, identity.Lastname, identity.Phone, identity.Role, identity.Points)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue session token: %w", err)
	}
	return AuthResult{
		Identity:  identity,
		Token:     token,
		ExpiresAt: s.now().Add(s.tokens.TTL()),
	}, nil
}

func validateRegistration(email string, params RegisterParams) *ValidationError {
	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email is invalid")
	}
	if params.Password == "" {
		vErr.add("password", "password is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(params.Lastname) == "" {
		vErr.add("lastname", "lastname is required")
	}
	return vErr
}
