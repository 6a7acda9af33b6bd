package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/validation"
)

// CredentialsProviderName is the provider key for email/password sign-in.
const CredentialsProviderName = "credentials"

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	ErrEmailExists  = errors.New("email already registered")
)

// UserLookup is the storage the credentials provider needs.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CredentialsProvider implements password-based authentication using bcrypt.
type CredentialsProvider struct {
	users  UserLookup
	logger *slog.Logger
}

// NewCredentialsProvider creates a new password-based provider.
func NewCredentialsProvider(users UserLookup, logger *slog.Logger) *CredentialsProvider {
	return &CredentialsProvider{users: users, logger: logger}
}

// Name implements Provider.
func (p *CredentialsProvider) Name() string {
	return CredentialsProviderName
}

// Authorize validates the email/password shape, looks the user up by exact
// email and compares the password hash. Unknown users and wrong passwords
// are rejected the same way so callers cannot tell which one happened.
func (p *CredentialsProvider) Authorize(ctx context.Context, form validation.Form) (*models.User, error) {
	creds, errs := validation.ParseCredentials(form)
	if errs != nil {
		p.logger.Info("Invalid credentials", "fields", errs.Fields())
		return nil, nil
	}

	user, err := p.users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		p.logger.Error("Failed to fetch user", "error", err)
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		p.logger.Info("Invalid credentials")
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		p.logger.Info("Invalid credentials")
		return nil, nil
	}

	return user, nil
}

// UserCreator is the storage needed to provision accounts.
type UserCreator interface {
	UserLookup
	CreateUser(ctx context.Context, user *models.User) error
}

// Register creates a user with a bcrypt-hashed password. It is used by the
// provisioning tool; the web flows never create users. The email and
// password must pass the same rules Authorize applies, or the account could
// never sign in.
func Register(ctx context.Context, users UserCreator, email, name, password string, cost int) (*models.User, error) {
	if _, errs := validation.ParseCredentials(validation.Form{"email": email, "password": password}); errs != nil {
		if _, bad := errs["email"]; bad {
			return nil, ErrInvalidEmail
		}
		return nil, ErrWeakPassword
	}

	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, name, string(hashed))
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
