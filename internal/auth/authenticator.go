package auth

import (
	"context"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/validation"
)

// Provider is a sign-in strategy registered with the Framework.
// This abstraction allows adding other methods (passkeys, OAuth, etc.)
// next to the credentials provider without changing the login flow.
type Provider interface {
	// Name is the key callers pass to Framework.SignIn, e.g. "credentials".
	Name() string

	// Authorize inspects the raw submitted form. It returns the user on
	// success and nil, nil when the submission is rejected. A non-nil error
	// means the provider could not decide (e.g. the user store is down).
	Authorize(ctx context.Context, form validation.Form) (*models.User, error)
}
