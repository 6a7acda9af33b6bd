package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/validation"
)

// SessionCookieName carries the session token in browser requests.
const SessionCookieName = "session_token"

// DefaultRedirect is where a successful sign-in lands when the form does not
// ask for a specific page.
const DefaultRedirect = "/dashboard"

// ErrorType classifies sign-in failures.
type ErrorType string

const (
	// CredentialsSignin: the provider rejected the submitted credentials.
	CredentialsSignin ErrorType = "CredentialsSignin"
	// CallbackRouteError: the provider failed while deciding.
	CallbackRouteError ErrorType = "CallbackRouteError"
	// InvalidProvider: no provider is registered under the requested name.
	InvalidProvider ErrorType = "InvalidProvider"
)

// AuthError is a classified sign-in failure. Callers branch on Type.
type AuthError struct {
	Type ErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AsAuthError extracts an *AuthError from err's chain.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Session is the result of a successful sign-in.
type Session struct {
	User       *models.User
	Token      string
	ExpiresAt  time.Time
	RedirectTo string
}

// Framework dispatches sign-in requests to registered providers and issues
// session tokens.
type Framework struct {
	providers map[string]Provider
	tokens    *JWTManager
}

// NewFramework registers providers by name.
func NewFramework(tokens *JWTManager, providers ...Provider) *Framework {
	f := &Framework{providers: make(map[string]Provider, len(providers)), tokens: tokens}
	for _, p := range providers {
		f.providers[p.Name()] = p
	}
	return f
}

// Tokens returns the manager used to sign and verify sessions.
func (f *Framework) Tokens() *JWTManager {
	return f.tokens
}

// SignIn runs the named provider against the raw form. Failures the
// framework understands come back as *AuthError; anything else (a cancelled
// context, a token that cannot be signed) is returned as is.
func (f *Framework) SignIn(ctx context.Context, provider string, form validation.Form) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok := f.providers[provider]
	if !ok {
		return nil, &AuthError{Type: InvalidProvider, Err: fmt.Errorf("unknown provider %q", provider)}
	}

	user, err := p.Authorize(ctx, form)
	if err != nil {
		return nil, &AuthError{Type: CallbackRouteError, Err: err}
	}
	if user == nil {
		return nil, &AuthError{Type: CredentialsSignin}
	}

	token, expires, err := f.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &Session{
		User:       user,
		Token:      token,
		ExpiresAt:  expires,
		RedirectTo: redirectTarget(form["redirectTo"]),
	}, nil
}

// redirectTarget only follows local absolute paths.
func redirectTarget(to string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.Contains(to, "\\") {
		return DefaultRedirect
	}
	return to
}
