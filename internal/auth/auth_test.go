package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/validation"
)

type fakeUsers struct {
	users   map[string]*models.User
	err     error
	lookups int
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	if f.users == nil {
		f.users = make(map[string]*models.User)
	}
	f.users[u.Email] = u
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUsers(t *testing.T) *fakeUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &fakeUsers{users: map[string]*models.User{
		"user@nextmail.com": {ID: "u1", Email: "user@nextmail.com", PasswordHash: string(hash)},
	}}
}

func TestCredentialsProviderAuthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return the user", func(t *testing.T) {
		p := NewCredentialsProvider(newUsers(t), discardLogger())
		u, err := p.Authorize(ctx, validation.Form{"email": "user@nextmail.com", "password": "123456"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u == nil || u.ID != "u1" {
			t.Errorf("expected user u1, got %+v", u)
		}
	})

	t.Run("short password is rejected without lookup", func(t *testing.T) {
		users := newUsers(t)
		p := NewCredentialsProvider(users, discardLogger())
		u, err := p.Authorize(ctx, validation.Form{"email": "a@b.com", "password": "short"})
		if u != nil || err != nil {
			t.Errorf("expected rejection, got %+v, %v", u, err)
		}
		if users.lookups != 0 {
			t.Errorf("expected no lookup, got %d", users.lookups)
		}
	})

	t.Run("unknown user and wrong password look the same", func(t *testing.T) {
		p := NewCredentialsProvider(newUsers(t), discardLogger())
		u1, err1 := p.Authorize(ctx, validation.Form{"email": "nobody@nextmail.com", "password": "123456"})
		u2, err2 := p.Authorize(ctx, validation.Form{"email": "user@nextmail.com", "password": "wrong-password"})
		if u1 != nil || err1 != nil || u2 != nil || err2 != nil {
			t.Errorf("expected identical rejections, got (%v, %v) and (%v, %v)", u1, err1, u2, err2)
		}
	})

	t.Run("store failure is an error, not a rejection", func(t *testing.T) {
		boom := errors.New("connection refused")
		p := NewCredentialsProvider(&fakeUsers{err: boom}, discardLogger())
		_, err := p.Authorize(ctx, validation.Form{"email": "user@nextmail.com", "password": "123456"})
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped store error, got %v", err)
		}
	})
}

func TestFrameworkSignIn(t *testing.T) {
	ctx := context.Background()
	tokens := NewJWTManager("test-secret", time.Hour)

	newFramework := func(users *fakeUsers) *Framework {
		return NewFramework(tokens, NewCredentialsProvider(users, discardLogger()))
	}

	t.Run("success issues a verifiable token", func(t *testing.T) {
		s, err := newFramework(newUsers(t)).SignIn(ctx, CredentialsProviderName, validation.Form{
			"email": "user@nextmail.com", "password": "123456", "redirectTo": "/dashboard/invoices",
		})
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if s.RedirectTo != "/dashboard/invoices" {
			t.Errorf("RedirectTo = %q", s.RedirectTo)
		}
		claims, err := tokens.Validate(s.Token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "u1" || claims.Email != "user@nextmail.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("rejection is CredentialsSignin", func(t *testing.T) {
		_, err := newFramework(newUsers(t)).SignIn(ctx, CredentialsProviderName, validation.Form{
			"email": "user@nextmail.com", "password": "nope-nope",
		})
		ae, ok := AsAuthError(err)
		if !ok || ae.Type != CredentialsSignin {
			t.Errorf("expected CredentialsSignin, got %v", err)
		}
	})

	t.Run("provider failure is CallbackRouteError", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := newFramework(&fakeUsers{err: boom}).SignIn(ctx, CredentialsProviderName, validation.Form{
			"email": "user@nextmail.com", "password": "123456",
		})
		ae, ok := AsAuthError(err)
		if !ok || ae.Type != CallbackRouteError {
			t.Fatalf("expected CallbackRouteError, got %v", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("expected cause to be preserved, got %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := newFramework(newUsers(t)).SignIn(ctx, "github", validation.Form{})
		ae, ok := AsAuthError(err)
		if !ok || ae.Type != InvalidProvider {
			t.Errorf("expected InvalidProvider, got %v", err)
		}
	})

	t.Run("cancelled context is unclassified", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newFramework(newUsers(t)).SignIn(cctx, CredentialsProviderName, validation.Form{})
		if _, ok := AsAuthError(err); ok {
			t.Errorf("expected plain error, got AuthError %v", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRedirectTarget(t *testing.T) {
	tests := map[string]string{
		"":                    DefaultRedirect,
		"/dashboard/invoices": "/dashboard/invoices",
		"https://evil.test":   DefaultRedirect,
		"//evil.test":         DefaultRedirect,
		"/\\evil.test":        DefaultRedirect,
	}
	for in, want := range tests {
		if got := redirectTarget(in); got != want {
			t.Errorf("redirectTarget(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	user := &models.User{ID: "u1", Email: "user@nextmail.com"}

	token, expires, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expires) > time.Minute {
		t.Errorf("expiry too far out: %v", expires)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other", time.Minute)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { m.now = time.Now }()
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{}

	u, err := Register(ctx, users, "new@nextmail.com", "New", "123456", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("123456")) != nil {
		t.Error("stored hash does not match password")
	}

	if _, err := Register(ctx, users, "new@nextmail.com", "Again", "123456", bcrypt.MinCost); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
	if _, err := Register(ctx, users, "x@nextmail.com", "X", "12345", bcrypt.MinCost); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}

	t.Run("password length counts characters", func(t *testing.T) {
		// Six bytes, three characters.
		if _, err := Register(ctx, users, "accent@nextmail.com", "A", "ééé", bcrypt.MinCost); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("email must be one sign-in accepts", func(t *testing.T) {
		for _, email := range []string{" pad@nextmail.com", "not-an-email", ""} {
			if _, err := Register(ctx, users, email, "P", "123456", bcrypt.MinCost); !errors.Is(err, ErrInvalidEmail) {
				t.Errorf("Register(%q): expected ErrInvalidEmail, got %v", email, err)
			}
		}
	})

	t.Run("registered account can sign in", func(t *testing.T) {
		p := NewCredentialsProvider(users, discardLogger())
		got, err := p.Authorize(ctx, validation.Form{"email": "new@nextmail.com", "password": "123456"})
		if err != nil || got == nil || got.ID != u.ID {
			t.Errorf("Authorize: got %+v, %v", got, err)
		}
	})
}
