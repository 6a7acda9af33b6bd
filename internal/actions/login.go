package actions

import (
	"context"
	"log/slog"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/validation"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgSomethingWentWrong = "Something went wrong"
)

// SignInFunc is the auth framework's sign-in entry point.
type SignInFunc func(ctx context.Context, provider string, form validation.Form) (*auth.Session, error)

// LoginResult carries either a message for the login form or the new session.
type LoginResult struct {
	Message string
	Session *auth.Session
}

// Login adapts the auth framework to the login form.
type Login struct {
	signIn  SignInFunc
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLogin wires the orchestrator. m may be nil.
func NewLogin(signIn SignInFunc, m *metrics.Metrics, logger *slog.Logger) *Login {
	return &Login{signIn: signIn, metrics: m, logger: logger}
}

// Authenticate submits form to the credentials provider. prevState is the
// message from the previous attempt and does not influence this one.
// Classified auth failures become a message; any other error is returned.
func (l *Login) Authenticate(ctx context.Context, prevState string, form validation.Form) (LoginResult, error) {
	session, err := l.signIn(ctx, auth.CredentialsProviderName, form)
	if err == nil {
		l.metrics.Login(metrics.OutcomeOK)
		l.logger.Info("User logged in", "user_id", session.User.ID)
		return LoginResult{Session: session}, nil
	}

	ae, ok := auth.AsAuthError(err)
	if !ok {
		l.metrics.Login(metrics.OutcomeError)
		return LoginResult{}, err
	}

	switch ae.Type {
	case auth.CredentialsSignin:
		l.metrics.Login(metrics.OutcomeRejected)
		return LoginResult{Message: MsgInvalidCredentials}, nil
	default:
		l.metrics.Login(metrics.OutcomeAuthError)
		l.logger.Warn("Sign-in failed", "type", ae.Type, "error", ae.Err, "previous", prevState)
		return LoginResult{Message: MsgSomethingWentWrong}, nil
	}
}
