package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/actions"
	"github.com/mmynk/invoicer/internal/validation"
)

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	ExpiresAt  int64  `json:"expiresAt"`
	UserID     string `json:"userId"`
	RedirectTo string `json:"redirectTo"`
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	login  *actions.Login
	logger *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(login *actions.Login, logger *slog.Logger) *AuthService {
	return &AuthService{login: login, logger: logger}
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	form := validation.Form{"email": req.Msg.Email, "password": req.Msg.Password}
	if req.Msg.RedirectTo != "" {
		form["redirectTo"] = req.Msg.RedirectTo
	}

	res, err := s.login.Authenticate(ctx, "", form)
	if err != nil {
		s.logger.Error("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if res.Session == nil {
		code := connect.CodeInternal
		if res.Message == actions.MsgInvalidCredentials {
			code = connect.CodeUnauthenticated
		}
		return nil, connect.NewError(code, errors.New(res.Message))
	}

	return connect.NewResponse(&LoginResponse{
		Token:      res.Session.Token,
		ExpiresAt:  res.Session.ExpiresAt.Unix(),
		UserID:     res.Session.User.ID,
		RedirectTo: res.Session.RedirectTo,
	}), nil
}
