package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, EmailKey, claims.Email)
}

// tokenFromHeader returns the session token from an Authorization bearer
// header or, failing that, from the session cookie in a Cookie header.
func tokenFromHeader(h http.Header) (string, error) {
	if authHeader := h.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}

	r := http.Request{Header: h}
	if c, err := r.Cookie(auth.SessionCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", auth.ErrMissingToken
}

// RequireAuth returns a Connect interceptor that validates the session token
// and adds the user ID and email to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			tokenString, err := tokenFromHeader(req.Header())
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(withClaims(ctx, claims), req)
		}
	}
}

// RequireSession guards browser routes. Requests without a valid session
// cookie or bearer token are redirected to loginPath with the original path
// carried in callbackUrl.
func RequireSession(jwtManager *auth.JWTManager, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := tokenFromHeader(r.Header)
			if err == nil {
				var claims *auth.Claims
				if claims, err = jwtManager.Validate(tokenString); err == nil {
					next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
					return
				}
			}

			http.Redirect(w, r, loginPath+"?callbackUrl="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
		})
	}
}
