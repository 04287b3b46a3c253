package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/corebank/transfer-engine/internal/commons"
	"github.com/corebank/transfer-engine/internal/logger"
)

type contextKey string

const usernameContextKey contextKey = "authenticated_username"
const tokenContextKey contextKey = "session_token"

type SessionValidator interface {
	Validate(token string) (string, error)
}

// SessionAuth rejects the request before any handler business logic when the
// bearer token is missing, unknown, or expired.
func SessionAuth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Info("session auth middleware missing bearer token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				unauthorized(w)
				return
			}

			username, err := sessions.Validate(token)
			if err != nil {
				logger.Info("session auth middleware rejected token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey).(string)
	return username, ok
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(commons.ErrorResponse[struct{}]("unauthorized", "invalid or expired session token"))
}
