package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/infrastructure/auth"
)

// UserIDHeader carries the acting user when a trusted proxy authenticates requests.
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Identity resolves the acting user. With a verifier the request must carry a
// valid bearer token; without one the X-User-ID header is trusted.
func Identity(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string

			if verifier != nil {
				header := r.Header.Get("Authorization")
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || token == "" {
					writeUnauthorized(w, "missing bearer token")
					return
				}
				claims, err := verifier.Verify(token)
				if err != nil {
					writeUnauthorized(w, err.Error())
					return
				}
				userID = claims.UserID
			} else {
				userID = strings.TrimSpace(r.Header.Get(UserIDHeader))
			}

			if userID == "" {
				writeUnauthorized(w, "missing user identity")
				return
			}

			ctx := WithUserID(r.Context(), userID)
			logger := zerolog.Ctx(ctx).With().Str("user_id", userID).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
		})
	}
}

// WithUserID stores the acting user in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the acting user set by Identity.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
