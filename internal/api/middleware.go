package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/seolim/thoughtcast/internal/auth"
	errorsx "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user id stored by the auth middleware.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Authenticator verifies the bearer token and stores the resolved user id in
// the request context. Runs before any business logic.
func Authenticator(verifier auth.TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondError(w, logger, errorsx.NewAuthError("missing bearer token"), nil)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				respondError(w, logger, err, nil)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
