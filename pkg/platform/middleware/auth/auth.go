package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/platform/httputil"
	"domainpanel/pkg/requestcontext"
)

// TokenValidator turns a bearer token into the panel user it was issued to.
type TokenValidator interface {
	ValidateToken(token string) (requestcontext.User, error)
}

// Authenticate attaches the user when a valid bearer token is present and
// lets guests through otherwise. A present but invalid token is rejected.
func Authenticate(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return authenticate(validator, logger, false)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return authenticate(validator, logger, true)
}

func authenticate(validator TokenValidator, logger *slog.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			user, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithIdentity(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
