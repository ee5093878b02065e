package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "teamsort/pkg/domain-errors"
	"teamsort/pkg/platform/httputil"
	"teamsort/pkg/requestcontext"
)

// OperatorValidator validates operator bearer tokens.
type OperatorValidator interface {
	ValidateToken(tokenString string) (*OperatorClaims, error)
}

// OperatorClaims is what the guard needs from a validated token.
type OperatorClaims struct {
	Operator string
	TokenID  string
}

// RequireOperator rejects requests without a valid operator bearer token and
// stores the operator name in the request context.
func RequireOperator(validator OperatorValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"path", r.URL.Path,
					"error", err,
				)
				if !dErrors.Is(err) {
					err = dErrors.Wrap(err, dErrors.CodeUnauthorized, "Invalid or expired token")
				}
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithOperator(ctx, claims.Operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
