package testutil

import (
	"net/http"

	"teamsort/pkg/requestcontext"
)

// WithOperator marks the request as coming from an authenticated operator,
// as the operator guard would.
func WithOperator(req *http.Request, operator string) *http.Request {
	return req.WithContext(requestcontext.WithOperator(req.Context(), operator))
}

// WithRequestID sets the correlation id the request id middleware would set.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
