package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "teamsort/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeInvalidInput, http.StatusBadRequest},
		{dErrors.CodeConflict, http.StatusConflict},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodeNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(tc.code, "x"))
		if w.Code != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, w.Code)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Weight int `json:"weight"`
	}

	t.Run("decodes known fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"weight":3}`))
		got, err := DecodeJSON[payload](req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Weight != 3 {
			t.Fatalf("expected weight 3, got %d", got.Weight)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"weight":3,"extra":true}`))
		_, err := DecodeJSON[payload](req)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		_, err := DecodeJSON[payload](req)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})
}
