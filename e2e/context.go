package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries the HTTP client and the last response between steps.
type TestContext struct {
	BaseURL       string
	OperatorToken string

	client      *http.Client
	lastStatus  int
	lastBody    []byte
	lastDecoded map[string]interface{}
}

// NewTestContext returns a context pointed at baseURL.
func NewTestContext(baseURL, operatorToken string) *TestContext {
	return &TestContext{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		OperatorToken: operatorToken,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears the last response.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastDecoded = nil
}

// POST sends body as JSON. A nil body sends no payload.
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.POSTWithHeaders(path, body, nil)
}

// POSTWithHeaders sends body as JSON with extra headers.
func (tc *TestContext) POSTWithHeaders(path string, body interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

// GET issues a GET with optional headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	tc.lastDecoded = nil
	if len(body) > 0 {
		var decoded map[string]interface{}
		if err := json.Unmarshal(body, &decoded); err == nil {
			tc.lastDecoded = decoded
		}
	}
	return nil
}

// GetStatusCode returns the status of the last response.
func (tc *TestContext) GetStatusCode() int {
	return tc.lastStatus
}

// GetResponseBody returns the raw body of the last response.
func (tc *TestContext) GetResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastDecoded == nil {
		return nil, fmt.Errorf("last response is not a JSON object: %s", string(tc.lastBody))
	}
	v, ok := tc.lastDecoded[field]
	if !ok {
		return nil, fmt.Errorf("field %q not found in response: %s", field, string(tc.lastBody))
	}
	return v, nil
}

// ResponseContains reports whether the last JSON response has field.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

// GetOperatorToken returns the bearer token for operator routes.
func (tc *TestContext) GetOperatorToken() string {
	return tc.OperatorToken
}
