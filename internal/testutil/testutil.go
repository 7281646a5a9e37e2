package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithOrigin creates a cross-origin HTTP request for testing
func NewRequestWithOrigin(method, path, origin string) *http.Request {
	r := NewRequest(method, path)
	r.Header.Set("Origin", origin)
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code    int
	Header  http.Header
	RawBody string
	Body    any
}

// RecordHTTPResponse records the HTTP response. Body holds the decoded JSON
// payload, or nil when the body is empty or not JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var body any
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&body)
	}

	return RecordResponse{
		Code:    result.StatusCode,
		Header:  result.Header,
		RawBody: string(bodyBytes),
		Body:    body,
	}
}

// ErrorCode extracts error.code from a JSON error envelope.
func ErrorCode(body any) string {
	envelope, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	errBody, ok := envelope["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}
