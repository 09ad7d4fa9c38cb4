package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/v3/assert"
)

// ErrorResponse is the JSON shape of every error returned by the API.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// AssertErrorResponse checks that the recorded response carries the expected status code,
// and an error body with the message provided. An empty expectedMessage expects the
// standard HTTP status text.
func AssertErrorResponse(t *testing.T, response *httptest.ResponseRecorder, expectedStatusCode int, expectedMessage string) {
	t.Helper()
	assert.Equal(t, response.Code, expectedStatusCode, "HTTP response status code did not match expected")

	apiErr := ExtractErrorResponse(t, response.Body.Bytes())
	assert.Equal(t, apiErr.Error, true)
	if expectedMessage == "" {
		assert.Equal(t, apiErr.Message, http.StatusText(expectedStatusCode))
	} else {
		assert.Equal(t, apiErr.Message, expectedMessage)
	}

	// Internal detail (e.g. internal messages, status codes) should never leak
	var raw map[string]any
	assert.NilError(t, json.Unmarshal(response.Body.Bytes(), &raw))
	assert.Equal(t, len(raw), 2, "error body contains unexpected keys: %v", raw)
}

func ExtractErrorResponse(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var apiError ErrorResponse
	if err := json.Unmarshal(body, &apiError); err != nil {
		t.Errorf("Could not extract error response from HTTP response body %q: %s", body, err)
	}

	return apiError
}
