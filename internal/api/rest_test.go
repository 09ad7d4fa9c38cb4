package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hbomb79/mediagrab/internal/api"
	"github.com/hbomb79/mediagrab/internal/http/autolink"
	"github.com/hbomb79/mediagrab/internal/media"
	"github.com/hbomb79/mediagrab/internal/resolve"
	"github.com/hbomb79/mediagrab/pkg/logger"
	"github.com/hbomb79/mediagrab/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

type mockService struct {
	mock.Mock
}

func (m *mockService) Resolve(ctx context.Context, url string) (*media.Result, error) {
	args := m.Called(url)
	result, _ := args.Get(0).(*media.Result)
	return result, args.Error(1)
}

func newGateway(t *testing.T, service *mockService) *api.RestGateway {
	gateway, err := api.NewRestGateway(&api.RestConfig{HostAddr: "127.0.0.1:0", BodyLimit: "1K"}, service)
	require.NoError(t, err)
	return gateway
}

func Test_Download_MissingURL(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"url": null}`, `{"url": 42}`, `not json`, `["https://example.com"]`} {
		t.Run(body, func(t *testing.T) {
			service := &mockService{}
			response := helpers.PostDownload(newGateway(t, service), body)

			helpers.AssertErrorResponse(t, response, http.StatusBadRequest, "URL is required")
			service.AssertNotCalled(t, "Resolve", mock.Anything)
		})
	}
}

func Test_Download_ErrorClassification(t *testing.T) {
	tests := []struct {
		summary         string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"validation", &resolve.ValidationError{Message: resolve.InvalidURLMessage}, http.StatusBadRequest, "Invalid URL format"},
		{"rejected", &autolink.RejectedError{Message: "unsupported"}, http.StatusBadRequest, "unsupported"},
		{"wrapped rejection", fmt.Errorf("ctx: %w", &autolink.RejectedError{Message: "nope"}), http.StatusBadRequest, "nope"},
		{"unreadable", fmt.Errorf("failed to resolve: %w", autolink.ErrUnreadableResponse), http.StatusInternalServerError, "Invalid response from API"},
		{"processing", fmt.Errorf("%w: secret detail", media.ErrProcessing), http.StatusInternalServerError, "Error processing media information"},
		{"unknown", errors.New("secret detail"), http.StatusInternalServerError, "An unexpected error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			service := &mockService{}
			service.On("Resolve", "https://example.com/v").Return(nil, tt.err)

			response := helpers.PostDownload(newGateway(t, service), `{"url": "https://example.com/v"}`)

			helpers.AssertErrorResponse(t, response, tt.expectedStatus, tt.expectedMessage)
			assert.NotContains(t, response.Body.String(), "secret detail")
		})
	}
}

func Test_Download_Success(t *testing.T) {
	hasAudio, hasMultiple := true, false
	service := &mockService{}
	service.On("Resolve", "https://example.com/v").Return(&media.Result{
		Title:                "A video",
		Author:               "Unknown",
		Duration:             0,
		Medias:               []media.Item{{"type": "audio"}},
		Type:                 "single",
		HasAudio:             &hasAudio,
		HasMultipleQualities: &hasMultiple,
	}, nil)

	response := helpers.PostDownload(newGateway(t, service), `{"url": "https://example.com/v"}`)

	assert.Equal(t, http.StatusOK, response.Code)
	body := helpers.DecodeBody(t, response)
	assert.Equal(t, "A video", body["title"])
	assert.Equal(t, false, body["error"])
	assert.Equal(t, true, body["has_audio"])
	assert.NotContains(t, body, "quality_map")
	service.AssertExpectations(t)
}

func Test_Download_TrailingSlash(t *testing.T) {
	service := &mockService{}
	service.On("Resolve", "https://example.com/v").Return(&media.Result{Medias: []media.Item{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/download/", strings.NewReader(`{"url": "https://example.com/v"}`))
	req.Header.Set("Content-Type", "application/json")
	response := httptest.NewRecorder()
	newGateway(t, service).ServeHTTP(response, req)

	assert.Equal(t, http.StatusOK, response.Code)
	service.AssertExpectations(t)
}

func Test_Download_MethodNotAllowed(t *testing.T) {
	response := helpers.Get(newGateway(t, &mockService{}), "/download")

	helpers.AssertErrorResponse(t, response, http.StatusMethodNotAllowed, "")
}

func Test_Download_BodyTooLarge(t *testing.T) {
	service := &mockService{}
	body := fmt.Sprintf(`{"url": "https://example.com/%s"}`, strings.Repeat("a", 2048))

	response := helpers.PostDownload(newGateway(t, service), body)

	helpers.AssertErrorResponse(t, response, http.StatusRequestEntityTooLarge, "")
	service.AssertNotCalled(t, "Resolve", mock.Anything)
}

func Test_Download_PanicIsInternalServerError(t *testing.T) {
	service := &mockService{}
	service.On("Resolve", mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	response := helpers.PostDownload(newGateway(t, service), `{"url": "https://example.com/v"}`)

	helpers.AssertErrorResponse(t, response, http.StatusInternalServerError, "Internal server error")
	assert.NotContains(t, response.Body.String(), "boom")
}

func Test_LandingPage(t *testing.T) {
	gateway := newGateway(t, &mockService{})

	response := helpers.Get(gateway, "/")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, response.Body.String(), "<title>mediagrab</title>")

	notFound := helpers.Get(gateway, "/does/not/exist")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, response.Body.String(), notFound.Body.String(), "unknown paths serve the landing page")
}

func Test_Healthz(t *testing.T) {
	response := helpers.Get(newGateway(t, &mockService{}), "/healthz")

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, helpers.DecodeBody(t, response))
}

func Test_OpenAPIDocument(t *testing.T) {
	response := helpers.Get(newGateway(t, &mockService{}), "/api/openapi.json")

	assert.Equal(t, http.StatusOK, response.Code)
	body := helpers.DecodeBody(t, response)
	assert.Equal(t, "3.0.3", body["openapi"])

	paths, ok := body["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/download")
	assert.Contains(t, paths, "/healthz")
}

func Test_RequestIDHeader(t *testing.T) {
	response := helpers.Get(newGateway(t, &mockService{}), "/healthz")

	assert.NotEmpty(t, response.Header().Get("X-Request-Id"))
}
