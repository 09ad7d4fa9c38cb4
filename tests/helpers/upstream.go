package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hbomb79/mediagrab/internal/http/autolink"
	"github.com/labstack/gommon/random"
)

// FakeUpstream is an in-process stand-in for the autolink API. It replies to
// every request with a fixed status and body, and records the URLs it was
// asked to resolve.
type FakeUpstream struct {
	server *httptest.Server
	apiKey string

	mutex sync.Mutex
	urls  []string
}

// NewFakeUpstream starts a FakeUpstream which is closed when the test completes.
func NewFakeUpstream(t *testing.T, status int, body string) *FakeUpstream {
	upstream := &FakeUpstream{apiKey: random.String(32, random.Alphanumeric)}
	upstream.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-rapidapi-key") != upstream.apiKey {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"You are not subscribed to this API."}`))
			return
		}

		var request struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err == nil {
			upstream.mutex.Lock()
			upstream.urls = append(upstream.urls, request.URL)
			upstream.mutex.Unlock()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(upstream.server.Close)

	return upstream
}

// Config returns an autolink configuration which targets this fake upstream.
func (upstream *FakeUpstream) Config() autolink.Config {
	return autolink.Config{
		Host:           "autolink.test",
		ApiKey:         upstream.apiKey,
		Path:           "/v1/social/autolink",
		BaseURL:        upstream.server.URL,
		TimeoutSeconds: 5,
	}
}

// RequestedURLs returns the URLs the upstream has been asked to resolve, in order.
func (upstream *FakeUpstream) RequestedURLs() []string {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()

	return append([]string(nil), upstream.urls...)
}
