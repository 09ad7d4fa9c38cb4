package autolink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hbomb79/mediagrab/pkg/logger"
)

const (
	apiKeyHeader  = "x-rapidapi-key"
	apiHostHeader = "x-rapidapi-host"

	// maxResponseBytes bounds how much of an upstream response body is read.
	maxResponseBytes = 8 << 20
)

var log = logger.Get("Autolink")

type (
	// Config contains the deployment-time settings for talking to the
	// upstream link resolution API. The key and host are secrets and
	// must be supplied by the environment (or a config file).
	Config struct {
		Host           string `yaml:"host" env:"AUTOLINK_HOST" env-required:"true" validate:"required,hostname_rfc1123"`
		ApiKey         string `yaml:"api_key" env:"AUTOLINK_API_KEY" env-required:"true" validate:"required"`
		Path           string `yaml:"path" env:"AUTOLINK_PATH" env-default:"/v1/social/autolink" validate:"required,startswith=/"`
		BaseURL        string `yaml:"base_url" env:"AUTOLINK_BASE_URL" validate:"omitempty,url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" env:"AUTOLINK_TIMEOUT_SECONDS" env-default:"20" validate:"min=1,max=120"`
	}

	// Client resolves social media URLs using the upstream 'autolink'
	// endpoint. A single request is made per call and it is never retried.
	Client struct {
		config   Config
		endpoint string
		http     *http.Client
	}

	resolveRequest struct {
		URL string `json:"url"`
	}
)

// Timeout returns the configured upstream timeout as a duration.
func (config *Config) Timeout() time.Duration {
	return time.Duration(config.TimeoutSeconds) * time.Second
}

// Endpoint returns the full URL of the upstream resolution endpoint. The
// base URL defaults to https on the configured host.
func (config *Config) Endpoint() string {
	base := config.BaseURL
	if base == "" {
		base = "https://" + config.Host
	}

	return strings.TrimSuffix(base, "/") + config.Path
}

func New(config Config) *Client {
	return NewWithHTTPClient(config, &http.Client{Timeout: config.Timeout()})
}

// NewWithHTTPClient constructs a Client which performs its requests
// using the http.Client provided.
func NewWithHTTPClient(config Config, httpClient *http.Client) *Client {
	return &Client{config: config, endpoint: config.Endpoint(), http: httpClient}
}

// Resolve sends the URL provided to the upstream and parses the response in to
// an Outcome. An error is returned only if the upstream could not be reached or
// its response could not be understood (see ErrUnreadableResponse); an upstream
// which explicitly rejects the URL yields an OutcomeRejected instead.
func (client *Client) Resolve(ctx context.Context, url string) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, client.config.Timeout())
	defer cancel()

	body, err := json.Marshal(resolveRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to encode autolink request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build autolink request: %w", err)
	}
	req.Header.Set(apiKeyHeader, client.config.ApiKey)
	req.Header.Set(apiHostHeader, client.config.Host)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.http.Do(req)
	if err != nil {
		return nil, &UnreadableResponseError{reason: fmt.Sprintf("failed to perform POST(%s): %s", client.endpoint, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UnreadableResponseError{reason: fmt.Sprintf("failed to read response body: %s", err)}
	}

	log.Debugf("Autolink responded HTTP %d (%d bytes)\n", resp.StatusCode, len(respBody))
	return parseOutcome(respBody)
}
