package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbomb79/mediagrab/internal/http/autolink"
	"github.com/hbomb79/mediagrab/internal/media"
	"github.com/hbomb79/mediagrab/pkg/logger"
)

const (
	MissingURLMessage = "URL is required"
	InvalidURLMessage = "Invalid URL format"
)

var (
	log = logger.Get("Resolve")

	// ErrValidation is matched (via errors.Is) by any ValidationError.
	ErrValidation = errors.New("invalid resolution request")
)

type (
	// Resolver is the upstream which turns a validated URL in to an Outcome. Any
	// implementation (a real API client, a fake in tests) can be substituted.
	Resolver interface {
		Resolve(ctx context.Context, url string) (*autolink.Outcome, error)
	}

	// ValidationError indicates the caller provided a missing or malformed
	// URL. The message is safe to show to the caller.
	ValidationError struct{ Message string }

	// Service performs a single resolution per call: validate, detect the
	// platform, call the upstream and normalize the result. It holds no
	// mutable state and is safe for concurrent use.
	Service struct {
		resolver Resolver
	}
)

func (err *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", err.Message)
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func New(resolver Resolver) *Service {
	return &Service{resolver: resolver}
}

// Resolve validates the URL provided, asks the upstream to resolve it and
// normalizes the result. Errors returned can be classified using:
//   - ErrValidation (see ValidationError): the URL is missing or malformed
//   - autolink.RejectedError: the upstream refused the URL
//   - autolink.ErrUnreadableResponse: the upstream could not be reached or understood
//   - media.ErrProcessing: the upstream payload could not be normalized
func (service *Service) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	url := strings.TrimSpace(rawURL)
	if !ValidateURL(url) {
		return nil, &ValidationError{Message: InvalidURLMessage}
	}

	log.Infof("Processing %s URL: %s\n", DetectPlatform(url), url)
	outcome, err := service.resolver.Resolve(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", url, err)
	}

	if err := outcome.Err(); err != nil {
		log.Errorf("API Error: %s\n", outcome.Message)
		return nil, err
	}

	result, err := media.Normalize(outcome.Payload)
	if err != nil {
		log.Errorf("Error processing API result: %v\n", err)
		return nil, err
	}

	log.Infof("Successfully processed media: %s\n", result.Title)
	return result, nil
}
