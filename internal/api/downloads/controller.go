package downloads

import (
	"context"
	"errors"
	"net/http"

	"github.com/hbomb79/mediagrab/internal/api/gen"
	"github.com/hbomb79/mediagrab/internal/http/autolink"
	"github.com/hbomb79/mediagrab/internal/media"
	"github.com/hbomb79/mediagrab/internal/resolve"
	"github.com/labstack/echo/v4"
)

const (
	unreadableResponseMessage = "Invalid response from API"
	processingFailureMessage  = "Error processing media information"
	unexpectedFailureMessage  = "An unexpected error occurred. Please try again."
)

type (
	// Request is the body accepted by the download endpoint. URL is a
	// pointer so that an absent field can be told apart from an empty one.
	Request struct {
		URL *string `json:"url" validate:"required"`
	}

	Service interface {
		Resolve(ctx context.Context, url string) (*media.Result, error)
	}

	Controller struct {
		service Service
	}
)

func New(service Service) *Controller {
	return &Controller{service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("", controller.download)
}

// download accepts a JSON body containing the URL to resolve, and responds
// with the normalized media information for that URL.
func (controller *Controller) download(ec echo.Context) error {
	var request Request
	if err := ec.Bind(&request); err != nil {
		return gen.NewAPIError(http.StatusBadRequest, resolve.MissingURLMessage, err)
	}
	if err := ec.Validate(&request); err != nil {
		return gen.NewAPIError(http.StatusBadRequest, resolve.MissingURLMessage, err)
	}

	result, err := controller.service.Resolve(ec.Request().Context(), *request.URL)
	if err != nil {
		return toAPIError(err)
	}

	return ec.JSON(http.StatusOK, result)
}

// toAPIError classifies an error from the resolution service in to the
// APIError the client should see. Only validation and upstream rejection
// messages are exposed; all other detail is kept internal.
func toAPIError(err error) error {
	var validationErr *resolve.ValidationError
	var rejectedErr *autolink.RejectedError

	switch {
	case errors.As(err, &validationErr):
		return gen.NewAPIError(http.StatusBadRequest, validationErr.Message, nil)
	case errors.As(err, &rejectedErr):
		return gen.NewAPIError(http.StatusBadRequest, rejectedErr.Message, nil)
	case errors.Is(err, autolink.ErrUnreadableResponse):
		return gen.NewAPIError(http.StatusInternalServerError, unreadableResponseMessage, err)
	case errors.Is(err, media.ErrProcessing):
		return gen.NewAPIError(http.StatusInternalServerError, processingFailureMessage, err)
	default:
		return gen.NewAPIError(http.StatusInternalServerError, unexpectedFailureMessage, err)
	}
}
