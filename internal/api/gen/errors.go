package gen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hbomb79/mediagrab/pkg/logger"
	"github.com/labstack/echo/v4"
)

type APIError struct {
	// Always true; lets clients test `response.error` regardless of status
	Failed bool `json:"error"`

	// Human readable error display message
	Message string `json:"message"`

	// Used to alter the HTTP response status in accordance with the error
	Status int `json:"-"`

	// Additional message for internal logging only. Will not be included in the message
	// sent to the user.
	InternalMessage string `json:"-"`
}

// Error satisifies the Go error interface and simply exposes the
// message contained by this APIError.
func (err APIError) Error() string {
	return fmt.Sprintf("api error: %s", err.Message)
}

// NewAPIError constructs an APIError with a public message, and an internal
// message derived from the cause (if any) which is logged but never sent.
func NewAPIError(status int, message string, cause error) APIError {
	apiErr := APIError{Failed: true, Status: status, Message: message}
	if cause != nil {
		apiErr.InternalMessage = cause.Error()
	}

	return apiErr
}

// GetHTTPErrorHandler returns an echo HTTP error handler
// which understands how to interpret APIError, and echo's own
// HTTPError (other than 404s). If an error is provided which is not
// recognized, it will be passed off to the fallback HTTP handler provided.
func GetHTTPErrorHandler(fallbackHandler echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	logger := logger.Get("API")
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			logger.Warnf("Error %v raised after response to %s was committed\n", err, ctx.Request().RequestURI)
			return
		}

		var apiErr APIError
		var httpErr *echo.HTTPError
		if ok := errors.As(err, &apiErr); ok {
			apiErr.Failed = true
			if apiErr.Status == 0 {
				apiErr.Status = http.StatusInternalServerError
			}
			if len(apiErr.Message) == 0 {
				apiErr.Message = http.StatusText(apiErr.Status)
			}
			if len(apiErr.InternalMessage) > 0 {
				logger.Errorf("Request failure, internal error: %s\n", apiErr.InternalMessage)
			}

			if err := ctx.JSON(apiErr.Status, apiErr); err == nil {
				return
			}
		} else if ok := errors.As(err, &httpErr); ok && httpErr.Code != http.StatusNotFound && httpErr.Code < http.StatusInternalServerError {
			// Client errors raised by echo itself (method not allowed, body too large, ...)
			message, ok := httpErr.Message.(string)
			if !ok {
				message = http.StatusText(httpErr.Code)
			}

			if err := ctx.JSON(httpErr.Code, APIError{Failed: true, Message: message}); err == nil {
				return
			}
		}

		logger.Debugf(
			"%s request to %s caused error response which is not an APIError; falling back to default handling\n",
			ctx.Request().Method, ctx.Request().RequestURI,
		)
		fallbackHandler(err, ctx)
	}
}
