package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/mediagrab/internal/api/downloads"
	"github.com/hbomb79/mediagrab/internal/api/gen"
	"github.com/hbomb79/mediagrab/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	accessLogFormat        = "${id} ${remote_ip} ${method} ${uri} -> ${status} (${latency_human})\n"
	internalFailureMessage = "Internal server error"
	shutdownGracePeriod    = 10 * time.Second
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr  string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:5000" validate:"required,hostname_port"`
		BodyLimit string `yaml:"body_limit" env:"API_BODY_LIMIT" env-default:"64K" validate:"required"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsbility
	// is to create the routes exposed, serve the landing page, and to translate
	// errors in to the JSON error shape clients expect.
	RestGateway struct {
		config             *RestConfig
		ec                 *echo.Echo
		downloadController controller
	}

	echoValidator struct {
		validate *validator.Validate
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the controllers. The OpenAPI document describing these
// routes is loaded, and validated, here too.
func NewRestGateway(config *RestConfig, downloadService downloads.Service) (*RestGateway, error) {
	doc, err := loadOpenAPIDocument(context.Background())
	if err != nil {
		return nil, err
	}

	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true
	ec.Validator = &echoValidator{validate: validator.New()}

	gateway := &RestGateway{
		config:             config,
		ec:                 ec,
		downloadController: downloads.New(downloadService),
	}
	ec.HTTPErrorHandler = gen.GetHTTPErrorHandler(gateway.fallbackErrorHandler)

	ec.Pre(middleware.RemoveTrailingSlash())
	ec.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	ec.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: accessLogFormat,
		Output: logger.Writer("HTTP", logger.INFO),
	}))
	ec.Use(middleware.Recover())
	ec.Use(middleware.BodyLimit(config.BodyLimit))

	ec.GET("/", serveLandingPage(http.StatusOK))
	ec.GET("/healthz", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	ec.GET("/api/openapi.json", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, doc)
	})

	gateway.downloadController.SetRoutes(ec.Group("/download"))

	return gateway, nil
}

// ServeHTTP allows the gateway to be used as a plain http.Handler.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.NEW, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Wait for cancellation (either from the parent, or from the router failing)
	<-ctx.Done()
	log.Emit(logger.STOP, "Shutting down HTTP server\n")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := gateway.ec.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Graceful shutdown failed, forcing close: %v\n", err)
		gateway.ec.Close()
	}

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// fallbackErrorHandler handles any error not understood by the APIError
// handler. Unknown routes serve the landing page (with a 404 status), and
// everything else becomes a generic internal server error.
func (gateway *RestGateway) fallbackErrorHandler(err error, ec echo.Context) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusNotFound {
		if err := serveLandingPage(http.StatusNotFound)(ec); err != nil {
			log.Errorf("Failed to serve landing page: %v\n", err)
		}
		return
	}

	log.Errorf("Internal server error: %v\n", err)
	if err := ec.JSON(http.StatusInternalServerError, gen.APIError{Failed: true, Message: internalFailureMessage}); err != nil {
		log.Errorf("Failed to write error response: %v\n", err)
	}
}

func (v *echoValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
