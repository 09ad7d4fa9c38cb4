package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/mediagrab/internal/api"
	"github.com/hbomb79/mediagrab/internal/http/autolink"
	"github.com/hbomb79/mediagrab/internal/resolve"
	"github.com/hbomb79/mediagrab/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}
)

// mediagrabImpl represents the top-level object for the server, and is responsible
// for constructing the resolution service and the REST gateway which exposes it.
type mediagrabImpl struct {
	config         Config
	resolveService *resolve.Service
	restGateway    RunnableService
}

func New(config Config) (*mediagrabImpl, error) {
	logger.SetMinLoggingLevel(logger.ParseLevel(config.LogLevel).Level())
	log.Emit(logger.DEBUG, "Bootstrapping services (upstream endpoint %s)\n", config.Autolink.Endpoint())

	app := &mediagrabImpl{
		config:         config,
		resolveService: resolve.New(autolink.New(config.Autolink)),
	}

	gateway, err := api.NewRestGateway(&config.RestConfig, app.resolveService)
	if err != nil {
		return nil, fmt.Errorf("failed to construct REST gateway: %w", err)
	}
	app.restGateway = gateway

	return app, nil
}

// Run will start all services, and will not return until they have all
// stopped. To stop, the provided context must be cancelled. Errors from which
// a service cannot recover will also cause everything to stop, and the
// first such error is returned.
func (app *mediagrabImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var crashErr error
	var crashOnce sync.Once
	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		crashOnce.Do(func() { crashErr = fmt.Errorf("%s crashed: %w", label, err) })
		cancel()
	}

	wg := &sync.WaitGroup{}
	app.spawnAsyncService(ctx, wg, app.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Services spawned!\n")

	wg.Wait()
	return crashErr
}

// spawnAsyncService will run the provided function/service as it's own
// go-routine, ensuring that the service waitgroup is updated correctly
func (app *mediagrabImpl) spawnAsyncService(context context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		if err := service.Run(context); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
