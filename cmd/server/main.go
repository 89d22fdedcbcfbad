package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	sectionmodule "github.com/iota-uz/section-editor/modules/section"
	"github.com/iota-uz/section-editor/modules/section/infrastructure/graphql"
	"github.com/iota-uz/section-editor/modules/section/services"
	"github.com/iota-uz/section-editor/pkg/application"
	"github.com/iota-uz/section-editor/pkg/configuration"
	"github.com/iota-uz/section-editor/pkg/eventbus"
	"github.com/iota-uz/section-editor/pkg/httpapi"
	"github.com/iota-uz/section-editor/pkg/logging"
	"github.com/iota-uz/section-editor/pkg/metrics"
	"github.com/iota-uz/section-editor/pkg/middleware"
	"github.com/iota-uz/section-editor/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	// Set up OpenTelemetry if enabled
	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	client, err := graphql.NewClient(graphql.Options{
		Endpoint:        conf.SectionsAPI.URL,
		Token:           conf.SectionsAPI.Token,
		Timeout:         conf.SectionsAPI.Timeout,
		RequestIDHeader: conf.RequestIDHeader,
	})
	if err != nil {
		log.Fatalf("failed to create sections API client: %v", err)
	}

	app := application.New(&application.ApplicationOptions{
		EventBus:           eventbus.NewEventPublisher(logger),
		Logger:             logger,
		SupportedLanguages: conf.Languages(),
	})
	app.RegisterMiddleware(middleware.WithLogger(logger, middleware.LoggerOptions{
		RequestIDHeader: conf.RequestIDHeader,
		Repanic:         false,
	}))
	if conf.RateLimit.Enabled {
		store := middleware.NewMemoryStore()
		if conf.RateLimit.Storage == "redis" {
			redisStore, err := middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
			} else {
				store = redisStore
			}
		}
		app.RegisterMiddleware(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: conf.RateLimit.GlobalRPS,
			Store:             store,
		}))
	}
	if err := application.LoadModules(app, sectionmodule.NewModule(&sectionmodule.ModuleOptions{
		Repository: graphql.NewSectionRepository(client),
		IdleTTL:    conf.Session.IdleTTL,
	})); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionService := app.Service(services.SessionService{}).(*services.SessionService)
	go sessionService.Run(ctx, conf.Session.SweepInterval)

	srv := server.NewHTTPServer(
		app,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteStatusError(w, http.StatusNotFound, errors.New("route not found"))
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteStatusError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		}),
		conf.AllowedOrigins(),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := srv.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	conf.Unload()
}
