package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"solpedcli/internal/config"
	apierrors "solpedcli/internal/errors"
	"solpedcli/internal/infrastructure"
	customMiddleware "solpedcli/internal/middleware"
	"solpedcli/internal/remote"
	"solpedcli/internal/services"
	handlers "solpedcli/internal/transport/http"
	"solpedcli/pkg/contracts"
)

var (
	// Version is reported by /version and the health endpoints
	Version = contracts.Version
	// BuildTime is set at compile time through contracts.BuildTime
	BuildTime = buildTime()
)

func buildTime() string {
	if contracts.BuildTime == "unknown" {
		return ""
	}
	return contracts.BuildTime
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	SystemMetrics *infrastructure.SystemMetrics
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Solped *services.SolpedService
	Health *services.HealthService
}

// NewApplication loads configuration, initializes the global logger and
// wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires an application from an explicit config and logger
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("source_mode", cfg.Source.Mode))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	fetcher, err := remote.NewFetcher(context.Background(), a.Config.Source, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create remote fetcher: %w", err)
	}

	solped := services.NewSolpedService(a.Config.Source, fetcher, a.Metrics, a.OTelProviders.Tracer, a.Logger)
	health := services.NewHealthService(Version, BuildTime, a.Config.Source, solped,
		infrastructure.WithComponent(a.Logger, "health_service"))

	a.Services = &ServiceContainer{
		Solped: solped,
		Health: health,
	}

	a.SystemMetrics, err = infrastructure.NewSystemMetrics(a.OTelProviders.Meter, func(ctx context.Context) int64 {
		info, err := solped.Current(ctx)
		if err != nil {
			return 0
		}
		return int64(info.Records)
	})
	if err != nil {
		return fmt.Errorf("failed to register system metrics: %w", err)
	}
	return nil
}

// setupRouter configures middleware and routes.
// Order: RequestID -> RealIP -> Logger -> Recoverer -> OTel -> security -> CORS -> rate limit
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(a.ErrorHandler.Middleware)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Scrapes stay outside tracing and rate limiting
	r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Mount(config.HealthEndpoint, healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler, 0)
		solpedHandler := handlers.NewSolpedHandler(a.Services.Solped, validation, a.ErrorHandler,
			a.Config.Server.MaxUploadBytes, a.Logger)
		r.Mount(config.APIBasePath, solpedHandler.Routes())
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully. It returns the first server error.
func (a *Application) Serve(ctx context.Context, l net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "HTTP server listening", slog.String("address", l.Addr().String()))
		if err := a.Server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.SystemMetrics.Unregister(); err != nil {
		a.Logger.WarnContext(ctx, "Failed to unregister system metrics", slog.String("error", err.Error()))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves on the configured port until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	if a.Config.Source.DocumentID != "" {
		a.Logger.InfoContext(ctx, "Default remote source configured",
			slog.String("document_id", a.Config.Source.DocumentID),
			slog.String("tab_id", a.Config.Source.TabID))
	}

	err = a.Serve(ctx, l)
	if closeErr := infrastructure.CloseLogFile(); closeErr != nil {
		a.Logger.Warn("Failed to close log file", slog.String("error", closeErr.Error()))
	}
	return err
}
