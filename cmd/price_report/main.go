package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/adapters/csvfile"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/adapters/database/pgsql"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/adapters/database/sqldb"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/adapters/ptax"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/handlers"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/middleware"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/platform/config"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/platform/observability"
	"github.com/Rodrigohgt/teste-tecnico-butantan/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, command, cfg, logger); err != nil {
		logger.Error("Pipeline failed", slog.String("command", command), slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func execute(ctx context.Context, command string, cfg *config.Config, logger *slog.Logger) error {
	if cfg.HomeCurrency != ptax.QuoteCurrency {
		return fmt.Errorf("%w: HOME_CURRENCY %s is not supported, PTAX quotes rates in %s",
			apperrors.ErrValidation, cfg.HomeCurrency, ptax.QuoteCurrency)
	}

	switch command {
	case "run":
		return runReport(ctx, cfg, logger)
	case "serve":
		return serve(ctx, cfg, logger)
	default:
		return fmt.Errorf("unknown command: %s (expected run or serve)", command)
	}
}

// runReport executes one pipeline run and writes the output file.
func runReport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	orders, cleanup, err := openOrderSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	container := newServiceContainer(cfg, orders, observability.SlogObserver{})
	report, err := container.PriceReport.Generate(middleware.WithLogger(ctx, logger), portssvc.ReportOptions{WriteOutput: true})
	if err != nil {
		return err
	}

	logger.Info("Report generated",
		slog.String("output", cfg.OutputPath),
		slog.String("run_id", report.RunID),
		slog.Int("materials", report.Summary.Materials))
	return nil
}

// serve exposes the pipeline over HTTP until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	orders, cleanup, err := openOrderSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	observer := observability.Multi{
		observability.SlogObserver{},
		observability.NewMetricsObserver(prometheus.DefaultRegisterer),
	}
	container := newServiceContainer(cfg, orders, observer)

	rateLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		middleware.PrometheusMiddleware(middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)),
		gin.Recovery(),
		cors.Default(),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, container, promhttp.Handler(), rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to run: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newServiceContainer(cfg *config.Config, orders portsrepo.OrderReader, observer portssvc.RunObserver) *portssvc.ServiceContainer {
	repos := portsrepo.RepositoryProvider{
		Orders:     orders,
		Quotations: ptax.NewClient(cfg.PTAXBaseURL, cfg.PTAXTimeout),
		Reports:    csvfile.NewReportWriter(cfg.OutputPath),
	}
	return services.NewServiceContainer(cfg, repos, observer)
}

// openOrderSource builds the configured OrderReader and a cleanup func releasing it.
func openOrderSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.OrderReader, func(), error) {
	switch cfg.OrderSource {
	case config.SourcePgSQL:
		if cfg.RunMigrations {
			logger.Info("Running database migrations...")
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return nil, nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewOrderRepository(pool), func() { database.ClosePgxPool(pool) }, nil

	case config.SourceMySQL, config.SourceSQLite:
		driver := sqldb.DriverMySQL
		if cfg.OrderSource == config.SourceSQLite {
			driver = sqldb.DriverSQLite
		}
		db, err := sqldb.Open(ctx, driver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return sqldb.NewOrderRepository(db), func() {
			if cerr := db.Close(); cerr != nil {
				logger.Error("Error closing order database", slog.String("error", cerr.Error()))
			}
		}, nil

	default:
		logger.Info("Reading orders from CSV",
			slog.String("headers", cfg.InputHeadersPath),
			slog.String("items", cfg.InputItemsPath))
		return csvfile.NewOrderSource(cfg.InputHeadersPath, cfg.InputItemsPath), func() {}, nil
	}
}
