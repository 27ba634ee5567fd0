package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/ports/events"
	"github.com/SscSPs/customer_ledger/internal/core/services"
	"github.com/SscSPs/customer_ledger/internal/handlers"
	"github.com/SscSPs/customer_ledger/internal/messaging/amqp"
	"github.com/SscSPs/customer_ledger/internal/messaging/inproc"
	"github.com/SscSPs/customer_ledger/internal/middleware"
	"github.com/SscSPs/customer_ledger/internal/platform/config"
	"github.com/SscSPs/customer_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/customer_ledger/internal/utils"
	"github.com/SscSPs/customer_ledger/internal/worker"
	"github.com/SscSPs/customer_ledger/migrations"
	"github.com/SscSPs/customer_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const amqpDialAttempts = 5

// @title Customer Ledger API
// @version 1.0
// @description Stock deliveries, payments and reconciled balances per customer.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger); err != nil {
		return err
	}

	bus, err := newLedgerEventBus(ctx, cfg, logger)
	if err != nil {
		return err
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	rateLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), bus)
	recomputeWorker := worker.NewRecomputeWorker(serviceContainer.Ledger, bus)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		DB:            dbPool,
		Limiter:       rateLimiter,
		PosthogClient: posthogClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return recomputeWorker.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := bus.Close(); cerr != nil {
			logger.Error("Failed to close ledger event bus", slog.String("error", cerr.Error()))
		}
		return err
	})

	return g.Wait()
}

// newLedgerEventBus uses RabbitMQ when AMQP_URL is set and the in-process bus otherwise.
func newLedgerEventBus(ctx context.Context, cfg *config.Config, logger *slog.Logger) (events.LedgerEventBus, error) {
	if cfg.AMQPURL == "" {
		logger.Info("Using in-process ledger event bus", slog.Int("buffer", cfg.RecomputeQueueSize))
		return inproc.NewBus(cfg.RecomputeQueueSize), nil
	}
	client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpDialAttempts)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to AMQP broker", slog.String("exchange", cfg.AMQPExchange), slog.String("queue", cfg.AMQPQueue))
	return client, nil
}
