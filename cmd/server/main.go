package main

import (
	"context"
	"database/sql"
	"fmt"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"vibecart/internal"
	"vibecart/internal/catalog"
	"vibecart/internal/events"
	"vibecart/internal/handler/api"
	"vibecart/internal/middleware"
	"vibecart/internal/postgres"
	"vibecart/internal/router"
	"vibecart/internal/routes"
	"vibecart/internal/service"
	"vibecart/internal/telemetry"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	productStore := postgres.NewProductStore(pool)
	cartStore := postgres.NewCartStore(pool)
	orderStore := postgres.NewOrderStore(pool)

	// Catalog lookup, optionally fronted by a Redis cache
	var lookup catalog.Lookup = productStore
	if cfg.Redis.Addr != "" {
		logger.Info("Enabling product cache", "addr", cfg.Redis.Addr)
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		lookup = catalog.NewCachedLookup(productStore, redisClient, logger)
	}

	// Event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		logger.Info("Enabling Kafka event publishing", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Initialize services
	cartService := service.NewCartService(cartStore, lookup)
	checkoutService := service.NewCheckoutService(cartStore, orderStore, lookup, publisher, logger)
	orderService := service.NewOrderService(orderStore, publisher, logger)
	statsService := service.NewStatsService(orderStore)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("vibecart")
	businessMetrics := telemetry.NewBusinessMetrics("vibecart")

	// Build route dependencies
	apiDeps := routes.APIDeps{
		ProductHandler:  api.NewProductHandler(productStore),
		CartHandler:     api.NewCartHandler(cartService, businessMetrics, cfg.DefaultCustomerID),
		CheckoutHandler: api.NewCheckoutHandler(checkoutService, businessMetrics, cfg.DefaultCustomerID),
		OrderHandler:    api.NewOrderHandler(orderService, statsService, businessMetrics),
		HealthHandler:   api.NewHealthHandler(pool),
	}

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	routes.RegisterAPIRoutes(r, apiDeps)

	// Start server. CORS wraps the whole router so preflight requests are
	// answered before route dispatch.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router.CORS(cfg.CORSOrigins)(r)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for a shutdown signal, then drain in-flight requests
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case s := <-sig:
		logger.Info("Shutting down", "signal", s.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
