package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	supplyapp "github.com/shopcore/backend/internal/application/supply"
	"github.com/shopcore/backend/internal/bootstrap"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopcore/backend/internal/infrastructure/cache"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/event"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"github.com/shopcore/backend/internal/interfaces/http/handler"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
	"github.com/shopcore/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

//	@title			Shopcore Service API
//	@version		1.0
//	@description	Shipping and payment method pricing, availability and supplier stock
//	@BasePath		/api/v1

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// Providers stay no-ops unless telemetry is enabled
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		Traces:            cfg.Telemetry.Enabled,
		Metrics:           cfg.Telemetry.Enabled,
		Logs:              cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = providers.Shutdown(context.Background())
	}()
	log = providers.BridgeLogger(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting shopcore",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to sync schema", zap.Error(err))
		}
		log.Info("Schema synced")
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	var dbMeter metric.Meter
	if providers.MetricsEnabled() {
		dbMeter = providers.Meter("shopcore.db")
	}
	dbInstrumentation, err := telemetry.InstrumentDB(db.DB, dbMeter, telemetry.DBConfig{
		System:             dbSystem,
		Tracing:            providers.TracingEnabled() && cfg.Telemetry.DBTraceEnabled,
		IncludeQueryVars:   cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Failed to instrument database", zap.Error(err))
	}
	defer dbInstrumentation.Stop()

	checkoutMetrics, err := telemetry.NewCheckoutMetrics(telemetry.CheckoutMetricsConfig{
		Meter:         providers.Meter("shopcore.checkout"),
		Logger:        log,
		StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize checkout metrics", zap.Error(err))
	}
	if providers.MetricsEnabled() {
		checkoutMetrics.StartPeriodicCollection(ctx, time.Minute)
		defer checkoutMetrics.Stop()
	}

	// Alert throttle survives restarts and is shared across instances with Redis
	throttle, err := cache.OpenThrottleStore(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to open alert throttle store", zap.Error(err))
	}
	defer func() {
		_ = throttle.Close()
	}()

	eventBus := event.NewInMemoryEventBus(log)

	stockAlertHandler := supplyapp.NewStockAlertHandler(log).
		WithNotifier(supplyapp.NewLoggingStockAlertNotifier(log))
	eventBus.Subscribe(stockAlertHandler)
	eventBus.Subscribe(event.NewLogHandler(event.NewDomainCodec(), log), supply.EventTypeStockAdjusted)
	log.Info("Event handlers registered",
		zap.Strings("stock_alert_events", stockAlertHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	services, err := bootstrap.NewServices(db.DB, cfg.Checkout, bootstrap.Options{
		Events:   eventBus,
		Throttle: throttle,
		Metrics:  checkoutMetrics,
	})
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server spans with request attributes
	// 5. Security and CORS headers
	// 6. BodyLimit - Limit request body size
	// 7. Metrics - Request counters and latency
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.TracingEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if providers.MetricsEnabled() {
		engine.Use(middleware.HTTPMetrics(providers.Meter("http.server"), log))
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)

	// Health check stays outside the shop scope
	engine.GET("/health", systemHandler.Health)

	defaultShop := uuid.Nil
	if cfg.App.DefaultShopID != "" {
		defaultShop = uuid.MustParse(cfg.App.DefaultShopID)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.ShopContext(middleware.ShopConfig{
			DefaultShopID: defaultShop,
			SkipPaths:     []string{"/api/v1/system"},
			Logger:        log,
		}),
		middleware.TracingAttributeInjector(),
	)
	router.RegisterAPI(r, router.Handlers{
		Method:   handler.NewMethodHandler(services.Method, services.Registry),
		Provider: handler.NewProviderHandler(services.Provider),
		Checkout: handler.NewCheckoutHandler(services.Checkout),
		Payment:  handler.NewPaymentHandler(services.Payment),
		Supplier: handler.NewSupplierHandler(services.Supplier, services.Stock),
		System:   systemHandler,
	})
	routes := r.Setup()
	log.Info("Routes registered", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Route", zap.String("group", route.Group), zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
