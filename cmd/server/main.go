package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/trading-system/backend/docs"
	apppricing "github.com/trading-system/backend/internal/application/pricing"
	tradeapp "github.com/trading-system/backend/internal/application/trade"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/infrastructure/cache"
	"github.com/trading-system/backend/internal/infrastructure/config"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"github.com/trading-system/backend/internal/infrastructure/persistence"
	"github.com/trading-system/backend/internal/infrastructure/telemetry"
	"github.com/trading-system/backend/internal/interfaces/http/handler"
	"github.com/trading-system/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Trading Pricing API
//	@version		1.0
//	@description	Price lists, pricing rules and priced sales orders

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		ProfilingEnabled:  cfg.Telemetry.ProfilingEnabled,
		ProfilerAddress:   cfg.Telemetry.ProfilerAddress,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = providers.BridgeLogger(log)

	log.Info("Starting trading backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			DBName:          cfg.Database.DBName,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := telemetry.RegisterPoolMetrics(providers.Meter("trading-backend/db"), sqlDB); err != nil {
			log.Warn("Pool metrics unavailable", zap.Error(err))
		}
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	// Repositories
	txm := persistence.NewTxManager(db.DB)
	var articleRepo catalog.ArticleRepository = persistence.NewGormArticleRepository(db.DB)
	var priceListRepo pricing.PriceListRepository = persistence.NewGormPriceListRepository(db.DB)
	articlePriceRepo := persistence.NewGormArticlePriceRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	authorizationRepo := persistence.NewGormAuthorizationRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)

	if cfg.Pricing.CacheEnabled {
		store, err := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
		if err != nil {
			log.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer func() {
			_ = store.Close()
		}()
		articleRepo = cache.NewCachedArticleRepository(articleRepo, store, cfg.Pricing.CacheTTL)
		priceListRepo = cache.NewCachedPriceListRepository(priceListRepo, store, cfg.Pricing.CacheTTL)
	}

	// Services
	engine := pricing.NewEngine(articlePriceRepo, ruleRepo, pricing.WithLocation(cfg.Pricing.Location()))
	pricingService := apppricing.NewPricingService(articleRepo, priceListRepo, engine)
	metrics, err := telemetry.NewPricingMetrics(providers.Meter("trading-backend/pricing"))
	if err != nil {
		log.Warn("Pricing metrics unavailable", zap.Error(err))
	} else {
		pricingService.SetMetrics(metrics)
	}
	adminService := apppricing.NewAdminService(apppricing.AdminServiceDeps{
		TxManager:      txm,
		Articles:       articleRepo,
		PriceLists:     priceListRepo,
		Prices:         articlePriceRepo,
		Rules:          ruleRepo,
		Audit:          auditRepo,
		Authorizations: authorizationRepo,
		Today:          engine.Today,
	})
	salesOrderService := tradeapp.NewSalesOrderService(txm, salesOrderRepo, priceListRepo, pricingService)
	salesOrderService.SetToday(engine.Today)

	// HTTP
	httpEngine := router.NewEngine(router.EngineConfig{
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     cfg.Telemetry.Enabled,
		Release:     cfg.App.Env == "production",
	}, log)

	handler.NewSystemHandler(version, db).RegisterRoutes(httpEngine)
	if cfg.HTTP.SwaggerEnabled {
		httpEngine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.NewRouter(httpEngine).
		Register(handler.NewPricingHandler(pricingService, adminService)).
		Register(handler.NewPricingRuleHandler(adminService)).
		Register(handler.NewSalesOrderHandler(salesOrderService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        httpEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
