// Package main is the entry point for the Krishna Lighting API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/cart"
	catalogapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/catalog"
	identityapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/identity"
	notificationapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/notification"
	orderapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/order"
	reportapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/report"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/auth"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/cache"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/config"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/event"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/logger"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/notification"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/persistence"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/storage"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/telemetry"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/interfaces/http/handler"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/interfaces/http/middleware"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Krishna Lighting API
// @version         1.0
// @description     Storefront backend for the Krishna Lighting product catalog, carts and orders.

// @contact.name   Krishna Lighting
// @contact.email  support@krishnalighting.in

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	viewRepo := persistence.NewGormViewRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	productService := catalogapp.NewProductService(productRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, cartRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	reportService := reportapp.NewReportService(reportRepo, productRepo)
	reportService.SetViewCounters(viewRepo)

	productService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	authService.SetEventPublisher(eventBus)

	if cfg.Cache.Enabled {
		productCache, err := cache.NewRedisProductCache(cfg.Redis, cfg.Cache.TTL, log)
		if err != nil {
			log.Warn("Product cache disabled, Redis unavailable", zap.Error(err))
		} else {
			productService.SetCache(productCache)
			orderService.SetCache(productCache)
			log.Info("Product cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
		}
	}

	var imageStore catalog.ImageStore
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ImageStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		imageStore = s3Store
		log.Info("Image storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		imageStore = storage.NewNoopImageStore(log)
	}
	productService.SetImageStore(imageStore)

	var mailer notificationapp.Mailer
	if cfg.Email.Enabled {
		sendGridMailer, err := notification.NewSendGridMailer(cfg.Email, log)
		if err != nil {
			log.Fatal("Failed to initialize mailer", zap.Error(err))
		}
		mailer = sendGridMailer
		log.Info("Order confirmation emails enabled", zap.String("from", cfg.Email.FromEmail))
	} else {
		mailer = notification.NewNoopMailer(log)
	}
	authService.SetPasswordReset(jwtService, mailer, cfg.App.FrontendURL)
	eventBus.Subscribe(notificationapp.NewOrderConfirmationHandler(mailer, orderRepo, userRepo, log))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Warn("Event bus shutdown failed", zap.Error(err))
		}
	}()

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
	}
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TrackViews(viewRepo, log))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
	}

	engine.GET("/health", healthHandler(db))

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/forgot-password",
			"/api/v1/auth/reset-password",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{"/swagger"},
		Logger:           log,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Catalog reads are public; everything behind the router requires a token
	public := engine.Group("/api/v1")
	public.GET("/products", productHandler.List)
	public.GET("/products/:id", productHandler.GetByID)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware)

	catalogGroup := router.NewDomainGroup("catalog", "/products")
	catalogGroup.POST("", middleware.RequireAdmin(), productHandler.Create)
	catalogGroup.PUT("/:id", middleware.RequireAdmin(), productHandler.Update)
	catalogGroup.DELETE("/:id", middleware.RequireAdmin(), productHandler.Delete)
	catalogGroup.PATCH("/:id/variants/:variantIndex/stock", middleware.RequireAdmin(), productHandler.UpdateVariantStock)

	cartGroup := router.NewDomainGroup("cart", "/cart")
	cartGroup.GET("", cartHandler.Get)
	cartGroup.POST("/items", cartHandler.AddItem)
	cartGroup.PUT("/items", cartHandler.UpdateItem)
	cartGroup.DELETE("/items", cartHandler.RemoveItem)
	cartGroup.DELETE("", cartHandler.Clear)

	orderGroup := router.NewDomainGroup("orders", "/orders")
	orderGroup.POST("", orderHandler.Place)
	orderGroup.GET("", orderHandler.ListMine)
	orderGroup.GET("/:id", orderHandler.Get)

	authGroup := router.NewDomainGroup("auth", "/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.GET("/me", authHandler.Profile)
	authGroup.PUT("/me", authHandler.UpdateProfile)

	adminGroup := router.NewDomainGroup("admin", "/admin")
	adminGroup.Use(middleware.RequireAdmin())
	adminGroup.GET("/orders", orderHandler.ListAll)
	adminGroup.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	adminGroup.GET("/users", authHandler.ListUsers)
	adminGroup.GET("/reports/dashboard", reportHandler.Dashboard)
	adminGroup.GET("/reports/recent-orders", reportHandler.RecentOrders)
	adminGroup.GET("/reports/top-products", reportHandler.TopProducts)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/ping", systemHandler.Ping)
	systemGroup.GET("/info", systemHandler.GetSystemInfo)

	r.Register(catalogGroup).
		Register(cartGroup).
		Register(orderGroup).
		Register(authGroup).
		Register(adminGroup).
		Register(systemGroup).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
