package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"secondhand/docs" // swagger docs
	"secondhand/internal/auth"
	"secondhand/internal/cache"
	"secondhand/internal/config"
	"secondhand/internal/db"
	"secondhand/internal/handler"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
	"secondhand/internal/repository"
	"secondhand/internal/router"
	"secondhand/internal/service"
)

// @title Second-hand Marketplace API
// @version 1.0
// @description Users, listings, carts, orders and reviews for a second-hand marketplace.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log, err := logger.Init(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "secondhand-api",
		Filename:    cfg.LogFile,
	})
	if err != nil {
		panic("logger init: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogLevel:        cfg.DBLogLevel,
	}, log)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, caching and token revocation degraded", zap.Error(err))
	}
	cancelPing()

	m := metrics.New(cfg.MetricsPrefix)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	addressRepo := repository.NewAddressRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	uploadService := service.NewUploadService(cfg.UploadDir, cfg.UploadMaxBytes, m)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, uploadService)
	addressService := service.NewAddressService(addressRepo, userRepo)
	productService := service.NewProductService(productRepo, userRepo, cacheClient, cfg.ProductCacheTTL, m)
	cartService := service.NewCartService(cartRepo, productRepo, m)
	orderService := service.NewOrderService(orderRepo, productService, m)
	reviewService := service.NewReviewService(reviewRepo, productRepo, userRepo, m)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Register routes
	router.Register(e, cfg, m,
		router.Security{JWT: jwtService, Tokens: tokenStore},
		router.Handlers{
			Auth:    handler.NewAuthHandler(authService),
			User:    handler.NewUserHandler(userService),
			Address: handler.NewAddressHandler(addressService),
			Cart:    handler.NewCartHandler(cartService),
			Order:   handler.NewOrderHandler(orderService),
			Product: handler.NewProductHandler(productService),
			Review:  handler.NewReviewHandler(reviewService),
			Upload:  handler.NewUploadHandler(uploadService),
		},
	)

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info("server listening",
			zap.String("addr", addr),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
