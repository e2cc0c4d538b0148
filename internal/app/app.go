package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/cache"
	"jobmarket_backend/internal/config"
	"jobmarket_backend/internal/database"
	"jobmarket_backend/internal/handlers"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/middleware"
	"jobmarket_backend/internal/routes"
	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/validator"
	"jobmarket_backend/internal/workers"
	"jobmarket_backend/pkg/apperrors"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	defer sqlDB.Close()
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Database connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobCache, closeCache := newCache(ctx, cfg.Redis)
	defer closeCache()

	serviceContainer, tokens, customValidator := newServices(cfg, jobCache)
	router := buildRouter(cfg, gormDB, serviceContainer, tokens, customValidator)
	cacheWorker := workers.NewJobCacheWorker(gormDB, serviceContainer.JobService, cfg.JobsWarmInterval())

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cacheWorker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return
	}
	logger.Info("Server stopped")
}

// SetupRouter builds the gin engine with every service and route wired.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, jobCache cache.Cache) *gin.Engine {
	serviceContainer, tokens, customValidator := newServices(cfg, jobCache)
	return buildRouter(cfg, gormDB, serviceContainer, tokens, customValidator)
}

func newServices(cfg *config.Config, jobCache cache.Cache) (*services.ServiceContainer, *auth.TokenManager, *validator.Validator) {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL())
	customValidator := validator.New()
	return services.NewServiceContainer(tokens, jobCache, cfg.JobsCacheTTL(), customValidator), tokens, customValidator
}

func buildRouter(
	cfg *config.Config,
	gormDB *gorm.DB,
	serviceContainer *services.ServiceContainer,
	tokens *auth.TokenManager,
	customValidator *validator.Validator,
) *gin.Engine {
	apperrors.SetDebug(cfg.IsDevelopment())

	appHandlers := handlers.NewHandlers(serviceContainer, customValidator)
	loginLimiter := middleware.NewClientLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, tokens, loginLimiter)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// newCache connects to Redis when an address is configured and falls back
// to an in-process cache otherwise or when Redis is unreachable.
func newCache(ctx context.Context, cfg config.RedisConfig) (cache.Cache, func()) {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, using in-memory job cache")
		return cache.NewMemoryCache(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, using in-memory job cache", "addr", cfg.Addr, "error", err)
		_ = rdb.Close()
		return cache.NewMemoryCache(), func() {}
	}

	logger.Info("Redis connected", "addr", cfg.Addr)
	return cache.NewRedisCache(rdb), func() { _ = rdb.Close() }
}
