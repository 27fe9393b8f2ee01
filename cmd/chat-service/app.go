package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"wahub/internal/config"
	"wahub/internal/constants"
	"wahub/internal/events"
	"wahub/internal/logger"
	"wahub/internal/messaging"
	"wahub/pkg/bootstrap"
	"wahub/pkg/health"
	"wahub/pkg/metrics"
	"wahub/pkg/middleware"
	"wahub/pkg/migrations"
	"wahub/pkg/ratelimit"
	"wahub/pkg/tracing"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type App struct {
	config         *config.Config
	logger         logger.Logger
	dbConnector    *bootstrap.DatabaseConnector
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	publisher      events.Publisher
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config:      cfg,
		logger:      log,
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.initPublisher(); err != nil {
		return fmt.Errorf("failed to initialize publisher: %w", err)
	}

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	tp, err := tracing.Init(a.config.Tracing, "chat-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mongoClient, err := a.dbConnector.InitMongoDB(initCtx)
	if err != nil {
		return err
	}
	a.mongoClient = mongoClient

	if err := migrations.EnsureMessageIndexes(initCtx, a.mongoDatabase()); err != nil {
		return err
	}

	redisClient, err := a.dbConnector.InitRedis(initCtx)
	if err != nil {
		a.logger.WarnwCtx(initCtx, "Redis connection failed, seen cache disabled", "error", err)
	} else {
		a.redisClient = redisClient
	}

	return nil
}

func (a *App) mongoDatabase() *mongo.Database {
	dbName := a.config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	return a.mongoClient.Database(dbName)
}

func (a *App) initPublisher() error {
	publisher, err := events.NewPublisher(a.config.Broker, a.logger)
	if err != nil {
		return err
	}
	a.publisher = publisher
	return nil
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("chat-service"))
	}

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(a.config.Chat.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = a.config.Chat.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	if a.config.Chat.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.config.Chat.RateLimit.RPS,
			Burst:           a.config.Chat.RateLimit.Burst,
			CleanupInterval: time.Duration(a.config.Chat.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.config.Chat.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
		a.logger.InfowCtx(context.Background(), "Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	repo := messaging.NewRepository(a.mongoDatabase())

	opts := []messaging.ServiceOption{}
	if a.config.Chat.BusinessNumber != "" {
		opts = append(opts, messaging.WithBusinessNumber(a.config.Chat.BusinessNumber))
	} else {
		opts = append(opts, messaging.WithBusinessNumber(constants.DefaultBusinessNumber))
	}
	if a.redisClient != nil && a.config.Chat.SeenCache.Enabled {
		cache := messaging.NewRedisSeenCache(a.redisClient, a.config.Chat.SeenCache.TTLSeconds)
		opts = append(opts, messaging.WithSeenCache(cache))
		a.logger.InfowCtx(context.Background(), "Seen cache enabled", "ttl_seconds", a.config.Chat.SeenCache.TTLSeconds)
	}

	svc := messaging.NewService(repo, a.publisher, a.logger, opts...)

	handler := messaging.NewHandler(svc, a.logger)
	handler.RegisterRoutes(router.Group("/api"))

	metrics.RegisterChatMetrics()
	metrics.RegisterBroadcastMetrics()
	metrics.RegisterCircuitBreakerMetrics()

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeoutSeconds) * time.Second,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.InfowCtx(ctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher close error: %w", err))
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	dbErrs := a.dbConnector.ShutdownDatabases(shutdownCtx, a.redisClient, a.mongoClient)
	errs = append(errs, dbErrs...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.InfowCtx(ctx, "Server exited successfully")
	return nil
}
