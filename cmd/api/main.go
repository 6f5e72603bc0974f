// @title Quiz Learn API
// @version 1.0
// @description Role-based e-learning quiz platform: topics, multiple-choice tests and content management.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-learn/internal/adapter"
	"quiz-learn/internal/cache"
	"quiz-learn/internal/config"
	"quiz-learn/internal/database"
	"quiz-learn/internal/domain"
	"quiz-learn/internal/handler"
	"quiz-learn/internal/logger"
	"quiz-learn/internal/middleware"
	"quiz-learn/internal/repository"
	"quiz-learn/internal/router"
	"quiz-learn/internal/seed"
	"quiz-learn/internal/service"

	_ "quiz-learn/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, cfg.DB.Driver, database.Up); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Repositories
	txManager := repository.NewTransactionManagerAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	topicRepository := repository.NewSQLXTopicRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	resultRepository := repository.NewSQLXTestResultRepository(db)
	statsRepository := repository.NewSQLXStatsRepository(db)
	hasher := adapter.NewBcryptHasher(cfg.BcryptCost)

	if cfg.Seed.Enabled {
		seeder := seed.NewSeeder(userRepository, topicRepository, questionRepository, hasher, txManager, cfg.Seed)
		if _, err := seeder.Run(ctx); err != nil {
			appLogger.Fatal("Failed to seed initial data", zap.Error(err))
		}
	}

	checks := map[string]router.HealthCheck{"database": db.PingContext}

	// The cache is optional. Without it tokens cannot be revoked and drafts are not kept.
	var cacheAdapter domain.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		checks["redis"] = cacheAdapter.Ping
		appLogger.Info("Redis cache enabled", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Warn("Redis is disabled. Running without cache.")
	}

	// Services
	authService, err := service.NewAuthService(userRepository, hasher, cacheAdapter, txManager, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository, hasher, txManager)
	statsInvalidator := service.NewStatsInvalidator(cacheAdapter)
	contentService := service.NewContentService(topicRepository, questionRepository, txManager, statsInvalidator)
	batchService := service.NewBatchService(topicRepository, questionRepository, txManager, statsInvalidator)
	drafts := service.NewDraftStore(cacheAdapter, cfg.CacheTTLs.Draft)
	testService := service.NewTestService(topicRepository, questionRepository, resultRepository, txManager, drafts, statsInvalidator)
	statsService := service.NewStatsService(statsRepository, userRepository, topicRepository, resultRepository, cacheAdapter, cfg.CacheTTLs.Stats)

	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService, userService),
		Topic:   handler.NewTopicHandler(contentService, testService),
		Content: handler.NewContentHandler(contentService, batchService, statsService),
		Admin:   handler.NewAdminHandler(userService, statsService),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	router.Setup(app, handlers, authService, checks)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("db_driver", cfg.DB.Driver))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
