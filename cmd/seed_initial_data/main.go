package main

import (
	"context"
	"fmt"
	"os"

	"quiz-learn/internal/adapter"
	"quiz-learn/internal/config"
	"quiz-learn/internal/database"
	"quiz-learn/internal/logger"
	"quiz-learn/internal/repository"
	"quiz-learn/internal/seed"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB.Driver, database.Up); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	seeder := seed.NewSeeder(
		repository.NewSQLXUserRepository(db),
		repository.NewSQLXTopicRepository(db),
		repository.NewSQLXQuestionRepository(db),
		adapter.NewBcryptHasher(cfg.BcryptCost),
		repository.NewTransactionManagerAdapter(db),
		cfg.Seed,
	)
	seeded, err := seeder.Run(ctx)
	if err != nil {
		log.Fatal("Seeding failed, transaction rolled back", zap.Error(err))
	}
	if !seeded {
		log.Info("Database already seeded, nothing to do")
		return
	}
	log.Info("Initial data seeding completed")
}
