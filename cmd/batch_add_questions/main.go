package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quiz-learn/internal/adapter"
	"quiz-learn/internal/cache"
	"quiz-learn/internal/config"
	"quiz-learn/internal/database"
	"quiz-learn/internal/domain"
	"quiz-learn/internal/dto"
	"quiz-learn/internal/logger"
	"quiz-learn/internal/repository"
	"quiz-learn/internal/seed"
	"quiz-learn/internal/service"
	"quiz-learn/internal/validation"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// loadImportFile accepts either a bare JSON array of questions or {"questions": [...]}.
func loadImportFile(path string) ([]domain.QuestionImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var items []domain.QuestionImport
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var wrapped dto.ImportQuestionsRequest
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return wrapped.Questions, nil
}

func main() {
	file := flag.StringP("file", "f", "questions.json", "JSON file with the questions to import")
	topicID := flag.StringP("topic", "t", "", "id of the topic receiving the questions")
	flag.Parse()

	if *topicID == "" {
		fmt.Fprintln(os.Stderr, "-topic is required")
		flag.Usage()
		os.Exit(2)
	}

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

	items, err := loadImportFile(*file)
	if err != nil {
		log.Fatal("Failed to load questions", zap.Error(err))
	}
	if errs := validation.NewValidator().ValidateImportRequest(dto.ImportQuestionsRequest{Questions: items}); len(errs) > 0 {
		log.Fatal("Invalid import file", zap.Error(errs))
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewSQLXUserRepository(db)
	admin, err := userRepo.GetUserByUsername(ctx, seed.AdminUsername)
	if err != nil {
		log.Fatal("Failed to look up admin account", zap.Error(err))
	}
	if admin == nil {
		log.Fatal("Admin account not found. Run seed_initial_data first.")
	}

	// A running API reads cached counts; drop them when the cache is reachable.
	var statsCache domain.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, cached stats expire on their own", zap.Error(err))
		} else {
			defer redisClient.Close()
			statsCache = adapter.NewRedisCacheAdapter(redisClient)
		}
	}

	batchSvc := service.NewBatchService(
		repository.NewSQLXTopicRepository(db),
		repository.NewSQLXQuestionRepository(db),
		repository.NewTransactionManagerAdapter(db),
		service.NewStatsInvalidator(statsCache),
	)
	report, err := batchSvc.ImportQuestions(ctx, admin.Identity(), *topicID, items)
	if err != nil {
		log.Fatal("Batch import failed", zap.Error(err))
	}
	log.Info("Batch import completed", zap.String("topic_id", report.TopicID), zap.Int("imported", report.Imported))
}
