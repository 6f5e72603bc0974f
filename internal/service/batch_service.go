package service

import (
	"context"
	"fmt"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
)

// BatchService adds many questions to a topic at once.
type BatchService interface {
	// ImportQuestions is all or nothing: one invalid row rejects the whole batch.
	ImportQuestions(ctx context.Context, actor domain.Identity, topicID string, items []domain.QuestionImport) (*domain.ImportReport, error)
}

type batchService struct {
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	txManager    domain.TransactionManager
	stats        StatsInvalidator
}

func NewBatchService(topicRepo domain.TopicRepository, questionRepo domain.QuestionRepository, txManager domain.TransactionManager, stats StatsInvalidator) BatchService {
	return &batchService{
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		txManager:    txManager,
		stats:        stats,
	}
}

func (s *batchService) ImportQuestions(ctx context.Context, actor domain.Identity, topicID string, items []domain.QuestionImport) (*domain.ImportReport, error) {
	if !domain.CanCreateContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	if len(items) == 0 {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("questions")}
	}

	questions := make([]*domain.Question, 0, len(items))
	var errs domain.ValidationErrors
	for i, item := range items {
		q := item.ToQuestion(topicID, actor.UserID)
		if err := prepareQuestion(q); err != nil {
			if verrs, ok := err.(domain.ValidationErrors); ok {
				for _, ve := range verrs {
					ve.Field = fmt.Sprintf("questions[%d].%s", i, ve.Field)
					errs = append(errs, ve)
				}
				continue
			}
			return nil, err
		}
		questions = append(questions, q)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		topic, err := s.topicRepo.GetTopicByID(txCtx, topicID)
		if err != nil {
			return domain.NewPersistenceError("failed to get topic", err)
		}
		if topic == nil {
			return domain.NewNotFoundError("topic not found")
		}
		for _, q := range questions {
			if err := s.questionRepo.CreateQuestion(txCtx, q); err != nil {
				return domain.NewPersistenceError("failed to import question", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Get().Error("Question import failed", zap.String("topicID", topicID), zap.Error(err))
		return nil, persistenceError("failed to import questions", err)
	}
	invalidateStats(ctx, s.stats)

	logger.Get().Info("Questions imported", zap.String("topicID", topicID), zap.Int("count", len(questions)), zap.String("userID", actor.UserID))
	return &domain.ImportReport{TopicID: topicID, Imported: len(questions)}, nil
}
