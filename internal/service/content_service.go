package service

import (
	"context"
	"database/sql"
	"errors"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
)

// ContentService manages topics and their questions.
type ContentService interface {
	ListTopics(ctx context.Context) ([]*domain.Topic, error)
	GetTopic(ctx context.Context, actor domain.Identity, topicID string) (*domain.Topic, []*domain.Question, error)
	CreateTopic(ctx context.Context, actor domain.Identity, topic *domain.Topic) (*domain.Topic, error)
	UpdateTopic(ctx context.Context, actor domain.Identity, topicID string, topic *domain.Topic) (*domain.Topic, error)
	// DeleteTopic removes the topic and all of its questions and reports how many questions went with it.
	DeleteTopic(ctx context.Context, actor domain.Identity, topicID string) (int64, error)

	ListQuestions(ctx context.Context, actor domain.Identity) ([]*domain.Question, error)
	GetQuestion(ctx context.Context, actor domain.Identity, questionID string) (*domain.Question, error)
	CreateQuestion(ctx context.Context, actor domain.Identity, q *domain.Question) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, actor domain.Identity, questionID string, q *domain.Question) (*domain.Question, error)
	DeleteQuestion(ctx context.Context, actor domain.Identity, questionID string) error
}

type contentServiceImpl struct {
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	txManager    domain.TransactionManager
	stats        StatsInvalidator
}

// NewContentService creates a content service. stats may be nil.
func NewContentService(topicRepo domain.TopicRepository, questionRepo domain.QuestionRepository, txManager domain.TransactionManager, stats StatsInvalidator) ContentService {
	return &contentServiceImpl{
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		txManager:    txManager,
		stats:        stats,
	}
}

func (s *contentServiceImpl) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	topics, err := s.topicRepo.ListTopics(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list topics", err)
	}
	return topics, nil
}

func (s *contentServiceImpl) GetTopic(ctx context.Context, actor domain.Identity, topicID string) (*domain.Topic, []*domain.Question, error) {
	if !domain.CanViewContent(actor.Role) {
		return nil, nil, domain.NewAccessDeniedError()
	}
	topic, err := s.topicRepo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, nil, domain.NewPersistenceError("failed to get topic", err)
	}
	if topic == nil {
		return nil, nil, domain.NewNotFoundError("topic not found")
	}
	questions, err := s.questionRepo.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, nil, domain.NewPersistenceError("failed to list questions", err)
	}
	return topic, questions, nil
}

func (s *contentServiceImpl) CreateTopic(ctx context.Context, actor domain.Identity, topic *domain.Topic) (*domain.Topic, error) {
	if !domain.CanCreateContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	if errs := topic.Validate(); len(errs) > 0 {
		return nil, errs
	}

	topic.ID = ""
	topic.CreatedBy = actor.UserID
	if err := s.topicRepo.CreateTopic(ctx, topic); err != nil {
		return nil, domain.NewPersistenceError("failed to create topic", err)
	}
	invalidateStats(ctx, s.stats)
	logger.Get().Info("Topic created", zap.String("topicID", topic.ID), zap.String("userID", actor.UserID))
	return topic, nil
}

func (s *contentServiceImpl) UpdateTopic(ctx context.Context, actor domain.Identity, topicID string, topic *domain.Topic) (*domain.Topic, error) {
	if !domain.CanCreateContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	if errs := topic.Validate(); len(errs) > 0 {
		return nil, errs
	}

	var updated *domain.Topic
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.topicRepo.GetTopicByID(txCtx, topicID)
		if err != nil {
			return domain.NewPersistenceError("failed to get topic", err)
		}
		if existing == nil {
			return domain.NewNotFoundError("topic not found")
		}
		if !domain.CanAuthor(actor.Role, existing.CreatedBy, actor.UserID) {
			return domain.NewAccessDeniedError()
		}

		existing.Title = topic.Title
		existing.Content = topic.Content
		existing.OrderNum = topic.OrderNum
		if err := s.topicRepo.UpdateTopic(txCtx, existing); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewNotFoundError("topic not found")
			}
			return domain.NewPersistenceError("failed to update topic", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, persistenceError("failed to update topic", err)
	}
	return updated, nil
}

func (s *contentServiceImpl) DeleteTopic(ctx context.Context, actor domain.Identity, topicID string) (int64, error) {
	if !domain.CanAdminister(actor.Role) {
		return 0, domain.NewAccessDeniedError()
	}

	var removed int64
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.topicRepo.GetTopicByID(txCtx, topicID)
		if err != nil {
			return domain.NewPersistenceError("failed to get topic", err)
		}
		if existing == nil {
			return domain.NewNotFoundError("topic not found")
		}
		n, err := s.questionRepo.DeleteByTopic(txCtx, topicID)
		if err != nil {
			return domain.NewPersistenceError("failed to delete questions of topic", err)
		}
		if err := s.topicRepo.DeleteTopic(txCtx, topicID); err != nil {
			return domain.NewPersistenceError("failed to delete topic", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, persistenceError("failed to delete topic", err)
	}
	invalidateStats(ctx, s.stats)

	logger.Get().Info("Topic deleted",
		zap.String("topicID", topicID),
		zap.Int64("questionsRemoved", removed),
		zap.String("adminID", actor.UserID))
	return removed, nil
}

func (s *contentServiceImpl) ListQuestions(ctx context.Context, actor domain.Identity) ([]*domain.Question, error) {
	var (
		questions []*domain.Question
		err       error
	)
	switch {
	case domain.CanAdminister(actor.Role):
		questions, err = s.questionRepo.ListAll(ctx)
	case domain.CanCreateContent(actor.Role):
		questions, err = s.questionRepo.ListByCreator(ctx, actor.UserID)
	default:
		return nil, domain.NewAccessDeniedError()
	}
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list questions", err)
	}
	return questions, nil
}

func (s *contentServiceImpl) GetQuestion(ctx context.Context, actor domain.Identity, questionID string) (*domain.Question, error) {
	q, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewNotFoundError("question not found")
	}
	if !domain.CanAuthor(actor.Role, q.CreatedBy, actor.UserID) {
		return nil, domain.NewAccessDeniedError()
	}
	return q, nil
}

// prepareQuestion normalizes the difficulty label and runs the field checks.
func prepareQuestion(q *domain.Question) error {
	if d, err := domain.ParseDifficulty(string(q.Difficulty)); err == nil {
		q.Difficulty = d
	}
	if errs := q.Validate(); len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *contentServiceImpl) requireTopic(ctx context.Context, topicID string) error {
	topic, err := s.topicRepo.GetTopicByID(ctx, topicID)
	if err != nil {
		return domain.NewPersistenceError("failed to get topic", err)
	}
	if topic == nil {
		return domain.ValidationErrors{domain.NewFieldError("topic_id", "topic does not exist")}
	}
	return nil
}

func (s *contentServiceImpl) CreateQuestion(ctx context.Context, actor domain.Identity, q *domain.Question) (*domain.Question, error) {
	if !domain.CanCreateContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	if err := prepareQuestion(q); err != nil {
		return nil, err
	}

	q.ID = ""
	q.CreatedBy = actor.UserID
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requireTopic(txCtx, q.TopicID); err != nil {
			return err
		}
		if err := s.questionRepo.CreateQuestion(txCtx, q); err != nil {
			return domain.NewPersistenceError("failed to create question", err)
		}
		return nil
	})
	if err != nil {
		return nil, persistenceError("failed to create question", err)
	}
	invalidateStats(ctx, s.stats)
	logger.Get().Info("Question created", zap.String("questionID", q.ID), zap.String("topicID", q.TopicID), zap.String("userID", actor.UserID))
	return q, nil
}

func (s *contentServiceImpl) UpdateQuestion(ctx context.Context, actor domain.Identity, questionID string, q *domain.Question) (*domain.Question, error) {
	if !domain.CanCreateContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}

	var updated *domain.Question
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.questionRepo.GetQuestionByID(txCtx, questionID)
		if err != nil {
			return domain.NewPersistenceError("failed to get question", err)
		}
		if existing == nil {
			return domain.NewNotFoundError("question not found")
		}
		if !domain.CanAuthor(actor.Role, existing.CreatedBy, actor.UserID) {
			return domain.NewAccessDeniedError()
		}

		q.ID = existing.ID
		q.CreatedBy = existing.CreatedBy
		q.CreatedAt = existing.CreatedAt
		if err := prepareQuestion(q); err != nil {
			return err
		}
		if err := s.requireTopic(txCtx, q.TopicID); err != nil {
			return err
		}
		if err := s.questionRepo.UpdateQuestion(txCtx, q); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewNotFoundError("question not found")
			}
			return domain.NewPersistenceError("failed to update question", err)
		}
		updated = q
		return nil
	})
	if err != nil {
		return nil, persistenceError("failed to update question", err)
	}
	return updated, nil
}

func (s *contentServiceImpl) DeleteQuestion(ctx context.Context, actor domain.Identity, questionID string) error {
	if !domain.CanCreateContent(actor.Role) {
		return domain.NewAccessDeniedError()
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.questionRepo.GetQuestionByID(txCtx, questionID)
		if err != nil {
			return domain.NewPersistenceError("failed to get question", err)
		}
		if existing == nil {
			return domain.NewNotFoundError("question not found")
		}
		if !domain.CanAuthor(actor.Role, existing.CreatedBy, actor.UserID) {
			return domain.NewAccessDeniedError()
		}
		if err := s.questionRepo.DeleteQuestion(txCtx, questionID); err != nil {
			return domain.NewPersistenceError("failed to delete question", err)
		}
		return nil
	})
	if err != nil {
		return persistenceError("failed to delete question", err)
	}
	invalidateStats(ctx, s.stats)
	logger.Get().Info("Question deleted", zap.String("questionID", questionID), zap.String("userID", actor.UserID))
	return nil
}
