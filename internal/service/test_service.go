package service

import (
	"context"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
)

// DefaultResultsLimit caps a learner's result history.
const DefaultResultsLimit = 50

// TestSession is everything needed to render a test.
type TestSession struct {
	Topic        *domain.Topic
	Questions    []*domain.Question
	SavedAnswers map[string]string
}

// TestSubmission is a scored and recorded attempt.
type TestSubmission struct {
	Topic     *domain.Topic
	Questions []*domain.Question
	Result    *domain.TestResult
	Outcome   domain.TestOutcome
}

type TestService interface {
	StartTest(ctx context.Context, actor domain.Identity, topicID string) (*TestSession, error)
	SubmitTest(ctx context.Context, actor domain.Identity, topicID string, answers map[string]string) (*TestSubmission, error)
	MyResults(ctx context.Context, actor domain.Identity, limit int) ([]*domain.TestResultSummary, error)
}

type testServiceImpl struct {
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	resultRepo   domain.TestResultRepository
	txManager    domain.TransactionManager
	drafts       DraftStore
	stats        StatsInvalidator
}

func NewTestService(
	topicRepo domain.TopicRepository,
	questionRepo domain.QuestionRepository,
	resultRepo domain.TestResultRepository,
	txManager domain.TransactionManager,
	drafts DraftStore,
	stats StatsInvalidator,
) TestService {
	if drafts == nil {
		drafts = &noopDraftStore{}
	}
	return &testServiceImpl{
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		txManager:    txManager,
		drafts:       drafts,
		stats:        stats,
	}
}

func (s *testServiceImpl) loadTest(ctx context.Context, topicID string) (*domain.Topic, []*domain.Question, error) {
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
	if len(questions) == 0 {
		return nil, nil, domain.NewTopicHasNoQuestionsError(topicID)
	}
	return topic, questions, nil
}

func (s *testServiceImpl) StartTest(ctx context.Context, actor domain.Identity, topicID string) (*TestSession, error) {
	if !domain.CanViewContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	topic, questions, err := s.loadTest(ctx, topicID)
	if err != nil {
		return nil, err
	}

	saved, err := s.drafts.Load(ctx, actor.UserID, topicID)
	if err != nil {
		logger.Get().Warn("Ignoring unreadable test draft", zap.String("userID", actor.UserID), zap.String("topicID", topicID), zap.Error(err))
		saved = nil
	}
	return &TestSession{Topic: topic, Questions: questions, SavedAnswers: saved}, nil
}

// SubmitTest scores against the question set read in the same transaction as the insert.
func (s *testServiceImpl) SubmitTest(ctx context.Context, actor domain.Identity, topicID string, answers map[string]string) (*TestSubmission, error) {
	if !domain.CanViewContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}

	var submission *TestSubmission
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		topic, questions, err := s.loadTest(txCtx, topicID)
		if err != nil {
			return err
		}
		outcome := domain.ScoreTest(questions, answers)
		result := &domain.TestResult{
			UserID:     actor.UserID,
			TopicID:    topic.ID,
			Score:      outcome.Score,
			Total:      outcome.Total,
			Percentage: outcome.Percentage,
		}
		if err := s.resultRepo.CreateResult(txCtx, result); err != nil {
			return domain.NewPersistenceError("failed to save test result", err)
		}
		submission = &TestSubmission{Topic: topic, Questions: questions, Result: result, Outcome: outcome}
		return nil
	})
	if err != nil {
		err = persistenceError("failed to save test result", err)
		if domain.IsErrorCode(err, domain.CodePersistence) {
			if draftErr := s.drafts.Save(ctx, actor.UserID, topicID, answers); draftErr != nil {
				logger.Get().Warn("Failed to keep answers of failed submission", zap.Error(draftErr))
			}
		}
		return nil, err
	}

	if err := s.drafts.Clear(ctx, actor.UserID, topicID); err != nil {
		logger.Get().Warn("Failed to clear test draft", zap.Error(err))
	}
	invalidateStats(ctx, s.stats)
	logger.Get().Info("Test submitted",
		zap.String("userID", actor.UserID),
		zap.String("topicID", topicID),
		zap.Int("score", submission.Outcome.Score),
		zap.Int("total", submission.Outcome.Total))
	return submission, nil
}

func (s *testServiceImpl) MyResults(ctx context.Context, actor domain.Identity, limit int) ([]*domain.TestResultSummary, error) {
	if !domain.CanViewContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	if limit <= 0 || limit > DefaultResultsLimit {
		limit = DefaultResultsLimit
	}
	results, err := s.resultRepo.ListByUser(ctx, actor.UserID, limit)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list results", err)
	}
	return results, nil
}
