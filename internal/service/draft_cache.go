package service

import (
	"context"
	"errors"
	"time"

	"quiz-learn/internal/cache"
	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
)

// DraftStore keeps the answers of a submission that could not be persisted,
// so the learner can resubmit them.
type DraftStore interface {
	Save(ctx context.Context, userID, topicID string, answers map[string]string) error
	// Load returns (nil, nil) when there is no draft.
	Load(ctx context.Context, userID, topicID string) (map[string]string, error)
	Clear(ctx context.Context, userID, topicID string) error
}

type draftStoreImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewDraftStore falls back to a no-op store when cache is nil.
func NewDraftStore(c domain.Cache, ttl time.Duration) DraftStore {
	if c == nil {
		logger.Get().Warn("DraftStore initialized with nil cache. Drafts will not be kept.")
		return &noopDraftStore{}
	}
	return &draftStoreImpl{cache: c, ttl: ttl}
}

func (s *draftStoreImpl) Save(ctx context.Context, userID, topicID string, answers map[string]string) error {
	if len(answers) == 0 {
		return nil
	}
	key := cache.DraftKey(userID, topicID)
	if err := s.cache.HSet(ctx, key, answers); err != nil {
		logger.Get().Error("Failed to save test draft", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to save test draft", err)
	}
	if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
		logger.Get().Error("Failed to set test draft expiry", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to set test draft expiry", err)
	}
	logger.Get().Debug("Saved test draft", zap.String("key", key), zap.Int("answers", len(answers)), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *draftStoreImpl) Load(ctx context.Context, userID, topicID string) (map[string]string, error) {
	key := cache.DraftKey(userID, topicID)
	answers, err := s.cache.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		logger.Get().Error("Failed to load test draft", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError("failed to load test draft", err)
	}
	return answers, nil
}

func (s *draftStoreImpl) Clear(ctx context.Context, userID, topicID string) error {
	key := cache.DraftKey(userID, topicID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Error("Failed to clear test draft", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to clear test draft", err)
	}
	return nil
}

type noopDraftStore struct{}

func (s *noopDraftStore) Save(ctx context.Context, userID, topicID string, answers map[string]string) error {
	logger.Get().Debug("No-op DraftStore: Save called", zap.String("userID", userID), zap.String("topicID", topicID))
	return nil
}

func (s *noopDraftStore) Load(ctx context.Context, userID, topicID string) (map[string]string, error) {
	return nil, nil
}

func (s *noopDraftStore) Clear(ctx context.Context, userID, topicID string) error {
	return nil
}
