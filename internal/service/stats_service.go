package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-learn/internal/cache"
	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	AdminRecentUsersLimit     = 5
	TeacherRecentResultsLimit = 10
)

type AdminDashboard struct {
	Stats       *domain.Stats
	RecentUsers []*domain.User
}

type TeacherDashboard struct {
	Topics        []*domain.Topic
	RecentResults []*domain.TestResultSummary
}

// StatsService backs the admin and teacher dashboards.
type StatsService interface {
	GetStats(ctx context.Context, actor domain.Identity) (*domain.Stats, error)
	AdminDashboard(ctx context.Context, actor domain.Identity) (*AdminDashboard, error)
	TeacherDashboard(ctx context.Context, actor domain.Identity) (*TeacherDashboard, error)
}

type statsServiceImpl struct {
	statsRepo  domain.StatsRepository
	userRepo   domain.UserRepository
	topicRepo  domain.TopicRepository
	resultRepo domain.TestResultRepository
	cache      domain.Cache
	ttl        time.Duration
	group      singleflight.Group
}

// NewStatsService caches counts for ttl when c is not nil.
func NewStatsService(
	statsRepo domain.StatsRepository,
	userRepo domain.UserRepository,
	topicRepo domain.TopicRepository,
	resultRepo domain.TestResultRepository,
	c domain.Cache,
	ttl time.Duration,
) StatsService {
	return &statsServiceImpl{
		statsRepo:  statsRepo,
		userRepo:   userRepo,
		topicRepo:  topicRepo,
		resultRepo: resultRepo,
		cache:      c,
		ttl:        ttl,
	}
}

// StatsInvalidator drops the cached counts after a write that changes them.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type cacheStatsInvalidator struct {
	cache domain.Cache
}

// NewStatsInvalidator returns an invalidator over c. A nil cache yields a no-op.
func NewStatsInvalidator(c domain.Cache) StatsInvalidator {
	return &cacheStatsInvalidator{cache: c}
}

func (i *cacheStatsInvalidator) InvalidateStats(ctx context.Context) {
	if i == nil || i.cache == nil {
		return
	}
	if err := i.cache.Delete(ctx, cache.StatsKey()); err != nil {
		logger.Get().Warn("Failed to invalidate cached stats", zap.Error(err))
	}
}

func invalidateStats(ctx context.Context, inv StatsInvalidator) {
	if inv != nil {
		inv.InvalidateStats(ctx)
	}
}

func (s *statsServiceImpl) cachedStats(ctx context.Context) *domain.Stats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cache.StatsKey())
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read cached stats", zap.Error(err))
		}
		return nil
	}
	var stats domain.Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		logger.Get().Warn("Discarding malformed cached stats", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *statsServiceImpl) loadStats(ctx context.Context) (*domain.Stats, error) {
	if stats := s.cachedStats(ctx); stats != nil {
		return stats, nil
	}

	v, err, _ := s.group.Do(cache.StatsKey(), func() (interface{}, error) {
		// Shared by every waiting caller, so one cancelled request must not fail the rest.
		loadCtx := context.WithoutCancel(ctx)
		stats, err := s.statsRepo.GetStats(loadCtx)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to get stats", err)
		}
		if s.cache != nil {
			if data, err := json.Marshal(stats); err == nil {
				if err := s.cache.Set(loadCtx, cache.StatsKey(), string(data), s.ttl); err != nil {
					logger.Get().Warn("Failed to cache stats", zap.Error(err))
				}
			}
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Stats), nil
}

func (s *statsServiceImpl) GetStats(ctx context.Context, actor domain.Identity) (*domain.Stats, error) {
	if !domain.CanAdminister(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	return s.loadStats(ctx)
}

func (s *statsServiceImpl) AdminDashboard(ctx context.Context, actor domain.Identity) (*AdminDashboard, error) {
	if !domain.CanAdminister(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	stats, err := s.loadStats(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListRecentUsers(ctx, AdminRecentUsersLimit)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list recent users", err)
	}
	return &AdminDashboard{Stats: stats, RecentUsers: users}, nil
}

func (s *statsServiceImpl) TeacherDashboard(ctx context.Context, actor domain.Identity) (*TeacherDashboard, error) {
	if !domain.CanCreateContent(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	topics, err := s.topicRepo.ListTopics(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list topics", err)
	}
	results, err := s.resultRepo.ListRecent(ctx, TeacherRecentResultsLimit)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list recent results", err)
	}
	return &TeacherDashboard{Topics: topics, RecentResults: results}, nil
}
