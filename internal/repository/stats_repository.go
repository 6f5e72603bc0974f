package repository

import (
	"context"
	"fmt"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/repository/models"
)

type sqlxStatsRepository struct {
	db DBTX
}

func NewSQLXStatsRepository(db DBTX) domain.StatsRepository {
	return &sqlxStatsRepository{db: db}
}

// GetStats counts all four tables in one round trip.
func (r *sqlxStatsRepository) GetStats(ctx context.Context) (*domain.Stats, error) {
	query := `SELECT
	  (SELECT COUNT(*) FROM users) AS users,
	  (SELECT COUNT(*) FROM topics) AS topics,
	  (SELECT COUNT(*) FROM questions) AS questions,
	  (SELECT COUNT(*) FROM test_results) AS results`

	var row models.Stats
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &domain.Stats{
		Users:     row.Users,
		Topics:    row.Topics,
		Questions: row.Questions,
		Results:   row.Results,
	}, nil
}
