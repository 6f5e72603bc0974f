package repository

import (
	"context"
	"fmt"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/repository/models"
	"quiz-learn/internal/util"
)

// Missing users and topics come back as empty strings; the domain applies the fallback labels.
const resultSummarySelect = `SELECT r.id, r.user_id, r.topic_id, r.score, r.total, r.percentage, r.completed_at,
       COALESCE(u.username, '') AS username, COALESCE(t.title, '') AS topic_title
  FROM test_results r
  LEFT JOIN users u ON u.id = r.user_id
  LEFT JOIN topics t ON t.id = r.topic_id`

// sqlxTestResultRepository is the append-only result log.
type sqlxTestResultRepository struct {
	db DBTX
}

func NewSQLXTestResultRepository(db DBTX) domain.TestResultRepository {
	return &sqlxTestResultRepository{db: db}
}

func toDomainResultSummary(m *models.TestResultSummary) *domain.TestResultSummary {
	return &domain.TestResultSummary{
		TestResult: domain.TestResult{
			ID:          m.ID,
			UserID:      m.UserID,
			TopicID:     m.TopicID,
			Score:       m.Score,
			Total:       m.Total,
			Percentage:  m.Percentage,
			CompletedAt: m.CompletedAt,
		},
		Username:   m.Username,
		TopicTitle: m.TopicTitle,
	}
}

func (r *sqlxTestResultRepository) CreateResult(ctx context.Context, result *domain.TestResult) error {
	if result.ID == "" {
		result.ID = util.NewULID()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = util.NowUTC()
	}

	row := &models.TestResult{
		ID:          result.ID,
		UserID:      result.UserID,
		TopicID:     result.TopicID,
		Score:       result.Score,
		Total:       result.Total,
		Percentage:  result.Percentage,
		CompletedAt: result.CompletedAt,
	}
	query := `INSERT INTO test_results (id, user_id, topic_id, score, total, percentage, completed_at)
	          VALUES (:id, :user_id, :topic_id, :score, :total, :percentage, :completed_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	return nil
}

func (r *sqlxTestResultRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.TestResultSummary, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.TestResultSummary
	if err := executor.SelectContext(ctx, &rows, executor.Rebind(query), args...); err != nil {
		return nil, err
	}
	summaries := make([]*domain.TestResultSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toDomainResultSummary(&rows[i]))
	}
	return summaries, nil
}

// ListRecent returns the newest results across all users.
func (r *sqlxTestResultRepository) ListRecent(ctx context.Context, limit int) ([]*domain.TestResultSummary, error) {
	summaries, err := r.list(ctx, resultSummarySelect+` ORDER BY r.completed_at DESC, r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}
	return summaries, nil
}

func (r *sqlxTestResultRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TestResultSummary, error) {
	summaries, err := r.list(ctx, resultSummarySelect+` WHERE r.user_id = ? ORDER BY r.completed_at DESC, r.id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results by user: %w", err)
	}
	return summaries, nil
}
