package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/repository/models"
	"quiz-learn/internal/util"
)

const topicColumns = `id, title, content, order_num, created_by, created_at, updated_at`

type sqlxTopicRepository struct {
	db DBTX
}

func NewSQLXTopicRepository(db DBTX) domain.TopicRepository {
	return &sqlxTopicRepository{db: db}
}

func toDomainTopic(m *models.Topic) *domain.Topic {
	if m == nil {
		return nil
	}
	return &domain.Topic{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		OrderNum:  m.OrderNum,
		CreatedBy: m.CreatedBy.String,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainTopic(t *domain.Topic) *models.Topic {
	return &models.Topic{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		OrderNum:  t.OrderNum,
		CreatedBy: util.StringToNullString(t.CreatedBy),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (r *sqlxTopicRepository) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	if topic.ID == "" {
		topic.ID = util.NewULID()
	}
	now := util.NowUTC()
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	topic.UpdatedAt = now

	query := `INSERT INTO topics (id, title, content, order_num, created_by, created_at, updated_at)
	          VALUES (:id, :title, :content, :order_num, :created_by, :created_at, :updated_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainTopic(topic)); err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

func (r *sqlxTopicRepository) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	executor := GetExecutor(ctx, r.db)
	var topic models.Topic
	err := executor.GetContext(ctx, &topic, executor.Rebind(`SELECT `+topicColumns+` FROM topics WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by id: %w", err)
	}
	return toDomainTopic(&topic), nil
}

// ListTopics returns every topic ordered by order_num, ties broken by creation time.
func (r *sqlxTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	var rows []models.Topic
	query := `SELECT ` + topicColumns + ` FROM topics ORDER BY order_num, created_at, id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	topics := make([]*domain.Topic, 0, len(rows))
	for i := range rows {
		topics = append(topics, toDomainTopic(&rows[i]))
	}
	return topics, nil
}

// UpdateTopic replaces title, content and order_num. created_by is never changed.
func (r *sqlxTopicRepository) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	topic.UpdatedAt = util.NowUTC()
	query := `UPDATE topics SET title = :title, content = :content, order_num = :order_num, updated_at = :updated_at
	          WHERE id = :id`
	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainTopic(topic))
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return checkAffected(result)
}

// DeleteTopic removes the topic row only; callers delete its questions first in the same transaction.
func (r *sqlxTopicRepository) DeleteTopic(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, executor.Rebind(`DELETE FROM topics WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	return checkAffected(result)
}
