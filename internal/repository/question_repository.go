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

const questionColumns = `id, topic_id, text, option_1, option_2, option_3, option_4, correct, explanation, difficulty, created_by, created_at`

type sqlxQuestionRepository struct {
	db DBTX
}

func NewSQLXQuestionRepository(db DBTX) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:          m.ID,
		TopicID:     m.TopicID,
		Text:        m.Text,
		Options:     [domain.NumOptions]string{m.Option1, m.Option2, m.Option3, m.Option4},
		Correct:     m.Correct,
		Explanation: m.Explanation,
		Difficulty:  domain.Difficulty(m.Difficulty),
		CreatedBy:   m.CreatedBy.String,
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:          q.ID,
		TopicID:     q.TopicID,
		Text:        q.Text,
		Option1:     q.Options[0],
		Option2:     q.Options[1],
		Option3:     q.Options[2],
		Option4:     q.Options[3],
		Correct:     q.Correct,
		Explanation: q.Explanation,
		Difficulty:  string(q.Difficulty),
		CreatedBy:   util.StringToNullString(q.CreatedBy),
		CreatedAt:   q.CreatedAt,
	}
}

func (r *sqlxQuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = util.NowUTC()
	}

	query := `INSERT INTO questions (` + questionColumns + `)
	          VALUES (:id, :topic_id, :text, :option_1, :option_2, :option_3, :option_4, :correct, :explanation, :difficulty, :created_by, :created_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainQuestion(q)); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	executor := GetExecutor(ctx, r.db)
	var row models.Question
	err := executor.GetContext(ctx, &row, executor.Rebind(`SELECT `+questionColumns+` FROM questions WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return toDomainQuestion(&row), nil
}

func (r *sqlxQuestionRepository) selectQuestions(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	executor := GetExecutor(ctx, r.db)
	var rows []models.Question
	if err := executor.SelectContext(ctx, &rows, executor.Rebind(query), args...); err != nil {
		return nil, err
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

// ListByTopic returns the questions of a topic in creation order.
func (r *sqlxQuestionRepository) ListByTopic(ctx context.Context, topicID string) ([]*domain.Question, error) {
	questions, err := r.selectQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE topic_id = ? ORDER BY created_at, id`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions by topic: %w", err)
	}
	return questions, nil
}

func (r *sqlxQuestionRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Question, error) {
	questions, err := r.selectQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE created_by = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions by creator: %w", err)
	}
	return questions, nil
}

func (r *sqlxQuestionRepository) ListAll(ctx context.Context) ([]*domain.Question, error) {
	questions, err := r.selectQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion replaces every editable field. created_by and created_at are kept.
func (r *sqlxQuestionRepository) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	query := `UPDATE questions SET topic_id = :topic_id, text = :text, option_1 = :option_1, option_2 = :option_2,
	          option_3 = :option_3, option_4 = :option_4, correct = :correct, explanation = :explanation, difficulty = :difficulty
	          WHERE id = :id`
	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainQuestion(q))
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return checkAffected(result)
}

func (r *sqlxQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, executor.Rebind(`DELETE FROM questions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return checkAffected(result)
}

// DeleteByTopic removes every question of a topic and reports how many were removed.
func (r *sqlxQuestionRepository) DeleteByTopic(ctx context.Context, topicID string) (int64, error) {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, executor.Rebind(`DELETE FROM questions WHERE topic_id = ?`), topicID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete questions of topic: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
