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

const userColumns = `id, username, password_hash, role, created_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db DBTX) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

// CreateUser inserts a new user. A taken username yields ErrDuplicateKey.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = util.NowUTC()
	}

	query := `INSERT INTO users (id, username, password_hash, role, created_at)
	          VALUES (:id, :username, :password_hash, :role, :created_at)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user)); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)
	var user models.User
	if err := executor.GetContext(ctx, &user, executor.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

// GetUserByID retrieves a user by id, or (nil, nil) if there is none.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by exact username, or (nil, nil) if there is none.
func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *sqlxUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var rows []models.User
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return toDomainUsers(rows), nil
}

func (r *sqlxUserRepository) ListRecentUsers(ctx context.Context, limit int) ([]*domain.User, error) {
	executor := GetExecutor(ctx, r.db)
	query := executor.Rebind(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC LIMIT ?`)
	var rows []models.User
	if err := executor.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return toDomainUsers(rows), nil
}

// UpdateUser overwrites role and password hash. The username is immutable.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET role = :role, password_hash = :password_hash WHERE id = :id`

	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffected(result)
}

func toDomainUsers(rows []models.User) []*domain.User {
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, toDomainUser(&rows[i]))
	}
	return users
}
