package service

import (
	"context"
	"database/sql"
	"errors"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
)

// UserService is the admin view of accounts.
type UserService interface {
	ListUsers(ctx context.Context, actor domain.Identity) ([]*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	// UpdateUser sets the role and, when newPassword is not empty, resets the password.
	UpdateUser(ctx context.Context, actor domain.Identity, userID, role, newPassword string) (*domain.User, error)
	RecentUsers(ctx context.Context, actor domain.Identity, limit int) ([]*domain.User, error)
}

type userServiceImpl struct {
	userRepo  domain.UserRepository
	hasher    domain.PasswordHasher
	txManager domain.TransactionManager
}

func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, txManager domain.TransactionManager) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		hasher:    hasher,
		txManager: txManager,
	}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, actor domain.Identity) ([]*domain.User, error) {
	if !domain.CanAdminister(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, actor domain.Identity, userID, role, newPassword string) (*domain.User, error) {
	if !domain.CanAdminister(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	newRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	if newPassword != "" {
		if errs := domain.ValidatePassword("password", newPassword); len(errs) > 0 {
			return nil, errs
		}
	}

	var updated *domain.User
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetUserByID(txCtx, userID)
		if err != nil {
			return domain.NewPersistenceError("failed to get user", err)
		}
		if user == nil {
			return domain.NewNotFoundError("user not found")
		}

		user.Role = newRole
		if newPassword != "" {
			hash, err := s.hasher.Hash(newPassword)
			if err != nil {
				return domain.NewInternalError("failed to hash password", err)
			}
			user.PasswordHash = hash
		}
		if err := s.userRepo.UpdateUser(txCtx, user); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewNotFoundError("user not found")
			}
			return domain.NewPersistenceError("failed to update user", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, persistenceError("failed to update user", err)
	}

	logger.Get().Info("User updated by admin",
		zap.String("adminID", actor.UserID),
		zap.String("userID", updated.ID),
		zap.String("role", updated.Role.String()),
		zap.Bool("passwordReset", newPassword != ""))
	return updated, nil
}

func (s *userServiceImpl) RecentUsers(ctx context.Context, actor domain.Identity, limit int) ([]*domain.User, error) {
	if !domain.CanAdminister(actor.Role) {
		return nil, domain.NewAccessDeniedError()
	}
	users, err := s.userRepo.ListRecentUsers(ctx, limit)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list recent users", err)
	}
	return users, nil
}
