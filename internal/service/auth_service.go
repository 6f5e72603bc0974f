package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"quiz-learn/internal/cache"
	"quiz-learn/internal/config"
	"quiz-learn/internal/domain"
	"quiz-learn/internal/dto"
	"quiz-learn/internal/logger"
	"quiz-learn/internal/repository"
	"quiz-learn/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenTypeAccess = "access"

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService registers accounts and issues and checks access tokens.
type AuthService interface {
	Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	CreateJWT(ctx context.Context, user *domain.User) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	// CurrentIdentity re-reads the user so role changes apply to live tokens.
	CurrentIdentity(ctx context.Context, tokenString string) (*domain.Identity, error)
	Logout(ctx context.Context, tokenString string) error
	TokenTTL() time.Duration
}

type authServiceImpl struct {
	userRepo    domain.UserRepository
	hasher      domain.PasswordHasher
	revocations domain.Cache
	txManager   domain.TransactionManager
	jwtConfig   config.JWTConfig
	stats       StatsInvalidator
	// dummyHash is compared against when the username is unknown.
	dummyHash string
}

// NewAuthService creates a new instance of AuthService. revocations may be nil,
// in which case logout is client-side only.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	revocations domain.Cache,
	txManager domain.TransactionManager,
	jwtConfig config.JWTConfig,
) (AuthService, error) {
	if jwtConfig.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	if jwtConfig.AccessTokenTTL <= 0 {
		return nil, errors.New("jwt access token ttl must be positive")
	}
	dummyHash, err := hasher.Hash(util.NewULID())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare login hash: %w", err)
	}
	return &authServiceImpl{
		userRepo:    userRepo,
		hasher:      hasher,
		revocations: revocations,
		txManager:   txManager,
		jwtConfig:   jwtConfig,
		stats:       NewStatsInvalidator(revocations),
		dummyHash:   dummyHash,
	}, nil
}

func validateRegistration(username, password, confirmPassword string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(username) == "" {
		errs = append(errs, domain.NewMissingFieldError("username"))
	} else if n := utf8.RuneCountInString(username); n > domain.MaxUsernameLength {
		errs = append(errs, domain.NewOutOfRangeError("username", n, 1, domain.MaxUsernameLength))
	}
	if pwErrs := domain.ValidatePassword("password", password); len(pwErrs) > 0 {
		errs = append(errs, pwErrs...)
	} else if password != confirmPassword {
		errs = append(errs, domain.NewFieldError("confirm_password", "passwords do not match"))
	}
	return errs
}

func (s *authServiceImpl) Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error) {
	if errs := validateRegistration(username, password, confirmPassword); len(errs) > 0 {
		return nil, errs
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}
	user := &domain.User{Username: username, PasswordHash: hash, Role: domain.RoleStudent}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.userRepo.GetUserByUsername(txCtx, username)
		if err != nil {
			return domain.NewPersistenceError("failed to look up username", err)
		}
		if existing != nil {
			return domain.NewUsernameExistsError()
		}
		if err := s.userRepo.CreateUser(txCtx, user); err != nil {
			// A concurrent registration can still win the race to the unique index.
			if errors.Is(err, repository.ErrDuplicateKey) {
				return domain.NewUsernameExistsError()
			}
			return domain.NewPersistenceError("failed to create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, persistenceError("failed to register user", err)
	}

	invalidateStats(ctx, s.stats)
	logger.Get().Info("User registered", zap.String("userID", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.NewInvalidCredentialsError()
	}
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, domain.NewPersistenceError("failed to look up user", err)
	}
	if user == nil {
		// Same hash work as a wrong password, so timing does not reveal the username.
		s.hasher.Compare(s.dummyHash, password)
		logger.Get().Info("Failed login attempt", zap.String("username", username))
		return "", nil, domain.NewInvalidCredentialsError()
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		logger.Get().Info("Failed login attempt", zap.String("username", username))
		return "", nil, domain.NewInvalidCredentialsError()
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return "", nil, domain.NewInternalError("failed to create access token", err)
	}
	logger.Get().Info("User logged in", zap.String("userID", user.ID), zap.String("role", user.Role.String()))
	return token, user, nil
}

func (s *authServiceImpl) TokenTTL() time.Duration {
	return s.jwtConfig.AccessTokenTTL
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		Role:      user.Role.String(),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func snippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.String("token_snippet", snippet(tokenString)))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

func (s *authServiceImpl) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.revocations == nil || tokenID == "" {
		return false, nil
	}
	_, err := s.revocations.Get(ctx, cache.RevokedTokenKey(tokenID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrCacheMiss) {
		return false, nil
	}
	return false, err
}

func (s *authServiceImpl) CurrentIdentity(ctx context.Context, tokenString string) (*domain.Identity, error) {
	claims, err := s.ValidateJWT(ctx, tokenString)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid or expired token")
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		// Fail open on cache outages; the token signature is still verified.
		logger.Get().Warn("Failed to check token revocation", zap.Error(err), zap.String("jti", claims.ID))
	}
	if revoked {
		return nil, domain.NewUnauthorizedError("token has been revoked")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("user no longer exists")
	}
	identity := user.Identity()
	return &identity, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateJWT(ctx, tokenString)
	if err != nil {
		return domain.NewUnauthorizedError("invalid or expired token")
	}
	if s.revocations == nil || claims.ID == "" {
		return nil
	}

	remaining := s.jwtConfig.AccessTokenTTL
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}
	if remaining <= 0 {
		return nil
	}
	if err := s.revocations.Set(ctx, cache.RevokedTokenKey(claims.ID), claims.UserID, remaining); err != nil {
		return domain.NewInternalError("failed to revoke token", err)
	}
	logger.Get().Info("User logged out", zap.String("userID", claims.UserID))
	return nil
}
