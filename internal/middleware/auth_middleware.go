package middleware

import (
	"context"
	"strings"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "

	// Keys for fiber.Ctx locals
	UserIDKey = "userID"
	RoleKey   = "role"
	TokenKey  = "accessToken"
)

// IdentityResolver turns a bearer token into the caller's current identity.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, tokenString string) (*domain.Identity, error)
}

// Protected requires a valid access token and stores the caller's id and role in locals.
func Protected(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		identity, err := resolver.CurrentIdentity(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Rejected access token", zap.Error(err), zap.String("path", c.Path()))
			return err
		}

		c.Locals(UserIDKey, identity.UserID)
		c.Locals(RoleKey, identity.Role)
		c.Locals(TokenKey, tokenString)
		return c.Next()
	}
}

// IdentityFrom reads the identity stored by Protected.
func IdentityFrom(c *fiber.Ctx) (domain.Identity, bool) {
	userID, ok := c.Locals(UserIDKey).(string)
	if !ok || userID == "" {
		return domain.Identity{}, false
	}
	role, _ := c.Locals(RoleKey).(domain.Role)
	return domain.Identity{UserID: userID, Role: role}, true
}

// RequireRole lets the request through only when allowed(role) holds.
func RequireRole(allowed func(domain.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return domain.NewUnauthorizedError("authentication required")
		}
		if !allowed(identity.Role) {
			logger.Get().Info("Access denied",
				zap.String("userID", identity.UserID),
				zap.String("role", identity.Role.String()),
				zap.String("path", c.Path()))
			return domain.NewAccessDeniedError()
		}
		return c.Next()
	}
}

// RequireTeacher admits teachers and admins.
func RequireTeacher() fiber.Handler {
	return RequireRole(domain.CanCreateContent)
}

func RequireAdmin() fiber.Handler {
	return RequireRole(domain.CanAdminister)
}
