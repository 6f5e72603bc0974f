package handler

import (
	"quiz-learn/internal/domain"
	"quiz-learn/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// currentIdentity returns the caller stored by middleware.Protected.
func currentIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.NewUnauthorizedError("authentication required")
	}
	return identity, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewError(domain.CodeInvalidFormat, "invalid request body", err)
	}
	return nil
}
