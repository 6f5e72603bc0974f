package handler

import (
	"quiz-learn/internal/dto"
	"quiz-learn/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userService  service.UserService
	statsService service.StatsService
}

func NewAdminHandler(userService service.UserService, statsService service.StatsService) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		statsService: statsService,
	}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Global counts and the five newest users.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.AdminDashboardResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	dash, err := h.statsService.AdminDashboard(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminDashboardResponse{
		Stats:       *dash.Stats,
		RecentUsers: dto.ToUserResponses(dash.RecentUsers),
	})
}

// Stats godoc
// @Summary Global statistics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.Stats
// @Failure 403 {object} middleware.ErrorResponse
// @Router /stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.statsService.GetStats(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	users, err := h.userService.ListUsers(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserResponses(users))
}

// UpdateUser godoc
// @Summary Change a user's role or reset the password
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Changes"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateUser(c.UserContext(), identity, c.Params("id"), req.Role, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserResponse(user))
}
