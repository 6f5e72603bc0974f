package handler

import (
	"quiz-learn/internal/dto"
	"quiz-learn/internal/middleware"
	"quiz-learn/internal/service"
	"quiz-learn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validator:   validation.NewValidator(),
	}
}

// Register godoc
// @Summary Register a student account
// @Description Creates a new account with the student role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUserResponse(user))
}

// Login godoc
// @Summary Log in
// @Description Exchanges username and password for a bearer access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateLoginRequest(req); len(errs) > 0 {
		return errs
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.authService.TokenTTL().Seconds()),
		User:        dto.ToUserResponse(user),
	})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current access token.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.TokenKey).(string)
	if err := h.authService.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserResponse(user))
}
