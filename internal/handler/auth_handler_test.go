package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/dto"
	"quiz-learn/internal/handler"
	"quiz-learn/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		auth := &MockAuthService{
			RegisterFunc: func(ctx context.Context, username, password, confirm string) (*domain.User, error) {
				assert.Equal(t, "newbie", username)
				assert.Equal(t, "secret1", password)
				assert.Equal(t, "secret1", confirm)
				return &domain.User{ID: "u1", Username: username, Role: domain.RoleStudent, CreatedAt: time.Now()}, nil
			},
		}
		app := newTestApp()
		app.Post("/register", handler.NewAuthHandler(auth, &MockUserService{}).Register)

		resp := doRequest(t, app, http.MethodPost, "/register", dto.RegisterRequest{Username: "newbie", Password: "secret1", ConfirmPassword: "secret1"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body dto.UserResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "u1", body.ID)
		assert.Equal(t, "student", body.Role)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		auth := &MockAuthService{
			RegisterFunc: func(ctx context.Context, username, password, confirm string) (*domain.User, error) {
				return nil, domain.NewUsernameExistsError()
			},
		}
		app := newTestApp()
		app.Post("/register", handler.NewAuthHandler(auth, &MockUserService{}).Register)

		resp := doRequest(t, app, http.MethodPost, "/register", dto.RegisterRequest{Username: "admin", Password: "secret1", ConfirmPassword: "secret1"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, domain.CodeUsernameExists, body.Errors[0].Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("MissingFields", func(t *testing.T) {
		app := newTestApp()
		app.Post("/login", handler.NewAuthHandler(&MockAuthService{}, &MockUserService{}).Login)

		resp := doRequest(t, app, http.MethodPost, "/login", dto.LoginRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decodeBody(t, resp, &body)
		assert.Len(t, body.Errors, 2)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		auth := &MockAuthService{
			LoginFunc: func(ctx context.Context, username, password string) (string, *domain.User, error) {
				return "", nil, domain.NewInvalidCredentialsError()
			},
		}
		app := newTestApp()
		app.Post("/login", handler.NewAuthHandler(auth, &MockUserService{}).Login)

		resp := doRequest(t, app, http.MethodPost, "/login", dto.LoginRequest{Username: "admin", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body middleware.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, string(domain.CodeInvalidCredentials), body.Code)
	})

	t.Run("Success", func(t *testing.T) {
		auth := &MockAuthService{
			TTL: 24 * time.Hour,
			LoginFunc: func(ctx context.Context, username, password string) (string, *domain.User, error) {
				return "jwt-token", &domain.User{ID: "a1", Username: username, Role: domain.RoleAdmin}, nil
			},
		}
		app := newTestApp()
		app.Post("/login", handler.NewAuthHandler(auth, &MockUserService{}).Login)

		resp := doRequest(t, app, http.MethodPost, "/login", dto.LoginRequest{Username: "admin", Password: "admin123"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.TokenResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "jwt-token", body.AccessToken)
		assert.Equal(t, "Bearer", body.TokenType)
		assert.Equal(t, int64(86400), body.ExpiresIn)
		assert.Equal(t, "admin", body.User.Role)
	})
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	var revoked string
	auth := &MockAuthService{
		LogoutFunc: func(ctx context.Context, tokenString string) error {
			revoked = tokenString
			return nil
		},
	}
	users := &MockUserService{
		GetUserFunc: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Username: "stud", Role: domain.RoleStudent}, nil
		},
	}
	h := handler.NewAuthHandler(auth, users)
	app := newTestApp()
	app.Post("/logout", asUser("s1", domain.RoleStudent), h.Logout)
	app.Get("/me", asUser("s1", domain.RoleStudent), h.Me)

	resp := doRequest(t, app, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "token-s1", revoked)

	resp = doRequest(t, app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decodeBody(t, resp, &me)
	assert.Equal(t, "s1", me.ID)
	assert.Equal(t, "stud", me.Username)
}

func TestAuthHandler_MeRequiresIdentity(t *testing.T) {
	app := newTestApp()
	app.Get("/me", handler.NewAuthHandler(&MockAuthService{}, &MockUserService{}).Me)

	resp := doRequest(t, app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
