package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/handler"
	"quiz-learn/internal/middleware"
	"quiz-learn/internal/router"
	"quiz-learn/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenResolver maps fixed tokens to identities.
type tokenResolver map[string]domain.Identity

func (r tokenResolver) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	identity, ok := r[token]
	if !ok {
		return nil, domain.NewUnauthorizedError("invalid token")
	}
	return &identity, nil
}

// stubContent answers ListTopics; any other call panics through the nil embedded interface.
type stubContent struct {
	service.ContentService
}

func (stubContent) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	return []*domain.Topic{{ID: "01HZX3J6W1Q2A8M5K7N9P0R4ST", Title: "Logic", Content: "<p>x</p>", OrderNum: 1}}, nil
}

func newApp(t *testing.T, checks map[string]router.HealthCheck) *fiber.App {
	t.Helper()
	content := stubContent{}
	h := router.Handlers{
		Auth:    handler.NewAuthHandler(nil, nil),
		Topic:   handler.NewTopicHandler(content, nil),
		Content: handler.NewContentHandler(content, nil, nil),
		Admin:   handler.NewAdminHandler(nil, nil),
	}
	resolver := tokenResolver{
		"student": {UserID: "s1", Role: domain.RoleStudent},
		"teacher": {UserID: "t1", Role: domain.RoleTeacher},
		"admin":   {UserID: "a1", Role: domain.RoleAdmin},
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	router.Setup(app, h, resolver, checks)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSetup_AccessRules(t *testing.T) {
	app := newApp(t, nil)
	validID := "01HZX3J6W1Q2A8M5K7N9P0R4ST"

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"PublicTopics", http.MethodGet, "/api/topics", "", http.StatusOK},
		{"TopicNeedsLogin", http.MethodGet, "/api/topics/" + validID, "", http.StatusUnauthorized},
		{"UnknownToken", http.MethodGet, "/api/auth/me", "forged", http.StatusUnauthorized},
		{"StudentBlockedFromTeacher", http.MethodGet, "/api/teacher/dashboard", "student", http.StatusForbidden},
		{"StudentBlockedFromAdmin", http.MethodGet, "/api/admin/users", "student", http.StatusForbidden},
		{"TeacherBlockedFromAdmin", http.MethodDelete, "/api/admin/topics/" + validID, "teacher", http.StatusForbidden},
		{"TeacherBlockedFromStats", http.MethodGet, "/api/stats", "teacher", http.StatusForbidden},
		{"AdminListsTopics", http.MethodGet, "/api/admin/topics", "admin", http.StatusOK},
		{"MalformedID", http.MethodPut, "/api/teacher/questions/not-an-id", "teacher", http.StatusBadRequest},
		{"MalformedTopicID", http.MethodGet, "/api/topics/bad/test", "student", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, call(t, app, tc.method, tc.path, tc.token))
		})
	}
}

func TestSetup_Healthz(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		app := newApp(t, map[string]router.HealthCheck{
			"database": func(ctx context.Context) error { return nil },
		})
		assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/healthz", ""))
	})

	t.Run("Degraded", func(t *testing.T) {
		app := newApp(t, map[string]router.HealthCheck{
			"database": func(ctx context.Context) error { return nil },
			"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
		})
		assert.Equal(t, http.StatusServiceUnavailable, call(t, app, http.MethodGet, "/healthz", ""))
	})
}
