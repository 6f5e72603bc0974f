package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/dto"
	"quiz-learn/internal/middleware"
	"quiz-learn/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// newTestApp mounts routes behind the production error handler.
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

// asUser stands in for middleware.Protected.
func asUser(id string, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, id)
		c.Locals(middleware.RoleKey, role)
		c.Locals(middleware.TokenKey, "token-"+id)
		return c.Next()
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc        func(ctx context.Context, username, password, confirmPassword string) (*domain.User, error)
	LoginFunc           func(ctx context.Context, username, password string) (string, *domain.User, error)
	LogoutFunc          func(ctx context.Context, tokenString string) error
	CurrentIdentityFunc func(ctx context.Context, tokenString string) (*domain.Identity, error)
	TTL                 time.Duration
}

func (m *MockAuthService) Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, confirmPassword)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	panic("MockAuthService.ValidateJWT not implemented")
}
func (m *MockAuthService) CurrentIdentity(ctx context.Context, tokenString string) (*domain.Identity, error) {
	if m.CurrentIdentityFunc != nil {
		return m.CurrentIdentityFunc(ctx, tokenString)
	}
	panic("MockAuthService.CurrentIdentityFunc not implemented")
}
func (m *MockAuthService) Logout(ctx context.Context, tokenString string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, tokenString)
	}
	panic("MockAuthService.LogoutFunc not implemented")
}
func (m *MockAuthService) TokenTTL() time.Duration { return m.TTL }

type MockUserService struct {
	ListUsersFunc   func(ctx context.Context, actor domain.Identity) ([]*domain.User, error)
	GetUserFunc     func(ctx context.Context, userID string) (*domain.User, error)
	UpdateUserFunc  func(ctx context.Context, actor domain.Identity, userID, role, newPassword string) (*domain.User, error)
	RecentUsersFunc func(ctx context.Context, actor domain.Identity, limit int) ([]*domain.User, error)
}

func (m *MockUserService) ListUsers(ctx context.Context, actor domain.Identity) ([]*domain.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, actor)
	}
	panic("MockUserService.ListUsersFunc not implemented")
}
func (m *MockUserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	panic("MockUserService.GetUserFunc not implemented")
}
func (m *MockUserService) UpdateUser(ctx context.Context, actor domain.Identity, userID, role, newPassword string) (*domain.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, actor, userID, role, newPassword)
	}
	panic("MockUserService.UpdateUserFunc not implemented")
}
func (m *MockUserService) RecentUsers(ctx context.Context, actor domain.Identity, limit int) ([]*domain.User, error) {
	if m.RecentUsersFunc != nil {
		return m.RecentUsersFunc(ctx, actor, limit)
	}
	panic("MockUserService.RecentUsersFunc not implemented")
}

type MockContentService struct {
	ListTopicsFunc     func(ctx context.Context) ([]*domain.Topic, error)
	GetTopicFunc       func(ctx context.Context, actor domain.Identity, topicID string) (*domain.Topic, []*domain.Question, error)
	CreateTopicFunc    func(ctx context.Context, actor domain.Identity, topic *domain.Topic) (*domain.Topic, error)
	UpdateTopicFunc    func(ctx context.Context, actor domain.Identity, topicID string, topic *domain.Topic) (*domain.Topic, error)
	DeleteTopicFunc    func(ctx context.Context, actor domain.Identity, topicID string) (int64, error)
	ListQuestionsFunc  func(ctx context.Context, actor domain.Identity) ([]*domain.Question, error)
	GetQuestionFunc    func(ctx context.Context, actor domain.Identity, questionID string) (*domain.Question, error)
	CreateQuestionFunc func(ctx context.Context, actor domain.Identity, q *domain.Question) (*domain.Question, error)
	UpdateQuestionFunc func(ctx context.Context, actor domain.Identity, questionID string, q *domain.Question) (*domain.Question, error)
	DeleteQuestionFunc func(ctx context.Context, actor domain.Identity, questionID string) error
}

func (m *MockContentService) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockContentService.ListTopicsFunc not implemented")
}
func (m *MockContentService) GetTopic(ctx context.Context, actor domain.Identity, topicID string) (*domain.Topic, []*domain.Question, error) {
	if m.GetTopicFunc != nil {
		return m.GetTopicFunc(ctx, actor, topicID)
	}
	panic("MockContentService.GetTopicFunc not implemented")
}
func (m *MockContentService) CreateTopic(ctx context.Context, actor domain.Identity, topic *domain.Topic) (*domain.Topic, error) {
	if m.CreateTopicFunc != nil {
		return m.CreateTopicFunc(ctx, actor, topic)
	}
	panic("MockContentService.CreateTopicFunc not implemented")
}
func (m *MockContentService) UpdateTopic(ctx context.Context, actor domain.Identity, topicID string, topic *domain.Topic) (*domain.Topic, error) {
	if m.UpdateTopicFunc != nil {
		return m.UpdateTopicFunc(ctx, actor, topicID, topic)
	}
	panic("MockContentService.UpdateTopicFunc not implemented")
}
func (m *MockContentService) DeleteTopic(ctx context.Context, actor domain.Identity, topicID string) (int64, error) {
	if m.DeleteTopicFunc != nil {
		return m.DeleteTopicFunc(ctx, actor, topicID)
	}
	panic("MockContentService.DeleteTopicFunc not implemented")
}
func (m *MockContentService) ListQuestions(ctx context.Context, actor domain.Identity) ([]*domain.Question, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, actor)
	}
	panic("MockContentService.ListQuestionsFunc not implemented")
}
func (m *MockContentService) GetQuestion(ctx context.Context, actor domain.Identity, questionID string) (*domain.Question, error) {
	if m.GetQuestionFunc != nil {
		return m.GetQuestionFunc(ctx, actor, questionID)
	}
	panic("MockContentService.GetQuestionFunc not implemented")
}
func (m *MockContentService) CreateQuestion(ctx context.Context, actor domain.Identity, q *domain.Question) (*domain.Question, error) {
	if m.CreateQuestionFunc != nil {
		return m.CreateQuestionFunc(ctx, actor, q)
	}
	panic("MockContentService.CreateQuestionFunc not implemented")
}
func (m *MockContentService) UpdateQuestion(ctx context.Context, actor domain.Identity, questionID string, q *domain.Question) (*domain.Question, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(ctx, actor, questionID, q)
	}
	panic("MockContentService.UpdateQuestionFunc not implemented")
}
func (m *MockContentService) DeleteQuestion(ctx context.Context, actor domain.Identity, questionID string) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, actor, questionID)
	}
	panic("MockContentService.DeleteQuestionFunc not implemented")
}

type MockTestService struct {
	StartTestFunc  func(ctx context.Context, actor domain.Identity, topicID string) (*service.TestSession, error)
	SubmitTestFunc func(ctx context.Context, actor domain.Identity, topicID string, answers map[string]string) (*service.TestSubmission, error)
	MyResultsFunc  func(ctx context.Context, actor domain.Identity, limit int) ([]*domain.TestResultSummary, error)
}

func (m *MockTestService) StartTest(ctx context.Context, actor domain.Identity, topicID string) (*service.TestSession, error) {
	if m.StartTestFunc != nil {
		return m.StartTestFunc(ctx, actor, topicID)
	}
	panic("MockTestService.StartTestFunc not implemented")
}
func (m *MockTestService) SubmitTest(ctx context.Context, actor domain.Identity, topicID string, answers map[string]string) (*service.TestSubmission, error) {
	if m.SubmitTestFunc != nil {
		return m.SubmitTestFunc(ctx, actor, topicID, answers)
	}
	panic("MockTestService.SubmitTestFunc not implemented")
}
func (m *MockTestService) MyResults(ctx context.Context, actor domain.Identity, limit int) ([]*domain.TestResultSummary, error) {
	if m.MyResultsFunc != nil {
		return m.MyResultsFunc(ctx, actor, limit)
	}
	panic("MockTestService.MyResultsFunc not implemented")
}

type MockStatsService struct {
	GetStatsFunc         func(ctx context.Context, actor domain.Identity) (*domain.Stats, error)
	AdminDashboardFunc   func(ctx context.Context, actor domain.Identity) (*service.AdminDashboard, error)
	TeacherDashboardFunc func(ctx context.Context, actor domain.Identity) (*service.TeacherDashboard, error)
}

func (m *MockStatsService) GetStats(ctx context.Context, actor domain.Identity) (*domain.Stats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, actor)
	}
	panic("MockStatsService.GetStatsFunc not implemented")
}
func (m *MockStatsService) AdminDashboard(ctx context.Context, actor domain.Identity) (*service.AdminDashboard, error) {
	if m.AdminDashboardFunc != nil {
		return m.AdminDashboardFunc(ctx, actor)
	}
	panic("MockStatsService.AdminDashboardFunc not implemented")
}
func (m *MockStatsService) TeacherDashboard(ctx context.Context, actor domain.Identity) (*service.TeacherDashboard, error) {
	if m.TeacherDashboardFunc != nil {
		return m.TeacherDashboardFunc(ctx, actor)
	}
	panic("MockStatsService.TeacherDashboardFunc not implemented")
}

type MockBatchService struct {
	ImportQuestionsFunc func(ctx context.Context, actor domain.Identity, topicID string, items []domain.QuestionImport) (*domain.ImportReport, error)
}

func (m *MockBatchService) ImportQuestions(ctx context.Context, actor domain.Identity, topicID string, items []domain.QuestionImport) (*domain.ImportReport, error) {
	if m.ImportQuestionsFunc != nil {
		return m.ImportQuestionsFunc(ctx, actor, topicID, items)
	}
	panic("MockBatchService.ImportQuestionsFunc not implemented")
}
