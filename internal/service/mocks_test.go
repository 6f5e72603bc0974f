package service

import (
	"context"
	"time"

	"quiz-learn/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListRecentUsers(ctx context.Context, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- MockTopicRepository ---
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) DeleteTopic(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) questions(args mock.Arguments) ([]*domain.Question, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListByTopic(ctx context.Context, topicID string) ([]*domain.Question, error) {
	return m.questions(m.Called(ctx, topicID))
}

func (m *MockQuestionRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Question, error) {
	return m.questions(m.Called(ctx, userID))
}

func (m *MockQuestionRepository) ListAll(ctx context.Context) ([]*domain.Question, error) {
	return m.questions(m.Called(ctx))
}

func (m *MockQuestionRepository) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteByTopic(ctx context.Context, topicID string) (int64, error) {
	args := m.Called(ctx, topicID)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockTestResultRepository ---
type MockTestResultRepository struct {
	mock.Mock
}

func (m *MockTestResultRepository) CreateResult(ctx context.Context, result *domain.TestResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockTestResultRepository) ListRecent(ctx context.Context, limit int) ([]*domain.TestResultSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestResultSummary), args.Error(1)
}

func (m *MockTestResultRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TestResultSummary, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestResultSummary), args.Error(1)
}

// --- MockStatsRepository ---
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetStats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// --- MockTransactionManager ---
// Runs fn directly. Err, when set, is returned instead, as a failed commit would.
type MockTransactionManager struct {
	Err   error
	Calls int
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.Err
}

// --- MockPasswordHasher ---
// Hashes by prefixing, so Compare is deterministic.
type MockPasswordHasher struct {
	Err error
	// Compared records every hash passed to Compare.
	Compared []string
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	m.Compared = append(m.Compared, hash)
	return hash == "hashed:"+password
}

// --- recordingInvalidator ---
type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) InvalidateStats(ctx context.Context) {
	r.calls++
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCache) HSet(ctx context.Context, key string, fields map[string]string) error {
	args := m.Called(ctx, key, fields)
	return args.Error(0)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

// Ensure all required methods for interfaces are present in the mocks
var (
	_ domain.UserRepository       = (*MockUserRepository)(nil)
	_ domain.TopicRepository      = (*MockTopicRepository)(nil)
	_ domain.QuestionRepository   = (*MockQuestionRepository)(nil)
	_ domain.TestResultRepository = (*MockTestResultRepository)(nil)
	_ domain.StatsRepository      = (*MockStatsRepository)(nil)
	_ domain.TransactionManager   = (*MockTransactionManager)(nil)
	_ domain.PasswordHasher       = (*MockPasswordHasher)(nil)
	_ domain.Cache                = (*MockCache)(nil)
)

var (
	adminIdentity   = domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin}
	teacherIdentity = domain.Identity{UserID: "teacher-1", Role: domain.RoleTeacher}
	studentIdentity = domain.Identity{UserID: "student-1", Role: domain.RoleStudent}
)
