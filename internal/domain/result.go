package domain

import (
	"context"
	"time"
)

// Fallback labels for results whose user or topic no longer exists.
const (
	DeletedUserLabel  = "Deleted user"
	DeletedTopicLabel = "Topic no longer available"
)

// TestResult is one completed attempt. Rows are append-only.
type TestResult struct {
	ID          string
	UserID      string
	TopicID     string
	Score       int
	Total       int
	Percentage  float64
	CompletedAt time.Time
}

// TestResultSummary is a result joined with display labels. Username and
// TopicTitle are empty when the referenced row is gone.
type TestResultSummary struct {
	TestResult
	Username   string
	TopicTitle string
}

// UserLabel returns the username or the deleted-user fallback.
func (s *TestResultSummary) UserLabel() string {
	if s.Username == "" {
		return DeletedUserLabel
	}
	return s.Username
}

// TopicLabel returns the topic title or the deleted-topic fallback.
func (s *TestResultSummary) TopicLabel() string {
	if s.TopicTitle == "" {
		return DeletedTopicLabel
	}
	return s.TopicTitle
}

// Stats are global entity counts.
type Stats struct {
	Users     int64 `json:"users"`
	Topics    int64 `json:"topics"`
	Questions int64 `json:"questions"`
	Results   int64 `json:"results"`
}

// TestResultRepository is the append-only result log. It has no update or delete.
type TestResultRepository interface {
	CreateResult(ctx context.Context, result *TestResult) error
	ListRecent(ctx context.Context, limit int) ([]*TestResultSummary, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*TestResultSummary, error)
}

type StatsRepository interface {
	GetStats(ctx context.Context) (*Stats, error)
}

// TransactionManager runs fn inside one database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
