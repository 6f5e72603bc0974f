package models

import "time"

// TestResult is the test_results table row.
type TestResult struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	TopicID     string    `db:"topic_id"`
	Score       int       `db:"score"`
	Total       int       `db:"total"`
	Percentage  float64   `db:"percentage"`
	CompletedAt time.Time `db:"completed_at"`
}

// TestResultSummary is a result LEFT JOINed with its user and topic.
type TestResultSummary struct {
	TestResult
	Username   string `db:"username"`
	TopicTitle string `db:"topic_title"`
}

// Stats is the single-row count query.
type Stats struct {
	Users     int64 `db:"users"`
	Topics    int64 `db:"topics"`
	Questions int64 `db:"questions"`
	Results   int64 `db:"results"`
}
