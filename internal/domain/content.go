package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTopicTitleLength  = 200
	MaxQuestionLength    = 500
	MaxOptionLength      = 200
	MaxExplanationLength = 300
	DefaultTopicOrder    = 1
)

// Difficulty is a free-standing label on a question; it does not affect scoring.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps the empty string to medium and rejects unknown labels.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", ValidationErrors{NewInvalidFormatError("difficulty", s)}
}

// Topic is a unit of learning content. It owns its questions.
type Topic struct {
	ID        string
	Title     string
	Content   string
	OrderNum  int
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the mandatory fields of a topic.
func (t *Topic) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, NewMissingFieldError("title"))
	} else if n := utf8.RuneCountInString(t.Title); n > MaxTopicTitleLength {
		errs = append(errs, NewOutOfRangeError("title", n, 1, MaxTopicTitleLength))
	}
	if strings.TrimSpace(t.Content) == "" {
		errs = append(errs, NewMissingFieldError("content"))
	}
	if t.OrderNum < 0 {
		errs = append(errs, NewFieldError("order_num", "order_num must not be negative"))
	}
	return errs
}

// NumOptions is the fixed number of answer slots on a question.
const NumOptions = 4

// Question is a multiple-choice question. Options 1-3 are required, option 4 may be empty.
// Correct holds the literal text of the right option.
type Question struct {
	ID          string
	TopicID     string
	Text        string
	Options     [NumOptions]string
	Correct     string
	Explanation string
	Difficulty  Difficulty
	CreatedBy   string
	CreatedAt   time.Time
}

// NonEmptyOptions returns the options a learner can pick, in order.
func (q *Question) NonEmptyOptions() []string {
	opts := make([]string, 0, NumOptions)
	for _, o := range q.Options {
		if o != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

// Validate enforces the question invariants, including that Correct equals one of the non-empty options.
func (q *Question) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(q.TopicID) == "" {
		errs = append(errs, NewMissingFieldError("topic_id"))
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, NewMissingFieldError("text"))
	} else if n := utf8.RuneCountInString(q.Text); n > MaxQuestionLength {
		errs = append(errs, NewOutOfRangeError("text", n, 1, MaxQuestionLength))
	}

	for i, o := range q.Options {
		field := optionField(i)
		if i < 3 && strings.TrimSpace(o) == "" {
			errs = append(errs, NewMissingFieldError(field))
			continue
		}
		if n := utf8.RuneCountInString(o); n > MaxOptionLength {
			errs = append(errs, NewOutOfRangeError(field, n, 0, MaxOptionLength))
		}
	}

	if q.Correct == "" {
		errs = append(errs, NewMissingFieldError("correct"))
	} else if !q.hasOption(q.Correct) {
		errs = append(errs, NewFieldError("correct", "correct answer must match one of the options"))
	}

	if n := utf8.RuneCountInString(q.Explanation); n > MaxExplanationLength {
		errs = append(errs, NewOutOfRangeError("explanation", n, 0, MaxExplanationLength))
	}
	if _, err := ParseDifficulty(string(q.Difficulty)); err != nil {
		errs = append(errs, NewInvalidFormatError("difficulty", q.Difficulty))
	}
	return errs
}

func (q *Question) hasOption(s string) bool {
	for _, o := range q.Options {
		if o != "" && o == s {
			return true
		}
	}
	return false
}

func optionField(i int) string {
	return "option_" + strconv.Itoa(i+1)
}

// TopicRepository stores topics. Lookups return (nil, nil) when nothing matches.
type TopicRepository interface {
	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopicByID(ctx context.Context, id string) (*Topic, error)
	ListTopics(ctx context.Context) ([]*Topic, error)
	UpdateTopic(ctx context.Context, topic *Topic) error
	DeleteTopic(ctx context.Context, id string) error
}

// QuestionRepository stores questions.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q *Question) error
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	ListByTopic(ctx context.Context, topicID string) ([]*Question, error)
	ListByCreator(ctx context.Context, userID string) ([]*Question, error)
	ListAll(ctx context.Context) ([]*Question, error)
	UpdateQuestion(ctx context.Context, q *Question) error
	DeleteQuestion(ctx context.Context, id string) error
	DeleteByTopic(ctx context.Context, topicID string) (int64, error)
}
