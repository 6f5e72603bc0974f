package dto

import (
	"time"

	"quiz-learn/internal/domain"
)

// TopicRequest creates or fully replaces a topic. A missing order_num means 1.
type TopicRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	OrderNum *int   `json:"order_num,omitempty"`
}

func (r TopicRequest) ToDomain() *domain.Topic {
	order := domain.DefaultTopicOrder
	if r.OrderNum != nil {
		order = *r.OrderNum
	}
	return &domain.Topic{Title: r.Title, Content: r.Content, OrderNum: order}
}

type TopicResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OrderNum  int       `json:"order_num"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopicDetailResponse is the learner view of a topic.
type TopicDetailResponse struct {
	TopicResponse
	QuestionCount int `json:"question_count"`
}

func ToTopicResponse(t *domain.Topic) TopicResponse {
	return TopicResponse{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		OrderNum:  t.OrderNum,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func ToTopicResponses(topics []*domain.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, ToTopicResponse(t))
	}
	return out
}

// QuestionRequest creates or fully replaces a question.
type QuestionRequest struct {
	TopicID     string `json:"topic_id"`
	Text        string `json:"text"`
	Option1     string `json:"option_1"`
	Option2     string `json:"option_2"`
	Option3     string `json:"option_3"`
	Option4     string `json:"option_4,omitempty"`
	Correct     string `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

func (r QuestionRequest) ToDomain() *domain.Question {
	return &domain.Question{
		TopicID:     r.TopicID,
		Text:        r.Text,
		Options:     [domain.NumOptions]string{r.Option1, r.Option2, r.Option3, r.Option4},
		Correct:     r.Correct,
		Explanation: r.Explanation,
		Difficulty:  domain.Difficulty(r.Difficulty),
	}
}

// QuestionResponse is the author view and includes the correct answer.
type QuestionResponse struct {
	ID          string    `json:"id"`
	TopicID     string    `json:"topic_id"`
	Text        string    `json:"text"`
	Option1     string    `json:"option_1"`
	Option2     string    `json:"option_2"`
	Option3     string    `json:"option_3"`
	Option4     string    `json:"option_4"`
	Correct     string    `json:"correct"`
	Explanation string    `json:"explanation"`
	Difficulty  string    `json:"difficulty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:          q.ID,
		TopicID:     q.TopicID,
		Text:        q.Text,
		Option1:     q.Options[0],
		Option2:     q.Options[1],
		Option3:     q.Options[2],
		Option4:     q.Options[3],
		Correct:     q.Correct,
		Explanation: q.Explanation,
		Difficulty:  string(q.Difficulty),
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
	}
}

func ToQuestionResponses(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, ToQuestionResponse(q))
	}
	return out
}

// ImportQuestionsRequest is the bulk import body.
type ImportQuestionsRequest struct {
	Questions []domain.QuestionImport `json:"questions"`
}
