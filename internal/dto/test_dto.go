package dto

import (
	"time"

	"quiz-learn/internal/domain"
)

// TestQuestionResponse is a question as shown to a learner: no correct answer, no explanation.
type TestQuestionResponse struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

type StartTestResponse struct {
	TopicID      string                 `json:"topic_id"`
	TopicTitle   string                 `json:"topic_title"`
	Questions    []TestQuestionResponse `json:"questions"`
	SavedAnswers map[string]string      `json:"saved_answers,omitempty"`
}

// SubmitTestRequest maps question id to the chosen option text.
type SubmitTestRequest struct {
	Answers map[string]string `json:"answers"`
}

type QuestionResultResponse struct {
	QuestionID    string `json:"question_id"`
	Text          string `json:"text"`
	YourAnswer    string `json:"your_answer"`
	Answered      bool   `json:"answered"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

type SubmitTestResponse struct {
	ResultID    string                   `json:"result_id"`
	TopicID     string                   `json:"topic_id"`
	TopicTitle  string                   `json:"topic_title"`
	Score       int                      `json:"score"`
	Total       int                      `json:"total"`
	Percentage  float64                  `json:"percentage"`
	CompletedAt time.Time                `json:"completed_at"`
	Questions   []QuestionResultResponse `json:"questions"`
}

// NoAnswerLabel is shown in place of a learner answer that was never given.
const NoAnswerLabel = "No answer"

func ToTestQuestionResponses(questions []*domain.Question) []TestQuestionResponse {
	out := make([]TestQuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, TestQuestionResponse{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.NonEmptyOptions(),
			Difficulty: string(q.Difficulty),
		})
	}
	return out
}

// ToSubmitTestResponse joins the outcome with question texts. Questions and outcome share order.
func ToSubmitTestResponse(topic *domain.Topic, questions []*domain.Question, result *domain.TestResult, outcome domain.TestOutcome) SubmitTestResponse {
	details := make([]QuestionResultResponse, 0, len(outcome.Questions))
	for i, qo := range outcome.Questions {
		answer := qo.Answer
		if !qo.Answered {
			answer = NoAnswerLabel
		}
		text := ""
		if i < len(questions) {
			text = questions[i].Text
		}
		details = append(details, QuestionResultResponse{
			QuestionID:    qo.QuestionID,
			Text:          text,
			YourAnswer:    answer,
			Answered:      qo.Answered,
			Correct:       qo.Correct,
			CorrectAnswer: qo.CorrectText,
			Explanation:   qo.Explanation,
		})
	}
	return SubmitTestResponse{
		ResultID:    result.ID,
		TopicID:     topic.ID,
		TopicTitle:  topic.Title,
		Score:       outcome.Score,
		Total:       outcome.Total,
		Percentage:  outcome.Percentage,
		CompletedAt: result.CompletedAt,
		Questions:   details,
	}
}

type ResultResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	TopicID     string    `json:"topic_id"`
	TopicTitle  string    `json:"topic_title"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}

func ToResultResponses(results []*domain.TestResultSummary) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, ResultResponse{
			ID:          r.ID,
			UserID:      r.UserID,
			Username:    r.UserLabel(),
			TopicID:     r.TopicID,
			TopicTitle:  r.TopicLabel(),
			Score:       r.Score,
			Total:       r.Total,
			Percentage:  r.Percentage,
			CompletedAt: r.CompletedAt,
		})
	}
	return out
}

type AdminDashboardResponse struct {
	Stats       domain.Stats   `json:"stats"`
	RecentUsers []UserResponse `json:"recent_users"`
}

type TeacherDashboardResponse struct {
	Topics        []TopicResponse  `json:"topics"`
	RecentResults []ResultResponse `json:"recent_results"`
}
