package domain

// QuestionOutcome is the graded answer to a single question.
type QuestionOutcome struct {
	QuestionID  string
	Answer      string
	Answered    bool
	Correct     bool
	CorrectText string
	Explanation string
}

// TestOutcome is the result of scoring one submission.
type TestOutcome struct {
	Score      int
	Total      int
	Percentage float64
	Questions  []QuestionOutcome
}

// ScoreTest grades answers (question id -> chosen option text) against questions.
// Matching is exact and case-sensitive. A missing or empty answer counts as incorrect.
// Percentage is score/total*100 without rounding, and 0 for an empty question set.
func ScoreTest(questions []*Question, answers map[string]string) TestOutcome {
	outcome := TestOutcome{
		Total:     len(questions),
		Questions: make([]QuestionOutcome, 0, len(questions)),
	}

	for _, q := range questions {
		answer, ok := answers[q.ID]
		answered := ok && answer != ""
		correct := answered && answer == q.Correct
		if correct {
			outcome.Score++
		}
		outcome.Questions = append(outcome.Questions, QuestionOutcome{
			QuestionID:  q.ID,
			Answer:      answer,
			Answered:    answered,
			Correct:     correct,
			CorrectText: q.Correct,
			Explanation: q.Explanation,
		})
	}

	if outcome.Total > 0 {
		outcome.Percentage = float64(outcome.Score) / float64(outcome.Total) * 100
	}
	return outcome
}
