package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestions() []*Question {
	return []*Question{
		{ID: "q1", Options: [NumOptions]string{"A", "B", "C"}, Correct: "A", Explanation: "A is right"},
		{ID: "q2", Options: [NumOptions]string{"A", "B", "C"}, Correct: "B"},
	}
}

func TestScoreTest(t *testing.T) {
	tests := []struct {
		name       string
		answers    map[string]string
		score      int
		percentage float64
	}{
		{name: "all correct", answers: map[string]string{"q1": "A", "q2": "B"}, score: 2, percentage: 100},
		{name: "one wrong", answers: map[string]string{"q1": "A", "q2": "X"}, score: 1, percentage: 50},
		{name: "one missing", answers: map[string]string{"q1": "A"}, score: 1, percentage: 50},
		{name: "nothing answered", answers: map[string]string{}, score: 0, percentage: 0},
		{name: "nil answers", answers: nil, score: 0, percentage: 0},
		{name: "case sensitive", answers: map[string]string{"q1": "a", "q2": "b"}, score: 0, percentage: 0},
		{name: "no trimming", answers: map[string]string{"q1": " A", "q2": "B "}, score: 0, percentage: 0},
		{name: "unknown ids ignored", answers: map[string]string{"q9": "A", "q1": "A"}, score: 1, percentage: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := ScoreTest(twoQuestions(), tt.answers)
			assert.Equal(t, tt.score, outcome.Score)
			assert.Equal(t, 2, outcome.Total)
			assert.InDelta(t, tt.percentage, outcome.Percentage, 1e-9)
			assert.Len(t, outcome.Questions, 2)
		})
	}
}

func TestScoreTest_PerQuestionDetails(t *testing.T) {
	outcome := ScoreTest(twoQuestions(), map[string]string{"q1": "A"})
	require.Len(t, outcome.Questions, 2)

	first := outcome.Questions[0]
	assert.Equal(t, "q1", first.QuestionID)
	assert.True(t, first.Answered)
	assert.True(t, first.Correct)
	assert.Equal(t, "A is right", first.Explanation)

	second := outcome.Questions[1]
	assert.False(t, second.Answered)
	assert.False(t, second.Correct)
	assert.Equal(t, "B", second.CorrectText)
	assert.Empty(t, second.Answer)
}

func TestScoreTest_Percentages(t *testing.T) {
	qs := []*Question{
		{ID: "1", Correct: "x"},
		{ID: "2", Correct: "x"},
		{ID: "3", Correct: "x"},
	}
	outcome := ScoreTest(qs, map[string]string{"1": "x"})
	assert.Equal(t, 1, outcome.Score)
	assert.InDelta(t, 100.0/3.0, outcome.Percentage, 1e-9)

	empty := ScoreTest(nil, map[string]string{"1": "x"})
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0.0, empty.Percentage)
}
