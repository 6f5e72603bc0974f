package domain

// QuestionImport is one question of a bulk import file.
type QuestionImport struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// ToQuestion maps the import row onto a question of topicID. Extra options beyond NumOptions are dropped.
func (qi QuestionImport) ToQuestion(topicID, createdBy string) *Question {
	q := &Question{
		TopicID:     topicID,
		Text:        qi.Text,
		Correct:     qi.Correct,
		Explanation: qi.Explanation,
		Difficulty:  Difficulty(qi.Difficulty),
		CreatedBy:   createdBy,
	}
	for i := 0; i < len(qi.Options) && i < NumOptions; i++ {
		q.Options[i] = qi.Options[i]
	}
	return q
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	TopicID  string `json:"topic_id"`
	Imported int    `json:"imported"`
}
