package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionCount is the number of answer/feedback pairs on a quiz.
const QuestionCount = 3

// Record is one raw row as returned by a source. Fields may be missing.
type Record map[string]interface{}

// Submission is one quiz attempt plus the values derived from it on every
// fetch. Derived fields are never written back to the backend.
type Submission struct {
	ID        *string
	StudentID *string
	CreatedAt *time.Time
	Answers   [QuestionCount]*string
	Feedback  [QuestionCount]*string

	Correct        [QuestionCount]int
	TotalScore     int
	CreatedAtLocal string
}

// AnswerColumn returns the column name of the n-th answer, counting from 1.
func AnswerColumn(n int) string {
	return fmt.Sprintf("answer_%d", n)
}

// FeedbackColumn returns the column name of the n-th feedback, counting from 1.
func FeedbackColumn(n int) string {
	return fmt.Sprintf("feedback_%d", n)
}

// CorrectColumn returns the column name of the n-th correctness flag.
func CorrectColumn(n int) string {
	return fmt.Sprintf("correct_%d", n)
}

func (s Submission) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":          s.ID,
		"student_id":  s.StudentID,
		"total_score": s.TotalScore,
	}
	if s.CreatedAt != nil {
		out["created_at"] = s.CreatedAt.UTC().Format(time.RFC3339)
		out["created_at_local"] = s.CreatedAtLocal
	} else {
		out["created_at"] = nil
	}
	for i := 0; i < QuestionCount; i++ {
		out[AnswerColumn(i+1)] = s.Answers[i]
		out[FeedbackColumn(i+1)] = s.Feedback[i]
		out[CorrectColumn(i+1)] = s.Correct[i]
	}
	return json.Marshal(out)
}
