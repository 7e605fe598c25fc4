// internal/scoring/grader.go
package scoring

import (
	"strings"

	"github.com/shrimpsizemoose/quizdash/internal/models"
)

// CorrectPrefix marks a feedback string written for a correct answer.
const CorrectPrefix = "O:"

// IsCorrect reports 1 when feedback, trimmed of surrounding whitespace,
// starts with CorrectPrefix, and 0 otherwise. A missing feedback is
// incorrect.
func IsCorrect(feedback *string) int {
	if feedback == nil {
		return 0
	}
	if strings.HasPrefix(strings.TrimSpace(*feedback), CorrectPrefix) {
		return 1
	}
	return 0
}

// Total sums per-question correctness flags.
func Total(c1, c2, c3 int) int {
	return c1 + c2 + c3
}

// Grade recomputes the correctness flags and total score of s from its
// current feedback fields.
func Grade(s *models.Submission) {
	for i := range s.Feedback {
		s.Correct[i] = IsCorrect(s.Feedback[i])
	}
	s.TotalScore = Total(s.Correct[0], s.Correct[1], s.Correct[2])
}
