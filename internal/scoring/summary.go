package scoring

import (
	"github.com/shrimpsizemoose/quizdash/internal/models"
)

// Summary holds the read-only metrics shown above the submissions table.
type Summary struct {
	Submissions   int                           `json:"submissions"`
	LatestStudent string                        `json:"latest_student"`
	CorrectRate   float64                       `json:"correct_rate"`
	MeanScore     float64                       `json:"mean_score"`
	QuestionRates [models.QuestionCount]float64 `json:"question_rates"`
	ScoreCounts   [models.QuestionCount + 1]int `json:"score_counts"`
}

// Summarize computes dashboard metrics over rows ordered newest first.
func Summarize(rows []models.Submission) Summary {
	var sum Summary
	sum.Submissions = len(rows)
	if len(rows) == 0 {
		return sum
	}

	if rows[0].StudentID != nil {
		sum.LatestStudent = *rows[0].StudentID
	}

	var correct [models.QuestionCount]int
	totalScore := 0
	for _, r := range rows {
		for i, c := range r.Correct {
			correct[i] += c
		}
		totalScore += r.TotalScore
		if r.TotalScore >= 0 && r.TotalScore <= models.QuestionCount {
			sum.ScoreCounts[r.TotalScore]++
		}
	}

	n := float64(len(rows))
	allCorrect := 0
	for i, c := range correct {
		sum.QuestionRates[i] = float64(c) / n
		allCorrect += c
	}
	sum.CorrectRate = float64(allCorrect) / (n * models.QuestionCount)
	sum.MeanScore = float64(totalScore) / n

	return sum
}
