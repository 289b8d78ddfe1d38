package engine

import (
	"math"
	"time"

	"github.com/hr-training/quiz-service/internal/models"
)

// Score computes the result for a session. It is a pure function of the
// session contents: unanswered questions count as incorrect, the total is
// always the full question count, and the percentage is rounded to the
// nearest integer.
func Score(session *models.Session, reason models.EndReason, now time.Time) *models.Result {
	correct := 0
	for _, q := range session.Questions {
		if chosen, ok := session.Answers[q.ID]; ok && chosen == q.CorrectIndex {
			correct++
		}
	}

	total := len(session.Questions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(correct) / float64(total)))
	}

	return &models.Result{
		Correct:       correct,
		Total:         total,
		Percentage:    percentage,
		Passed:        percentage >= models.PassingPercentage,
		QuestionCount: total,
		DurationMs:    now.Sub(session.StartedAt).Milliseconds(),
		EndReason:     reason,
		Category:      session.Config.Category,
		TakenAt:       now,
	}
}
