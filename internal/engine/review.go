package engine

import "github.com/hr-training/quiz-service/internal/models"

// BuildReview derives the per-question breakdown for a session, one entry per
// question in the original session order regardless of how the taker
// navigated. It reads the session without mutating it; the engine gates it
// behind the Completed state.
func BuildReview(session *models.Session) []models.ReviewEntry {
	entries := make([]models.ReviewEntry, 0, len(session.Questions))
	for i, q := range session.Questions {
		entry := models.ReviewEntry{
			QuestionIndex: i,
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			Category:      q.Category,
			Options:       []string(q.Options),
			CorrectIndex:  q.CorrectIndex,
		}
		if chosen, ok := session.Answers[q.ID]; ok {
			chosen := chosen
			entry.ChosenIndex = &chosen
			entry.IsCorrect = chosen == q.CorrectIndex
		}
		entries = append(entries, entry)
	}
	return entries
}
