package history

import (
	"github.com/quizdrill/quizdrill/internal/quiz"
)

// ReviewFromRecords rebuilds the canonical review input from persisted
// answer records plus the bank's current questions, then runs the same
// projector a live session uses. The projector itself never learns whether
// its data came from memory or from the database.
//
// Persisted selections are canonical option indexes, so the rebuilt view
// keeps the bank's canonical option order. Questions that have since left
// the bank are skipped.
func ReviewFromRecords(bank quiz.Bank, records []AnswerRecord) []quiz.ReviewQuestion {
	byID := make(map[string]quiz.Question, len(bank.Questions))
	for _, q := range bank.Questions {
		byID[q.ID] = q
	}

	view := quiz.AttemptView{BankSlug: bank.Slug, Title: bank.Title}
	answers := quiz.AnswerMap{}
	for _, rec := range records {
		q, ok := byID[rec.QuestionID]
		if !ok {
			continue
		}
		pos := len(view.Questions)
		view.Questions = append(view.Questions, quiz.AttemptQuestion{
			QuestionID:   q.ID,
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		})
		if rec.SelectedOption >= 0 && rec.SelectedOption < len(q.Options) {
			answers[pos] = rec.SelectedOption
		}
	}
	return quiz.ProjectReview(view, answers)
}
