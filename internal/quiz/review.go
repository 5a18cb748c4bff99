package quiz

// ProjectReview derives the per-question review list from an attempt view
// and its recorded answers. Exactly one option per question is marked as
// the correct one; at most one is marked selected. The projection does not
// care whether view/answers came from a live session or were reconstructed
// from persisted records.
func ProjectReview(view AttemptView, answers AnswerMap) []ReviewQuestion {
	out := make([]ReviewQuestion, 0, len(view.Questions))
	for pos, q := range view.Questions {
		sel, answered := answers[pos]
		rq := ReviewQuestion{
			Position:    pos,
			QuestionID:  q.QuestionID,
			Text:        q.Text,
			Options:     make([]ReviewOption, 0, len(q.Options)),
			Answered:    answered,
			Correct:     answered && sel == q.CorrectIndex,
			Explanation: q.Explanation,
		}
		for i, opt := range q.Options {
			rq.Options = append(rq.Options, ReviewOption{
				Text:            opt,
				IsCorrectOption: i == q.CorrectIndex,
				WasSelected:     answered && i == sel,
			})
		}
		out = append(out, rq)
	}
	return out
}
