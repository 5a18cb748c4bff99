package quiz

// Score counts correct answers in view against answers. Unanswered and
// out-of-range selections count as incorrect; scoring never fails.
func Score(view AttemptView, answers AnswerMap) ScoreResult {
	res := ScoreResult{Total: len(view.Questions)}
	for pos, q := range view.Questions {
		sel, ok := answers[pos]
		if ok && sel == q.CorrectIndex {
			res.Correct++
		}
	}
	return res
}
