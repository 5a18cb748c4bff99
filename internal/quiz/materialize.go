package quiz

// Materialize builds one attempt view from a bank: a shuffled subset of
// requestedCount questions, each with its options permuted and its correct
// index remapped against the new option order.
//
// requestedCount is clamped to [1, len(bank.Questions)]; it is never an
// error to ask for more questions than the bank holds. A bank with zero
// questions yields ErrBankEmpty.
func Materialize(bank Bank, requestedCount int) (AttemptView, error) {
	if len(bank.Questions) == 0 {
		return AttemptView{}, ErrBankEmpty
	}
	if requestedCount < 1 {
		requestedCount = 1
	}
	if requestedCount > len(bank.Questions) {
		requestedCount = len(bank.Questions)
	}

	picked := Shuffle(bank.Questions)[:requestedCount]

	view := AttemptView{
		BankSlug:  bank.Slug,
		Title:     bank.Title,
		Questions: make([]AttemptQuestion, 0, len(picked)),
	}
	for _, q := range picked {
		view.Questions = append(view.Questions, permuteQuestion(q))
	}
	return view, nil
}

func permuteQuestion(q Question) AttemptQuestion {
	p := perm(len(q.Options))
	opts := make([]string, len(q.Options))
	correct := q.CorrectIndex
	for newIdx, origIdx := range p {
		opts[newIdx] = q.Options[origIdx]
		if origIdx == q.CorrectIndex {
			correct = newIdx
		}
	}
	return AttemptQuestion{
		QuestionID:   q.ID,
		Text:         q.Text,
		Options:      opts,
		OptionOrder:  p,
		CorrectIndex: correct,
		Explanation:  q.Explanation,
	}
}
