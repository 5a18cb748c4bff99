package quiz

import "testing"

func viewFixture() AttemptView {
	return AttemptView{
		BankSlug: "customs-law",
		Title:    "Customs Law 2014",
		Questions: []AttemptQuestion{
			{QuestionID: "q1", Text: "one", Options: []string{"a", "b", "c"}, CorrectIndex: 1},
			{QuestionID: "q2", Text: "two", Options: []string{"a", "b", "c"}, CorrectIndex: 0},
			{QuestionID: "q3", Text: "three", Options: []string{"a", "b", "c"}, CorrectIndex: 2, Explanation: "why"},
		},
	}
}

func TestScoreCountsCorrectAnswers(t *testing.T) {
	res := Score(viewFixture(), AnswerMap{0: 1, 1: 1, 2: 2})
	if res.Correct != 2 || res.Total != 3 {
		t.Fatalf("got %+v, want {2 3}", res)
	}
}

func TestScoreUnansweredCountsAsWrong(t *testing.T) {
	res := Score(viewFixture(), AnswerMap{0: 1})
	if res.Correct != 1 || res.Total != 3 {
		t.Fatalf("got %+v, want {1 3}", res)
	}
}

func TestScoreOutOfRangeSelectionIsWrong(t *testing.T) {
	res := Score(viewFixture(), AnswerMap{0: 99, 1: 0, 2: -1})
	if res.Correct != 1 || res.Total != 3 {
		t.Fatalf("got %+v, want {1 3}", res)
	}
}

func TestScoreEmptyView(t *testing.T) {
	res := Score(AttemptView{}, AnswerMap{})
	if res.Correct != 0 || res.Total != 0 {
		t.Fatalf("got %+v, want {0 0}", res)
	}
	if res.Percentage() != 0 {
		t.Fatalf("zero-total percentage: got %v", res.Percentage())
	}
}

func TestScorePercentage(t *testing.T) {
	res := ScoreResult{Correct: 3, Total: 4}
	if got := res.Percentage(); got != 75 {
		t.Fatalf("got %v, want 75", got)
	}
}
