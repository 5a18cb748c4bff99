package quiz

import "testing"

func TestProjectReviewMarksExactlyOneCorrectOption(t *testing.T) {
	view := viewFixture()
	rev := ProjectReview(view, AnswerMap{0: 1, 2: 0})
	if len(rev) != len(view.Questions) {
		t.Fatalf("got %d review rows, want %d", len(rev), len(view.Questions))
	}
	for _, rq := range rev {
		correct, selected := 0, 0
		for _, opt := range rq.Options {
			if opt.IsCorrectOption {
				correct++
			}
			if opt.WasSelected {
				selected++
			}
		}
		if correct != 1 {
			t.Fatalf("position %d: %d options marked correct, want exactly 1", rq.Position, correct)
		}
		if selected > 1 {
			t.Fatalf("position %d: %d options marked selected, want at most 1", rq.Position, selected)
		}
	}
}

func TestProjectReviewVerdicts(t *testing.T) {
	rev := ProjectReview(viewFixture(), AnswerMap{0: 1, 1: 2})

	if !rev[0].Correct || !rev[0].Answered {
		t.Fatalf("position 0 should be answered+correct: %+v", rev[0])
	}
	if rev[1].Correct || !rev[1].Answered {
		t.Fatalf("position 1 should be answered+wrong: %+v", rev[1])
	}
	if rev[2].Correct || rev[2].Answered {
		t.Fatalf("position 2 should be unanswered: %+v", rev[2])
	}
	for _, opt := range rev[2].Options {
		if opt.WasSelected {
			t.Fatalf("unanswered question has a selected option")
		}
	}
	if rev[2].Explanation != "why" {
		t.Fatalf("explanation dropped: %+v", rev[2])
	}
}

func TestProjectReviewSelectedMatchesAnswer(t *testing.T) {
	rev := ProjectReview(viewFixture(), AnswerMap{1: 2})
	for i, opt := range rev[1].Options {
		if opt.WasSelected != (i == 2) {
			t.Fatalf("option %d selected=%v", i, opt.WasSelected)
		}
	}
}
