package quiz

// Question is the canonical, unshuffled form of a single multiple-choice
// question as stored in a bank. CorrectIndex must be a valid index into
// Options.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	CorrectIndex int     `json:"correct_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// Bank is a canonical collection of questions for one quiz topic.
type Bank struct {
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AttemptQuestion is one question as presented during an attempt: options
// permuted, correct index remapped against the permuted order. OptionOrder
// maps each permuted position back to the canonical option index, so a
// selection can be persisted in canonical terms.
type AttemptQuestion struct {
	QuestionID   string   `json:"question_id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	OptionOrder  []int    `json:"option_order,omitempty"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

// CanonicalOption translates a permuted option index to its canonical
// index, falling back to identity when no permutation was recorded.
func (q AttemptQuestion) CanonicalOption(idx int) int {
	if idx >= 0 && idx < len(q.OptionOrder) {
		return q.OptionOrder[idx]
	}
	return idx
}

// AttemptView is the shuffled, per-attempt materialization of a bank.
// It is ephemeral: built once at session start and discarded at the end
// of the attempt.
type AttemptView struct {
	BankSlug  string            `json:"bank_slug"`
	Title     string            `json:"title"`
	Questions []AttemptQuestion `json:"questions"`
}

// AnswerMap records the selected option per attempt-question position.
// Absent positions are unanswered.
type AnswerMap map[int]int

// FlagSet marks positions the user wants to revisit. Purely navigational;
// never affects scoring.
type FlagSet map[int]struct{}

// ScoreResult is the outcome of scoring one attempt.
type ScoreResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns the score as 0..100. A zero-question attempt scores 0.
func (s ScoreResult) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// ReviewOption is one option row in the review projection.
type ReviewOption struct {
	Text            string `json:"text"`
	IsCorrectOption bool   `json:"is_correct_option"`
	WasSelected     bool   `json:"was_selected"`
}

// ReviewQuestion is the per-question review verdict.
type ReviewQuestion struct {
	Position    int            `json:"position"`
	QuestionID  string         `json:"question_id"`
	Text        string         `json:"text"`
	Options     []ReviewOption `json:"options"`
	Answered    bool           `json:"answered"`
	Correct     bool           `json:"correct"`
	Explanation string         `json:"explanation,omitempty"`
}
