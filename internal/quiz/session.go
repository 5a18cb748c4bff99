package quiz

import (
	"encoding/json"
	"errors"
)

// State of one attempt session.
type State string

const (
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateCancelled  State = "cancelled"
)

// RevealMode controls when the correct answer becomes visible.
const (
	RevealInstant = "instant"
	RevealEnd     = "end"
)

// ErrAnswerRequired gates forward navigation while the current position is
// unanswered (when the policy is enabled). It is a policy refusal, not a
// programming error.
var ErrAnswerRequired = errors.New("current question must be answered before advancing")

// Config is the per-attempt configuration, read once at session start.
type Config struct {
	RevealMode             string `json:"reveal_mode"`
	TimerEnabled           bool   `json:"timer_enabled"`
	TimerMinutes           int    `json:"timer_minutes"`
	RequireAnswerToAdvance bool   `json:"require_answer_to_advance"`
}

// Result is the outcome of a submitted attempt.
type Result struct {
	BankSlug       string  `json:"bank_slug"`
	Title          string  `json:"title"`
	Correct        int     `json:"correct"`
	Total          int     `json:"total"`
	Percentage     float64 `json:"percentage"`
	ElapsedSeconds *int    `json:"elapsed_seconds,omitempty"`
}

// Submission is handed to the persistence sink exactly once per attempt.
type Submission struct {
	View    AttemptView
	Answers AnswerMap
	Result  Result
	Config  Config
}

// AttemptSink receives the submission for remote persistence. Failures are
// the sink's problem: the session never waits on or observes them.
type AttemptSink interface {
	SubmitAttempt(sub Submission)
}

// Feedback is the instant-reveal verdict for one answered position.
type Feedback struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`
}

// Session drives a single attempt from start to submission or cancellation.
// It is not safe for concurrent use; callers serialize access (the registry
// holds one mutex per session).
type Session struct {
	view    AttemptView
	answers AnswerMap
	flags   FlagSet
	cfg     Config

	state       State
	pos         int
	exitPending bool

	allottedSec  int
	remainingSec int

	sink   AttemptSink
	result *Result
}

// NewSession materializes an attempt view from bank and starts the session.
// cfg is captured once; later settings changes are never observed.
func NewSession(bank Bank, requestedCount int, cfg Config, sink AttemptSink) (*Session, error) {
	view, err := Materialize(bank, requestedCount)
	if err != nil {
		return nil, err
	}
	s := &Session{
		view:    view,
		answers: AnswerMap{},
		flags:   FlagSet{},
		cfg:     cfg,
		state:   StateInProgress,
		sink:    sink,
	}
	if cfg.TimerEnabled && cfg.TimerMinutes > 0 {
		s.allottedSec = cfg.TimerMinutes * 60
		s.remainingSec = s.allottedSec
	}
	return s, nil
}

func (s *Session) State() State       { return s.state }
func (s *Session) View() AttemptView  { return s.view }
func (s *Session) Config() Config     { return s.cfg }
func (s *Session) Position() int      { return s.pos }
func (s *Session) RemainingSec() int  { return s.remainingSec }
func (s *Session) ExitPending() bool  { return s.exitPending }

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() AnswerMap {
	out := make(AnswerMap, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Flagged returns the flagged positions in ascending order.
func (s *Session) Flagged() []int {
	out := make([]int, 0, len(s.flags))
	for p := range s.flags {
		out = append(out, p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Session) requireInProgress(op string) error {
	if s.state != StateInProgress {
		return usageErr(op, "session is %s", s.state)
	}
	return nil
}

// SelectAnswer records the selected option for a position. Re-selecting
// overwrites the prior choice.
func (s *Session) SelectAnswer(position, optionIndex int) error {
	if err := s.requireInProgress("SelectAnswer"); err != nil {
		return err
	}
	if position < 0 || position >= len(s.view.Questions) {
		return usageErr("SelectAnswer", "position %d out of range [0,%d)", position, len(s.view.Questions))
	}
	if n := len(s.view.Questions[position].Options); optionIndex < 0 || optionIndex >= n {
		return usageErr("SelectAnswer", "option %d out of range [0,%d)", optionIndex, n)
	}
	s.answers[position] = optionIndex
	return nil
}

// Next advances to the following question. The last position has no next;
// the only forward action there is Submit. When the require-answer policy
// is on, an unanswered current question blocks advancing.
func (s *Session) Next() error {
	if err := s.requireInProgress("Next"); err != nil {
		return err
	}
	if s.pos >= len(s.view.Questions)-1 {
		return usageErr("Next", "already at last question")
	}
	if s.cfg.RequireAnswerToAdvance {
		if _, ok := s.answers[s.pos]; !ok {
			return ErrAnswerRequired
		}
	}
	s.pos++
	return nil
}

// Prev moves back one question.
func (s *Session) Prev() error {
	if err := s.requireInProgress("Prev"); err != nil {
		return err
	}
	if s.pos == 0 {
		return usageErr("Prev", "already at first question")
	}
	s.pos--
	return nil
}

// GoTo jumps directly to a position. Free jumps bypass the answer-to-advance
// gate; they back the flag-navigation shortcuts.
func (s *Session) GoTo(position int) error {
	if err := s.requireInProgress("GoTo"); err != nil {
		return err
	}
	if position < 0 || position >= len(s.view.Questions) {
		return usageErr("GoTo", "position %d out of range [0,%d)", position, len(s.view.Questions))
	}
	s.pos = position
	return nil
}

// ToggleFlag adds or removes a revisit mark on a position.
func (s *Session) ToggleFlag(position int) error {
	if err := s.requireInProgress("ToggleFlag"); err != nil {
		return err
	}
	if position < 0 || position >= len(s.view.Questions) {
		return usageErr("ToggleFlag", "position %d out of range [0,%d)", position, len(s.view.Questions))
	}
	if _, ok := s.flags[position]; ok {
		delete(s.flags, position)
	} else {
		s.flags[position] = struct{}{}
	}
	return nil
}

// Tick advances the countdown by one second. Reaching zero submits the
// attempt. Unlike the other mutators, Tick is safe to call in any state so
// a late timer callback cannot blow up a finished session.
func (s *Session) Tick() {
	if s.state != StateInProgress || !s.cfg.TimerEnabled || s.remainingSec <= 0 {
		return
	}
	s.remainingSec--
	if s.remainingSec == 0 {
		_, _ = s.Submit()
	}
}

// Submit scores the attempt, forwards it to the sink (once), and moves to
// Submitted. Calling Submit on an already submitted session returns the
// same result without persisting again.
func (s *Session) Submit() (Result, error) {
	if s.state == StateSubmitted {
		return *s.result, nil
	}
	if err := s.requireInProgress("Submit"); err != nil {
		return Result{}, err
	}

	sc := Score(s.view, s.answers)
	res := Result{
		BankSlug:   s.view.BankSlug,
		Title:      s.view.Title,
		Correct:    sc.Correct,
		Total:      sc.Total,
		Percentage: sc.Percentage(),
	}
	if s.cfg.TimerEnabled && s.allottedSec > 0 {
		elapsed := s.allottedSec - s.remainingSec
		res.ElapsedSeconds = &elapsed
	}

	s.result = &res
	s.state = StateSubmitted

	if s.sink != nil {
		s.sink.SubmitAttempt(Submission{
			View:    s.view,
			Answers: s.Answers(),
			Result:  res,
			Config:  s.cfg,
		})
	}
	return res, nil
}

// Result returns the submitted result, or false before submission.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// RequestExit opens the exit confirmation sub-state.
func (s *Session) RequestExit() error {
	if err := s.requireInProgress("RequestExit"); err != nil {
		return err
	}
	s.exitPending = true
	return nil
}

// CancelExit returns to the attempt unchanged.
func (s *Session) CancelExit() error {
	if err := s.requireInProgress("CancelExit"); err != nil {
		return err
	}
	s.exitPending = false
	return nil
}

// ConfirmExit discards all in-progress state and moves to Cancelled.
// Nothing is persisted.
func (s *Session) ConfirmExit() error {
	if err := s.requireInProgress("ConfirmExit"); err != nil {
		return err
	}
	s.answers = AnswerMap{}
	s.flags = FlagSet{}
	s.exitPending = false
	s.state = StateCancelled
	return nil
}

// AnswerFeedback returns the instant verdict for an answered position.
// Only available when the session runs in instant reveal mode.
func (s *Session) AnswerFeedback(position int) (Feedback, error) {
	if s.cfg.RevealMode != RevealInstant {
		return Feedback{}, usageErr("AnswerFeedback", "reveal mode is %q", s.cfg.RevealMode)
	}
	if position < 0 || position >= len(s.view.Questions) {
		return Feedback{}, usageErr("AnswerFeedback", "position %d out of range [0,%d)", position, len(s.view.Questions))
	}
	sel, ok := s.answers[position]
	if !ok {
		return Feedback{}, usageErr("AnswerFeedback", "position %d not answered", position)
	}
	q := s.view.Questions[position]
	return Feedback{
		Correct:      sel == q.CorrectIndex,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}, nil
}

// Snapshot is the serializable handoff between the test, result and review
// views: the attempt view, the answers, and the display title.
type Snapshot struct {
	Title   string      `json:"title"`
	View    AttemptView `json:"shuffled"`
	Answers AnswerMap   `json:"answers"`
}

// Snapshot captures the state needed to rebuild result and review without
// recomputation.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{Title: s.view.Title, View: s.view, Answers: s.Answers()}
}

// EncodeSnapshot marshals a snapshot for transient handoff storage.
func EncodeSnapshot(sn Snapshot) ([]byte, error) {
	return json.Marshal(sn)
}

// DecodeSnapshot parses and validates a handoff snapshot. Structurally
// invalid data is reported as ErrBadSnapshot so callers can treat it like
// missing data and redirect.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var sn Snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return Snapshot{}, ErrBadSnapshot
	}
	if len(sn.View.Questions) == 0 {
		return Snapshot{}, ErrBadSnapshot
	}
	for _, q := range sn.View.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return Snapshot{}, ErrBadSnapshot
		}
	}
	for pos, sel := range sn.Answers {
		if pos < 0 || pos >= len(sn.View.Questions) {
			return Snapshot{}, ErrBadSnapshot
		}
		if sel < 0 || sel >= len(sn.View.Questions[pos].Options) {
			return Snapshot{}, ErrBadSnapshot
		}
	}
	return sn, nil
}
