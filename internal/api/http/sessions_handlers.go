package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/quizdrill/quizdrill/internal/auth/middleware"
	"github.com/quizdrill/quizdrill/internal/bank"
	"github.com/quizdrill/quizdrill/internal/eventlog"
	"github.com/quizdrill/quizdrill/internal/history"
	"github.com/quizdrill/quizdrill/internal/quiz"
	"github.com/quizdrill/quizdrill/internal/settings"

	"github.com/go-chi/chi/v5"
)

// SessionAPI wires session handlers to their collaborators. One instance
// serves all users; per-user state lives in the registry.
type SessionAPI struct {
	Registry *quiz.Registry
	Banks    bank.Store
	Settings *settings.SQLStore
	History  *history.SQLStore
	Events   *eventlog.Repo

	RequireAnswerToAdvance bool
	MixedCount             int
}

// sessionView is the state payload returned by most session endpoints.
// The answer key is never included; instant-mode feedback comes through
// the answer endpoint only.
type sessionView struct {
	ID           string `json:"id"`
	State        string `json:"state"`
	BankSlug     string `json:"bank_slug"`
	Title        string `json:"title"`
	Position     int    `json:"position"`
	Total        int    `json:"total"`
	Answered     int    `json:"answered"`
	Flagged      []int  `json:"flagged"`
	ExitPending  bool   `json:"exit_pending"`
	RevealMode   string `json:"reveal_mode"`
	RemainingSec *int   `json:"remaining_seconds,omitempty"`

	Question struct {
		Text     string   `json:"text"`
		Options  []string `json:"options"`
		Selected *int     `json:"selected,omitempty"`
		Flagged  bool     `json:"flagged"`
	} `json:"question"`
}

func viewOf(id string, s *quiz.Session) sessionView {
	v := sessionView{
		ID:          id,
		State:       string(s.State()),
		BankSlug:    s.View().BankSlug,
		Title:       s.View().Title,
		Position:    s.Position(),
		Total:       len(s.View().Questions),
		Answered:    len(s.Answers()),
		Flagged:     s.Flagged(),
		ExitPending: s.ExitPending(),
		RevealMode:  s.Config().RevealMode,
	}
	if s.Config().TimerEnabled {
		rem := s.RemainingSec()
		v.RemainingSec = &rem
	}
	q := s.View().Questions[s.Position()]
	v.Question.Text = q.Text
	v.Question.Options = q.Options
	if sel, ok := s.Answers()[s.Position()]; ok {
		v.Question.Selected = &sel
	}
	for _, p := range v.Flagged {
		if p == v.Position {
			v.Question.Flagged = true
		}
	}
	return v
}

// handle fetches the caller's session. Another user's session ID reads as
// not found rather than forbidden.
func (a *SessionAPI) handle(r *http.Request) (*quiz.Handle, error) {
	h, err := a.Registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	if h.UserID != authmw.SubjectFromContext(r.Context()) {
		return nil, quiz.ErrSessionNotFound
	}
	return h, nil
}

// POST /sessions {bank_slug, question_count}
func (a *SessionAPI) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BankSlug      string `json:"bank_slug"`
		QuestionCount int    `json:"question_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.BankSlug == "" {
		http.Error(w, "bank_slug required", http.StatusBadRequest)
		return
	}
	userID := authmw.SubjectFromContext(r.Context())

	st, err := a.Settings.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cfg := st.SessionConfig(a.RequireAnswerToAdvance)

	b, err := bank.Resolve(r.Context(), a.Banks, req.BankSlug)
	if err != nil {
		quizError(w, err)
		return
	}
	count := req.QuestionCount
	if count <= 0 {
		count = len(b.Questions)
		if req.BankSlug == bank.MixedSlug {
			count = a.MixedCount
		}
	}

	sink := history.NewRecorder(a.History, a.Events, userID)
	h, err := a.Registry.Create(userID, b, count, cfg, sink)
	if err != nil {
		quizError(w, err)
		return
	}
	var out sessionView
	_ = h.Do(func(s *quiz.Session) error {
		out = viewOf(h.ID, s)
		return nil
	})
	writeJSON(w, http.StatusCreated, out)
}

// GET /sessions/{sessionID}
func (a *SessionAPI) Get(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(s *quiz.Session) error { return nil })
}

// withSession runs fn under the session lock and writes the refreshed view
// on success, the mapped error otherwise.
func (a *SessionAPI) withSession(w http.ResponseWriter, r *http.Request, fn func(*quiz.Session) error) {
	h, err := a.handle(r)
	if err != nil {
		quizError(w, err)
		return
	}
	var out sessionView
	err = h.Do(func(s *quiz.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		out = viewOf(h.ID, s)
		return nil
	})
	if err != nil {
		quizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /sessions/{sessionID}/answer {position, option_index}
// In instant reveal mode the response carries the verdict for the answered
// position alongside the refreshed view.
func (a *SessionAPI) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position    int `json:"position"`
		OptionIndex int `json:"option_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	h, err := a.handle(r)
	if err != nil {
		quizError(w, err)
		return
	}
	var out struct {
		sessionView
		Feedback *quiz.Feedback `json:"feedback,omitempty"`
	}
	err = h.Do(func(s *quiz.Session) error {
		if err := s.SelectAnswer(req.Position, req.OptionIndex); err != nil {
			return err
		}
		if s.Config().RevealMode == quiz.RevealInstant {
			fb, err := s.AnswerFeedback(req.Position)
			if err != nil {
				return err
			}
			out.Feedback = &fb
		}
		out.sessionView = viewOf(h.ID, s)
		return nil
	})
	if err != nil {
		quizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /sessions/{sessionID}/next
func (a *SessionAPI) Next(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(s *quiz.Session) error { return s.Next() })
}

// POST /sessions/{sessionID}/prev
func (a *SessionAPI) Prev(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(s *quiz.Session) error { return s.Prev() })
}

// POST /sessions/{sessionID}/goto {position}
func (a *SessionAPI) GoTo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	a.withSession(w, r, func(s *quiz.Session) error { return s.GoTo(req.Position) })
}

// POST /sessions/{sessionID}/flag {position}
func (a *SessionAPI) Flag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	a.withSession(w, r, func(s *quiz.Session) error { return s.ToggleFlag(req.Position) })
}

// POST /sessions/{sessionID}/exit
func (a *SessionAPI) Exit(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(s *quiz.Session) error { return s.RequestExit() })
}

// POST /sessions/{sessionID}/exit/cancel
func (a *SessionAPI) ExitCancel(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(s *quiz.Session) error { return s.CancelExit() })
}

// POST /sessions/{sessionID}/exit/confirm — discards the attempt and frees
// the registry slot. Nothing is persisted.
func (a *SessionAPI) ExitConfirm(w http.ResponseWriter, r *http.Request) {
	h, err := a.handle(r)
	if err != nil {
		quizError(w, err)
		return
	}
	if err := h.Do(func(s *quiz.Session) error { return s.ConfirmExit() }); err != nil {
		quizError(w, err)
		return
	}
	a.Registry.Delete(h.ID)
	w.WriteHeader(http.StatusNoContent)
}

// POST /sessions/{sessionID}/submit
func (a *SessionAPI) Submit(w http.ResponseWriter, r *http.Request) {
	h, err := a.handle(r)
	if err != nil {
		quizError(w, err)
		return
	}
	var res quiz.Result
	err = h.Do(func(s *quiz.Session) error {
		var err error
		res, err = s.Submit()
		return err
	})
	if err != nil {
		quizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /sessions/{sessionID}/result
func (a *SessionAPI) Result(w http.ResponseWriter, r *http.Request) {
	h, err := a.handle(r)
	if err != nil {
		quizError(w, err)
		return
	}
	var res quiz.Result
	var ok bool
	_ = h.Do(func(s *quiz.Session) error {
		res, ok = s.Result()
		return nil
	})
	if !ok {
		http.Error(w, "session not submitted", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /sessions/{sessionID}/review — full projection with answer keys,
// only once the attempt is submitted.
func (a *SessionAPI) Review(w http.ResponseWriter, r *http.Request) {
	h, err := a.handle(r)
	if err != nil {
		quizError(w, err)
		return
	}
	var review []quiz.ReviewQuestion
	var submitted bool
	_ = h.Do(func(s *quiz.Session) error {
		if s.State() != quiz.StateSubmitted {
			return nil
		}
		submitted = true
		review = quiz.ProjectReview(s.View(), s.Answers())
		return nil
	})
	if !submitted {
		http.Error(w, "session not submitted", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
