package history

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/quizdrill/quizdrill/internal/eventlog"
	"github.com/quizdrill/quizdrill/internal/quiz"
)

// Recorder turns a submitted session into persisted history. It implements
// quiz.AttemptSink: the save runs on its own goroutine, failures are logged
// and never reach the session, and local scoring is untouched either way.
type Recorder struct {
	store  *SQLStore
	events *eventlog.Repo
	userID string

	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder builds a sink persisting attempts for userID. events may be
// nil when no event log is configured.
func NewRecorder(store *SQLStore, events *eventlog.Repo, userID string) *Recorder {
	return &Recorder{
		store:   store,
		events:  events,
		userID:  userID,
		timeout: 10 * time.Second,
	}
}

// SubmitAttempt persists the attempt and its answers asynchronously.
func (r *Recorder) SubmitAttempt(sub quiz.Submission) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.record(sub)
	}()
}

// Wait blocks until in-flight saves finish. Tests and shutdown use it.
func (r *Recorder) Wait() { r.wg.Wait() }

func (r *Recorder) record(sub quiz.Submission) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	settingsJSON, _ := json.Marshal(sub.Config)
	rec := AttemptRecord{
		UserID:         r.userID,
		BankSlug:       sub.Result.BankSlug,
		Score:          sub.Result.Correct,
		TotalQuestions: sub.Result.Total,
		Percentage:     sub.Result.Percentage,
		TimeTakenSec:   sub.Result.ElapsedSeconds,
		SettingsJSON:   string(settingsJSON),
	}
	attemptID, err := r.store.SaveAttempt(ctx, rec)
	if err != nil {
		log.Printf("history: save attempt for user %s: %v", r.userID, err)
		return
	}

	// Walk positions in attempt order so answers persist in the order the
	// questions were presented. Selections are translated back to canonical
	// option indexes before storage.
	answers := make([]AnswerRecord, 0, len(sub.Answers))
	for pos, q := range sub.View.Questions {
		sel, ok := sub.Answers[pos]
		if !ok {
			continue
		}
		answers = append(answers, AnswerRecord{
			QuestionID:     q.QuestionID,
			SelectedOption: q.CanonicalOption(sel),
			IsCorrect:      sel == q.CorrectIndex,
		})
	}
	if err := r.store.SaveAnswers(ctx, attemptID, answers); err != nil {
		log.Printf("history: save answers for attempt %s: %v", attemptID, err)
		return
	}

	if r.events != nil {
		data, _ := json.Marshal(map[string]any{
			"attempt_id": attemptID,
			"user_id":    r.userID,
			"bank_slug":  rec.BankSlug,
			"score":      rec.Score,
			"total":      rec.TotalQuestions,
		})
		if err := r.events.Append(ctx, eventlog.Event{
			Type:     eventlog.TypeAttemptSubmitted,
			Key:      attemptID,
			DataJSON: string(data),
		}); err != nil {
			log.Printf("history: event log append for attempt %s: %v", attemptID, err)
		}
	}
}
