package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	authmw "github.com/quizdrill/quizdrill/internal/auth/middleware"
	"github.com/quizdrill/quizdrill/internal/bank"
	"github.com/quizdrill/quizdrill/internal/eventlog"
	"github.com/quizdrill/quizdrill/internal/history"

	"github.com/go-chi/chi/v5"
)

// GET /history?bank=...&limit=...
// Listing is always scoped to the caller; there is no view-all surface.
func ListHistoryHandler(store *history.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		list, err := store.ListAttempts(r.Context(), history.ListOpts{
			UserID:   userID,
			BankSlug: strings.TrimSpace(r.URL.Query().Get("bank")),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 10),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /history/stats
func HistoryStatsHandler(store *history.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.UserStats(r.Context(), authmw.SubjectFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// GET /history/{attemptID}/review
// Rebuilds the review from persisted verdicts against the current bank.
// Questions retired from the bank since the attempt are skipped.
func HistoryReviewHandler(store *history.SQLStore, banks bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		attemptID := chi.URLParam(r, "attemptID")

		rec, err := store.GetAttempt(r.Context(), userID, attemptID)
		if err != nil {
			if err == history.ErrAttemptNotFound {
				http.Error(w, "attempt not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		answers, err := store.GetAnswers(r.Context(), userID, attemptID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		b, err := bank.Resolve(r.Context(), banks, rec.BankSlug)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history.ReviewFromRecords(b, answers))
	}
}

// DELETE /history/{attemptID}
func DeleteAttemptHandler(store *history.SQLStore, events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		id := chi.URLParam(r, "attemptID")
		if err := store.DeleteAttempts(r.Context(), userID, []string{id}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		logDeletion(r, events, userID, 1)
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /history — {ids: [...]} for a bulk delete, {all: true} to clear
// everything. Answer rows go first; attempts have no cascade.
func DeleteHistoryHandler(store *history.SQLStore, events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
			All bool     `json:"all"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		switch {
		case req.All:
			if err := store.DeleteAllAttempts(r.Context(), userID); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			logDeletion(r, events, userID, -1)
		case len(req.IDs) > 0:
			if err := store.DeleteAttempts(r.Context(), userID, req.IDs); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			logDeletion(r, events, userID, len(req.IDs))
		default:
			http.Error(w, "ids or all required", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func logDeletion(r *http.Request, events *eventlog.Repo, userID string, count int) {
	if events == nil {
		return
	}
	payload, _ := json.Marshal(map[string]int{"count": count})
	err := events.Append(r.Context(), eventlog.Event{
		Type:     eventlog.TypeAttemptsDeleted,
		Key:      userID,
		DataJSON: string(payload),
	})
	if err != nil {
		log.Printf("eventlog append: %v", err)
	}
}
