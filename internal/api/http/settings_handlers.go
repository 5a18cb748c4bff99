package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/quizdrill/quizdrill/internal/auth/middleware"
	"github.com/quizdrill/quizdrill/internal/quiz"
	"github.com/quizdrill/quizdrill/internal/settings"
)

// GET /settings — defaults are returned for users who never saved any.
func GetSettingsHandler(store *settings.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Get(r.Context(), authmw.SubjectFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// PUT /settings — changes apply to the next session start, never to one
// already in progress.
func PutSettingsHandler(store *settings.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var st settings.Settings
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if st.RevealMode != quiz.RevealInstant && st.RevealMode != quiz.RevealEnd {
			http.Error(w, "reveal_mode must be instant or end", http.StatusBadRequest)
			return
		}
		if st.TimerMinutes < 1 || st.TimerMinutes > 480 {
			http.Error(w, "timer_minutes out of range", http.StatusBadRequest)
			return
		}
		if err := store.Put(r.Context(), authmw.SubjectFromContext(r.Context()), st); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
