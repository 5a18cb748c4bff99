package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// quizError translates domain errors into HTTP statuses. Caller mistakes
// (bad position, wrong state) come back as usage errors; missing or empty
// data is a 404 the client can recover from by going home.
func quizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrBankNotFound):
		http.Error(w, "bank not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrBankEmpty):
		http.Error(w, "bank has no questions", http.StatusNotFound)
	case errors.Is(err, quiz.ErrBadSnapshot):
		http.Error(w, "snapshot unreadable", http.StatusNotFound)
	case errors.Is(err, quiz.ErrAnswerRequired):
		http.Error(w, "answer required before advancing", http.StatusConflict)
	case quiz.IsUsageError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
