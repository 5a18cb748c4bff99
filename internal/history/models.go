package history

import "time"

// AttemptRecord is one persisted quiz run for an authenticated user.
type AttemptRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	BankSlug       string    `json:"bank_slug"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	TimeTakenSec   *int      `json:"time_taken,omitempty"`
	SettingsJSON   string    `json:"settings,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// AnswerRecord is one persisted per-question verdict, keyed by attempt.
type AnswerRecord struct {
	ID             string `json:"id"`
	AttemptID      string `json:"attempt_id"`
	QuestionID     string `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// ListOpts filter the attempt listing.
type ListOpts struct {
	UserID   string
	BankSlug string
	Limit    int
}

// Stats summarizes a user's attempt history.
type Stats struct {
	TotalAttempts int     `json:"total_attempts"`
	AvgPercentage float64 `json:"avg_percentage"`
	BestPercentage float64 `json:"best_percentage"`
}
