package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

// Settings are the per-user quiz preferences. They are resolved once when a
// session starts and injected into it; a session never observes changes
// made mid-attempt.
type Settings struct {
	RevealMode       string `json:"reveal_mode"`
	TimerEnabled     bool   `json:"timer_enabled"`
	TimerMinutes     int    `json:"timer_minutes"`
	ShuffleQuestions bool   `json:"shuffle_questions"`
}

// Defaults mirror the device-local fallback used before a user record
// exists.
func Defaults() Settings {
	return Settings{
		RevealMode:       quiz.RevealEnd,
		TimerEnabled:     false,
		TimerMinutes:     30,
		ShuffleQuestions: true,
	}
}

// SessionConfig maps the stored preferences onto a session configuration.
func (s Settings) SessionConfig(requireAnswerToAdvance bool) quiz.Config {
	return quiz.Config{
		RevealMode:             s.RevealMode,
		TimerEnabled:           s.TimerEnabled,
		TimerMinutes:           s.TimerMinutes,
		RequireAnswerToAdvance: requireAnswerToAdvance,
	}
}

// SQLStore reads and writes user_settings rows.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Get returns the user's stored settings, or the defaults when the user has
// no record yet (or no user is given).
func (s *SQLStore) Get(ctx context.Context, userID string) (Settings, error) {
	if userID == "" {
		return Defaults(), nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT reveal_mode, timer_enabled, timer_minutes, shuffle_questions
		FROM user_settings WHERE user_id=$1`, userID)
	var st Settings
	err := row.Scan(&st.RevealMode, &st.TimerEnabled, &st.TimerMinutes, &st.ShuffleQuestions)
	if errors.Is(err, sql.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return st, nil
}

// Put upserts the user's settings.
func (s *SQLStore) Put(ctx context.Context, userID string, st Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, reveal_mode, timer_enabled, timer_minutes, shuffle_questions, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id) DO UPDATE SET
			reveal_mode=EXCLUDED.reveal_mode,
			timer_enabled=EXCLUDED.timer_enabled,
			timer_minutes=EXCLUDED.timer_minutes,
			shuffle_questions=EXCLUDED.shuffle_questions,
			updated_at=EXCLUDED.updated_at`,
		userID, st.RevealMode, st.TimerEnabled, st.TimerMinutes, st.ShuffleQuestions, time.Now().Unix())
	return err
}
