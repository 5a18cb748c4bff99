package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrAttemptNotFound is returned for unknown attempt IDs.
var ErrAttemptNotFound = errors.New("attempt not found")

// SQLStore persists attempts and their per-question answers. Statements use
// $n placeholders and run unchanged on sqlite and postgres.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// SaveAttempt inserts an attempt record and returns its generated ID.
func (s *SQLStore) SaveAttempt(ctx context.Context, rec AttemptRecord) (string, error) {
	id := uuid.NewString()
	completed := rec.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	settings := rec.SettingsJSON
	if settings == "" {
		settings = "{}"
	}
	var timeTaken any
	if rec.TimeTakenSec != nil {
		timeTaken = *rec.TimeTakenSec
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_attempts (id, user_id, bank_slug, score, total_questions, percentage, time_taken, settings_json, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, rec.UserID, rec.BankSlug, rec.Score, rec.TotalQuestions, rec.Percentage, timeTaken, settings, completed.Unix())
	if err != nil {
		return "", fmt.Errorf("save attempt: %w", err)
	}
	return id, nil
}

// SaveAnswers inserts the per-question verdicts of one attempt.
func (s *SQLStore) SaveAnswers(ctx context.Context, attemptID string, answers []AnswerRecord) error {
	for _, a := range answers {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO user_answers (id, attempt_id, question_id, selected_option, is_correct)
			VALUES ($1,$2,$3,$4,$5)`,
			uuid.NewString(), attemptID, a.QuestionID, a.SelectedOption, a.IsCorrect)
		if err != nil {
			return fmt.Errorf("save answer for question %s: %w", a.QuestionID, err)
		}
	}
	return nil
}

// GetAttempt fetches one attempt record scoped to its owner.
func (s *SQLStore) GetAttempt(ctx context.Context, userID, attemptID string) (AttemptRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, bank_slug, score, total_questions, percentage, time_taken, settings_json, completed_at
		FROM quiz_attempts WHERE id=$1 AND user_id=$2`, attemptID, userID)
	return scanAttempt(row)
}

// ListAttempts returns a user's attempts, newest first.
func (s *SQLStore) ListAttempts(ctx context.Context, opts ListOpts) ([]AttemptRecord, error) {
	q := `
		SELECT id, user_id, bank_slug, score, total_questions, percentage, time_taken, settings_json, completed_at
		FROM quiz_attempts WHERE user_id=$1`
	args := []any{opts.UserID}
	if opts.BankSlug != "" {
		q += ` AND bank_slug=$2`
		args = append(args, opts.BankSlug)
	}
	q += ` ORDER BY completed_at DESC`
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	q += fmt.Sprintf(` LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		rec, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetAnswers returns the persisted answers of one attempt, scoped to its
// owner.
func (s *SQLStore) GetAnswers(ctx context.Context, userID, attemptID string) ([]AnswerRecord, error) {
	if _, err := s.GetAttempt(ctx, userID, attemptID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attempt_id, question_id, selected_option, is_correct
		FROM user_answers WHERE attempt_id=$1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.SelectedOption, &a.IsCorrect); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAttempts removes the given attempts and their answers. Answer rows
// go first: user_answers references quiz_attempts without a cascade.
func (s *SQLStore) DeleteAttempts(ctx context.Context, userID string, attemptIDs []string) error {
	if len(attemptIDs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	in, args := placeholders(attemptIDs, 2)
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM user_answers WHERE attempt_id IN (
			SELECT id FROM quiz_attempts WHERE user_id=$1 AND id IN (`+in+`))`,
		append([]any{userID}, args...)...); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM quiz_attempts WHERE user_id=$1 AND id IN (`+in+`)`,
		append([]any{userID}, args...)...); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	return tx.Commit()
}

// DeleteAllAttempts removes every attempt of a user with its answers.
func (s *SQLStore) DeleteAllAttempts(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM user_answers WHERE attempt_id IN (
			SELECT id FROM quiz_attempts WHERE user_id=$1)`, userID); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM quiz_attempts WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	return tx.Commit()
}

// UserStats aggregates a user's attempt history.
func (s *SQLStore) UserStats(ctx context.Context, userID string) (Stats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(percentage), 0), COALESCE(MAX(percentage), 0)
		FROM quiz_attempts WHERE user_id=$1`, userID)
	var st Stats
	if err := row.Scan(&st.TotalAttempts, &st.AvgPercentage, &st.BestPercentage); err != nil {
		return Stats{}, err
	}
	return st, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanAttempt(row rowScanner) (AttemptRecord, error) {
	var rec AttemptRecord
	var timeTaken sql.NullInt64
	var completed int64
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BankSlug, &rec.Score, &rec.TotalQuestions,
		&rec.Percentage, &timeTaken, &rec.SettingsJSON, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return AttemptRecord{}, ErrAttemptNotFound
	}
	if err != nil {
		return AttemptRecord{}, err
	}
	if timeTaken.Valid {
		v := int(timeTaken.Int64)
		rec.TimeTakenSec = &v
	}
	rec.CompletedAt = time.Unix(completed, 0)
	return rec, nil
}

// placeholders renders "$start,$start+1,..." for an IN clause.
func placeholders(ids []string, start int) (string, []any) {
	parts := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(parts, ","), args
}
