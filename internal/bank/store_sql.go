package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

// SQLStore reads banks from the quizzes/questions/options tables. The same
// statements run on sqlite and postgres.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) ListBanks(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.slug, q.title, q.description, q.is_active,
		       (SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id)
		FROM quizzes q
		WHERE q.is_active = TRUE
		ORDER BY q.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var in Info
		if err := rows.Scan(&in.Slug, &in.Title, &in.Description, &in.Active, &in.TotalQuestions); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetBank(ctx context.Context, slug string) (quiz.Bank, error) {
	var quizID, title string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM quizzes WHERE slug=$1 AND is_active=TRUE`, slug).
		Scan(&quizID, &title)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Bank{}, quiz.ErrBankNotFound
	}
	if err != nil {
		return quiz.Bank{}, err
	}

	questions, err := s.loadQuestions(ctx, `WHERE qs.quiz_id = $1`, quizID)
	if err != nil {
		return quiz.Bank{}, err
	}
	if len(questions) == 0 {
		return quiz.Bank{}, quiz.ErrBankEmpty
	}
	return quiz.Bank{Slug: slug, Title: title, Questions: questions}, nil
}

func (s *SQLStore) AllQuestions(ctx context.Context) ([]quiz.Question, error) {
	return s.loadQuestions(ctx,
		`JOIN quizzes z ON z.id = qs.quiz_id WHERE z.is_active = TRUE`)
}

// loadQuestions fetches questions plus their options in canonical order and
// folds the per-option correct flag into a single correct index.
func (s *SQLStore) loadQuestions(ctx context.Context, where string, args ...any) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qs.id, qs.question_text, qs.explanation
		FROM questions qs `+where+`
		ORDER BY qs.order_index`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []quiz.Question
	for rows.Next() {
		var q quiz.Question
		var expl sql.NullString
		if err := rows.Scan(&q.ID, &q.Text, &expl); err != nil {
			return nil, err
		}
		q.Explanation = expl.String
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range qs {
		if err := s.loadOptions(ctx, &qs[i]); err != nil {
			return nil, err
		}
	}
	return qs, nil
}

func (s *SQLStore) loadOptions(ctx context.Context, q *quiz.Question) error {
	// Options come back sorted by order_index so every load observes the
	// same canonical order regardless of insert order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT option_text, is_correct
		FROM options
		WHERE question_id = $1
		ORDER BY order_index`, q.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	q.CorrectIndex = -1
	for rows.Next() {
		var text string
		var correct bool
		if err := rows.Scan(&text, &correct); err != nil {
			return err
		}
		if correct {
			q.CorrectIndex = len(q.Options)
		}
		q.Options = append(q.Options, text)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if q.CorrectIndex < 0 {
		return fmt.Errorf("question %s has no correct option", q.ID)
	}
	return nil
}
