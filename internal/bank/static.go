package bank

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

//go:embed banks.json
var embeddedBanks []byte

// StaticStore serves the banks bundled into the binary. It backs offline
// deployments and the test fixtures; the SQL store replaces it whenever a
// database is configured.
type StaticStore struct {
	banks map[string]quiz.Bank
	order []string
}

// NewStaticStore loads the embedded bank file.
func NewStaticStore() (*StaticStore, error) {
	return newStaticStore(embeddedBanks)
}

func newStaticStore(data []byte) (*StaticStore, error) {
	var banks []quiz.Bank
	if err := json.Unmarshal(data, &banks); err != nil {
		return nil, fmt.Errorf("parse embedded banks: %w", err)
	}
	s := &StaticStore{banks: map[string]quiz.Bank{}}
	for _, b := range banks {
		for _, q := range b.Questions {
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				return nil, fmt.Errorf("bank %s question %s: correct index %d out of range", b.Slug, q.ID, q.CorrectIndex)
			}
		}
		s.banks[b.Slug] = b
		s.order = append(s.order, b.Slug)
	}
	return s, nil
}

func (s *StaticStore) ListBanks(ctx context.Context) ([]Info, error) {
	out := make([]Info, 0, len(s.order))
	for _, slug := range s.order {
		b := s.banks[slug]
		out = append(out, Info{
			Slug:           b.Slug,
			Title:          b.Title,
			TotalQuestions: len(b.Questions),
			Active:         true,
		})
	}
	return out, nil
}

func (s *StaticStore) GetBank(ctx context.Context, slug string) (quiz.Bank, error) {
	b, ok := s.banks[slug]
	if !ok {
		return quiz.Bank{}, quiz.ErrBankNotFound
	}
	if len(b.Questions) == 0 {
		return quiz.Bank{}, quiz.ErrBankEmpty
	}
	return b, nil
}

func (s *StaticStore) AllQuestions(ctx context.Context) ([]quiz.Question, error) {
	var out []quiz.Question
	for _, slug := range s.order {
		out = append(out, s.banks[slug].Questions...)
	}
	return out, nil
}
