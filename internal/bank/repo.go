package bank

import (
	"context"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

// MixedSlug is the constant identifier of the ad-hoc bank assembled from
// every active bank's questions.
const MixedSlug = "random-mix"

// DefaultMixedCount matches the classic "random 60" exam drill.
const DefaultMixedCount = 60

// Info is bank metadata for listing, without question payloads.
type Info struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	TotalQuestions int    `json:"total_questions"`
	Active         bool   `json:"active"`
}

// Store supplies canonical question banks. Implementations must return
// questions and options in their stable canonical order; shuffling is the
// materializer's job, not the source's.
type Store interface {
	ListBanks(ctx context.Context) ([]Info, error)
	GetBank(ctx context.Context, slug string) (quiz.Bank, error)
	// AllQuestions aggregates the questions of every active bank, feeding
	// the random-mix pseudo-bank.
	AllQuestions(ctx context.Context) ([]quiz.Question, error)
}

// Mixed assembles the random-mix pseudo-bank from every active bank.
func Mixed(ctx context.Context, s Store) (quiz.Bank, error) {
	qs, err := s.AllQuestions(ctx)
	if err != nil {
		return quiz.Bank{}, err
	}
	if len(qs) == 0 {
		return quiz.Bank{}, quiz.ErrBankEmpty
	}
	return quiz.Bank{
		Slug:      MixedSlug,
		Title:     "Random mix",
		Questions: qs,
	}, nil
}

// Resolve fetches a bank by slug, routing the mixed slug to the aggregate.
func Resolve(ctx context.Context, s Store, slug string) (quiz.Bank, error) {
	if slug == MixedSlug {
		return Mixed(ctx, s)
	}
	return s.GetBank(ctx, slug)
}
