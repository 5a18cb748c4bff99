package http

import (
	"net/http"

	"github.com/quizdrill/quizdrill/internal/bank"

	"github.com/go-chi/chi/v5"
)

// GET /banks
// The random-mix pseudo-bank is appended to the listing so clients can
// offer it like any other bank.
func ListBanksHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := store.ListBanks(r.Context())
		if err != nil {
			quizError(w, err)
			return
		}
		total := 0
		for _, in := range infos {
			total += in.TotalQuestions
		}
		infos = append(infos, bank.Info{
			Slug:           bank.MixedSlug,
			Title:          "Random Mix",
			Description:    "Random questions drawn from every bank",
			TotalQuestions: total,
			Active:         total > 0,
		})
		writeJSON(w, http.StatusOK, infos)
	}
}

// GET /banks/{slug} — metadata only, no question payloads and no answer keys.
func GetBankHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		b, err := bank.Resolve(r.Context(), store, slug)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bank.Info{
			Slug:           b.Slug,
			Title:          b.Title,
			TotalQuestions: len(b.Questions),
			Active:         len(b.Questions) > 0,
		})
	}
}
