package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

func TestStaticStoreLoadsEmbeddedBanks(t *testing.T) {
	s, err := NewStaticStore()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	infos, err := s.ListBanks(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) == 0 {
		t.Fatalf("no embedded banks")
	}

	b, err := s.GetBank(context.Background(), infos[0].Slug)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(b.Questions) != infos[0].TotalQuestions {
		t.Fatalf("question count %d, info says %d", len(b.Questions), infos[0].TotalQuestions)
	}
	for _, q := range b.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			t.Fatalf("question %s: correct index %d out of range", q.ID, q.CorrectIndex)
		}
	}
}

func TestStaticStoreUnknownSlug(t *testing.T) {
	s, err := NewStaticStore()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.GetBank(context.Background(), "no-such-bank"); err != quiz.ErrBankNotFound {
		t.Fatalf("got %v, want ErrBankNotFound", err)
	}
}

func TestStaticStoreRejectsBadCorrectIndex(t *testing.T) {
	raw := `[{"slug":"x","title":"X","questions":[{"id":"q1","text":"t","options":["a","b"],"correct_index":7}]}]`
	if _, err := newStaticStore([]byte(raw)); err == nil {
		t.Fatalf("expected error for out-of-range correct index")
	}
}

func TestMixedAggregatesAllBanks(t *testing.T) {
	s, err := NewStaticStore()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	all, err := s.AllQuestions(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}

	mixed, err := Mixed(context.Background(), s)
	if err != nil {
		t.Fatalf("mixed: %v", err)
	}
	if mixed.Slug != MixedSlug {
		t.Fatalf("slug %q, want %q", mixed.Slug, MixedSlug)
	}
	if len(mixed.Questions) != len(all) {
		t.Fatalf("mixed has %d questions, want %d", len(mixed.Questions), len(all))
	}
}

func TestResolveRoutesMixedSlug(t *testing.T) {
	s, err := NewStaticStore()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Resolve(context.Background(), s, MixedSlug)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Slug != MixedSlug {
		t.Fatalf("slug %q, want %q", b.Slug, MixedSlug)
	}
}

func TestRemoteStoreNormalizesOptionOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/banks/customs-law" {
			http.NotFound(w, r)
			return
		}
		// Options deliberately out of order; order_index defines canon.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(remoteBank{
			Slug:  "customs-law",
			Title: "Customs Law",
			Questions: []remoteQuestion{
				{
					ID: "q1", Text: "pick", OrderIndex: 1,
					Options: []remoteOption{
						{Text: "third", IsCorrect: false, OrderIndex: 2},
						{Text: "first", IsCorrect: true, OrderIndex: 0},
						{Text: "second", IsCorrect: false, OrderIndex: 1},
					},
				},
			},
		})
	}))
	defer srv.Close()

	rs := NewRemoteStore(srv.URL, 2*time.Second)
	b, err := rs.GetBank(context.Background(), "customs-law")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	q := b.Questions[0]
	if q.Options[0] != "first" || q.Options[1] != "second" || q.Options[2] != "third" {
		t.Fatalf("options not in canonical order: %v", q.Options)
	}
	if q.CorrectIndex != 0 {
		t.Fatalf("correct index %d, want 0", q.CorrectIndex)
	}
}

func TestRemoteStoreNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	rs := NewRemoteStore(srv.URL, 2*time.Second)
	if _, err := rs.GetBank(context.Background(), "missing"); err != quiz.ErrBankNotFound {
		t.Fatalf("got %v, want ErrBankNotFound", err)
	}
}
