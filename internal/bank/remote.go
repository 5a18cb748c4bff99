package bank

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quizdrill/quizdrill/internal/quiz"
)

// Wire shapes of the remote bank API.
type remoteOption struct {
	Text       string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

type remoteQuestion struct {
	ID          string         `json:"id"`
	Text        string         `json:"question_text"`
	Explanation string         `json:"explanation"`
	OrderIndex  int            `json:"order_index"`
	Options     []remoteOption `json:"options"`
}

type remoteBank struct {
	Slug      string           `json:"slug"`
	Title     string           `json:"title"`
	Questions []remoteQuestion `json:"questions"`
}

type remoteList struct {
	Banks []Info `json:"banks"`
}

// RemoteStore fetches banks from an upstream content service and normalizes
// them to the canonical Bank shape. Remote options arrive in arbitrary order
// and are sorted by order index before the materializer ever sees them.
type RemoteStore struct {
	client *resty.Client
}

func NewRemoteStore(baseURL string, timeout time.Duration) *RemoteStore {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &RemoteStore{client: c}
}

func (s *RemoteStore) ListBanks(ctx context.Context) ([]Info, error) {
	var body remoteList
	resp, err := s.client.R().SetContext(ctx).SetResult(&body).Get("/banks")
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list banks: upstream status %d", resp.StatusCode())
	}
	return body.Banks, nil
}

func (s *RemoteStore) GetBank(ctx context.Context, slug string) (quiz.Bank, error) {
	var body remoteBank
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&body).
		SetPathParam("slug", slug).
		Get("/banks/{slug}")
	if err != nil {
		return quiz.Bank{}, fmt.Errorf("get bank %s: %w", slug, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return quiz.Bank{}, quiz.ErrBankNotFound
	default:
		return quiz.Bank{}, fmt.Errorf("get bank %s: upstream status %d", slug, resp.StatusCode())
	}
	return normalizeBank(body)
}

func (s *RemoteStore) AllQuestions(ctx context.Context) ([]quiz.Question, error) {
	infos, err := s.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	var out []quiz.Question
	for _, in := range infos {
		if !in.Active {
			continue
		}
		b, err := s.GetBank(ctx, in.Slug)
		if err != nil {
			return nil, err
		}
		out = append(out, b.Questions...)
	}
	return out, nil
}

func normalizeBank(rb remoteBank) (quiz.Bank, error) {
	if len(rb.Questions) == 0 {
		return quiz.Bank{}, quiz.ErrBankEmpty
	}
	sort.SliceStable(rb.Questions, func(i, j int) bool {
		return rb.Questions[i].OrderIndex < rb.Questions[j].OrderIndex
	})

	b := quiz.Bank{Slug: rb.Slug, Title: rb.Title}
	for _, rq := range rb.Questions {
		sort.SliceStable(rq.Options, func(i, j int) bool {
			return rq.Options[i].OrderIndex < rq.Options[j].OrderIndex
		})
		q := quiz.Question{
			ID:           rq.ID,
			Text:         rq.Text,
			Explanation:  rq.Explanation,
			CorrectIndex: -1,
		}
		for i, opt := range rq.Options {
			q.Options = append(q.Options, opt.Text)
			if opt.IsCorrect {
				q.CorrectIndex = i
			}
		}
		if q.CorrectIndex < 0 {
			return quiz.Bank{}, fmt.Errorf("remote question %s has no correct option", rq.ID)
		}
		b.Questions = append(b.Questions, q)
	}
	return b, nil
}
