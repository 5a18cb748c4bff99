package quiz

import (
	"testing"
	"time"
)

func TestRegistryCreateGetDelete(t *testing.T) {
	r := NewRegistry(time.Hour)
	h, err := r.Create("u1", bankFixture(3), 3, Config{}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID == "" || h.UserID != "u1" {
		t.Fatalf("bad handle identity: %+v", h)
	}

	got, err := r.Get(h.ID)
	if err != nil || got != h {
		t.Fatalf("get: %v", err)
	}

	r.Delete(h.ID)
	if _, err := r.Get(h.ID); err != ErrSessionNotFound {
		t.Fatalf("after delete: got %v, want ErrSessionNotFound", err)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(time.Hour)
	if _, err := r.Get("nope"); err != ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestRegistryDoSerializesAccess(t *testing.T) {
	r := NewRegistry(time.Hour)
	h, err := r.Create("u1", bankFixture(3), 3, Config{}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h.Do(func(s *Session) error { return s.SelectAnswer(0, 1) }); err != nil {
		t.Fatalf("do: %v", err)
	}
	var got int
	_ = h.Do(func(s *Session) error {
		got = s.Answers()[0]
		return nil
	})
	if got != 1 {
		t.Fatalf("answer = %d, want 1", got)
	}
}

func TestRegistrySweepRemovesTerminalSessions(t *testing.T) {
	r := NewRegistry(time.Hour)
	live, _ := r.Create("u1", bankFixture(3), 3, Config{}, nil)
	done, _ := r.Create("u1", bankFixture(3), 3, Config{}, nil)
	_ = done.Do(func(s *Session) error {
		_, err := s.Submit()
		return err
	})

	if removed := r.Sweep(0); removed != 1 {
		t.Fatalf("swept %d sessions, want 1", removed)
	}
	if _, err := r.Get(done.ID); err != ErrSessionNotFound {
		t.Fatalf("terminal session survived sweep")
	}
	if _, err := r.Get(live.ID); err != nil {
		t.Fatalf("live session swept: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
}
