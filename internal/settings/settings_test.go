package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/quizdrill/quizdrill/internal/db"
	"github.com/quizdrill/quizdrill/internal/quiz"
)

var memSeq int

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	memSeq++
	h, err := db.Open(context.Background(), db.DriverSQLite,
		fmt.Sprintf("file:settingstest%d?mode=memory&cache=shared", memSeq))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	if _, err := h.Exec(`INSERT INTO users (id, username, password_hash, created_at)
		VALUES ('u1','tester','x',0)`); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewSQLStore(h)
}

func TestGetReturnsDefaultsWithoutRecord(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("got %+v, want defaults", got)
	}

	anon, err := s.Get(context.Background(), "")
	if err != nil || anon != Defaults() {
		t.Fatalf("anonymous get: %+v, %v", anon, err)
	}
}

func TestPutThenGet(t *testing.T) {
	s := openTestStore(t)
	want := Settings{RevealMode: quiz.RevealInstant, TimerEnabled: true, TimerMinutes: 45, ShuffleQuestions: false}
	if err := s.Put(context.Background(), "u1", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Upsert overwrites.
	want.TimerMinutes = 15
	if err := s.Put(context.Background(), "u1", want); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, err = s.Get(context.Background(), "u1")
	if err != nil || got.TimerMinutes != 15 {
		t.Fatalf("after upsert: %+v, %v", got, err)
	}
}

func TestSessionConfigCarriesPolicy(t *testing.T) {
	st := Settings{RevealMode: quiz.RevealEnd, TimerEnabled: true, TimerMinutes: 30}
	cfg := st.SessionConfig(true)
	if !cfg.RequireAnswerToAdvance || !cfg.TimerEnabled || cfg.TimerMinutes != 30 {
		t.Fatalf("got %+v", cfg)
	}
}
