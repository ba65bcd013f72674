package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ritankar/legalaid/internal/model/user"
	"github.com/ritankar/legalaid/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "legalaid.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LoadProfile(ctx); !errors.Is(err, store.ErrNoProfile) {
		t.Fatalf("LoadProfile on empty store = %v, want ErrNoProfile", err)
	}

	p := user.Profile{Email: "asha@example.com", FirstName: "Asha", LastName: "Rao"}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got != p {
		t.Errorf("loaded %+v, want %+v", got, p)
	}
}

func TestSaveProfileKeepsSingleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := user.Profile{Email: "asha@example.com", FirstName: "Asha", LastName: "Rao"}
	second := user.Profile{Email: "ravi@example.com", FirstName: "Ravi", LastName: "Iyer"}
	if err := s.SaveProfile(ctx, first); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.SaveProfile(ctx, second); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got != second {
		t.Errorf("loaded %+v, want the later login %+v", got, second)
	}
}

func TestClearProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveProfile(ctx, user.Profile{Email: "asha@example.com", FirstName: "Asha"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.ClearProfile(ctx); err != nil {
		t.Fatalf("ClearProfile: %v", err)
	}
	if _, err := s.LoadProfile(ctx); !errors.Is(err, store.ErrNoProfile) {
		t.Errorf("LoadProfile after clear = %v, want ErrNoProfile", err)
	}
}

func TestSummariesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []store.SessionSummary{
		{ID: "s1", Timestamp: "2026-08-28T09:00:00", Preview: "Rental dispute"},
		{ID: "s2", Timestamp: "2026-08-29T10:00:00", Preview: "What is bail?"},
	}
	if err := s.ReplaceSummaries(ctx, "asha@example.com", in); err != nil {
		t.Fatalf("ReplaceSummaries: %v", err)
	}

	got, err := s.Summaries(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s2" || got[1].ID != "s1" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestReplaceSummariesIsWholesale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceSummaries(ctx, "asha@example.com", []store.SessionSummary{
		{ID: "s1", Timestamp: "2026-08-28T09:00:00", Preview: "old"},
	}); err != nil {
		t.Fatalf("ReplaceSummaries: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "asha@example.com", []store.SessionSummary{
		{ID: "s2", Timestamp: "2026-08-29T10:00:00", Preview: "new"},
	}); err != nil {
		t.Fatalf("ReplaceSummaries: %v", err)
	}

	got, err := s.Summaries(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("stale entries survived replace: %+v", got)
	}
}

func TestSummariesScopedByAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceSummaries(ctx, "asha@example.com", []store.SessionSummary{
		{ID: "s1", Timestamp: "2026-08-28T09:00:00", Preview: "asha"},
	}); err != nil {
		t.Fatalf("ReplaceSummaries: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "ravi@example.com", []store.SessionSummary{
		{ID: "s9", Timestamp: "2026-08-29T10:00:00", Preview: "ravi"},
	}); err != nil {
		t.Fatalf("ReplaceSummaries: %v", err)
	}

	got, err := s.Summaries(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("summaries leaked across accounts: %+v", got)
	}
}
