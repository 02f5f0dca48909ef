package storage

import (
	"context"
	"path/filepath"
	"testing"

	"histomap/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteEventRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	year := 1562
	withYear := domain.ClassifiedEvent{
		ID:               101,
		Title:            "1562" + domain.TitleSeparator + "Massacre de Wassy",
		Description:      "Un massacre de protestants.",
		Latitude:         48.49,
		Longitude:        4.95,
		Year:             &year,
		Category:         domain.CategoryShock,
		Score:            1584,
		NotorietyScore:   40,
		IsIncontournable: false,
	}
	withoutYear := domain.ClassifiedEvent{
		ID:          102,
		Title:       "Grotte de Cussac",
		Description: "Une grotte ornée.",
		Latitude:    44.8,
		Longitude:   0.6,
		Category:    domain.CategoryOrigins,
		Score:       106,
	}

	if err := store.SaveEvent(ctx, withYear); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}
	if err := store.SaveEvent(ctx, withoutYear); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}
	if err := store.SaveRejection(ctx, 301, "obscure sports venue"); err != nil {
		t.Fatalf("SaveRejection: %v", err)
	}

	events, rejected, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if len(rejected) != 1 || rejected[0] != 301 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}

	byID := map[int]domain.ClassifiedEvent{}
	for _, event := range events {
		byID[event.ID] = event
	}
	got := byID[101]
	if got.Title != withYear.Title || got.Category != domain.CategoryShock || got.Score != 1584 {
		t.Fatalf("event fields lost in round trip: %+v", got)
	}
	if got.Year == nil || *got.Year != 1562 {
		t.Fatalf("year lost in round trip: %+v", got.Year)
	}
	if byID[102].Year != nil {
		t.Fatalf("absent year must stay nil, got %v", *byID[102].Year)
	}
}

func TestSQLiteSaveEventUpsert(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	event := domain.ClassifiedEvent{ID: 7, Title: "v1", Category: domain.CategoryCivilization}
	if err := store.SaveEvent(ctx, event); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}
	event.Title = "v2"
	event.Score = 42
	if err := store.SaveEvent(ctx, event); err != nil {
		t.Fatalf("SaveEvent (second): %v", err)
	}

	events, _, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("upsert must not duplicate, got %d rows", len(events))
	}
	if events[0].Title != "v2" || events[0].Score != 42 {
		t.Fatalf("upsert must keep the latest values: %+v", events[0])
	}
}

func TestSQLiteStats(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	answers := []domain.QuizResult{
		{Correct: true, Points: 100},
		{Correct: true, Points: 40},
		{Correct: false, Points: 0},
	}
	for i, result := range answers {
		if err := store.SaveAnswer(ctx, 42, 100+i, result); err != nil {
			t.Fatalf("SaveAnswer: %v", err)
		}
	}
	// Another player's rounds must not leak into the stats.
	if err := store.SaveAnswer(ctx, 99, 500, domain.QuizResult{Correct: true, Points: 100}); err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}

	stats, err := store.Stats(ctx, 42)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Answered != 3 || stats.Correct != 2 || stats.Points != 140 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	empty, err := store.Stats(ctx, 7)
	if err != nil {
		t.Fatalf("Stats (empty): %v", err)
	}
	if empty.Answered != 0 || empty.Points != 0 {
		t.Fatalf("expected zero stats for an unknown player: %+v", empty)
	}
}
