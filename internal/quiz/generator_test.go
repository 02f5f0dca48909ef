package quiz

import (
	"math/rand"
	"strings"
	"testing"

	"histomap/internal/domain"
)

func testEvent(id int, title string, category domain.Category) domain.ClassifiedEvent {
	return domain.ClassifiedEvent{ID: id, Title: title, Category: category}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"1942" + domain.TitleSeparator + "Rafle du Vel d'Hiv", "Rafle du Vel d'Hiv"},
		{"XVIe" + domain.TitleSeparator + "Château de Montsoreau", "Château de Montsoreau"},
		{"Sans préfixe", "Sans préfixe"},
	}
	for _, tc := range cases {
		if got := CleanTitle(tc.in); got != tc.want {
			t.Fatalf("CleanTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrepareQuestionOptions(t *testing.T) {
	t.Parallel()

	event := domain.ClassifiedEvent{
		ID:          1,
		Title:       "1562" + domain.TitleSeparator + "Massacre de Wassy",
		Description: "Le massacre de Wassy fit de nombreuses victimes en 1562.",
		Category:    domain.CategoryShock,
	}
	pool := []domain.ClassifiedEvent{
		event,
		testEvent(2, "Bataille de Jarnac", domain.CategoryStruggle),
		testEvent(3, "Siège de La Rochelle", domain.CategoryStruggle),
		testEvent(4, "Tuerie de Mérindol", domain.CategoryShock),
		testEvent(5, "Sac de Lyon", domain.CategoryShock),
	}

	g := NewGenerator(rand.New(rand.NewSource(1)))
	question := g.PrepareQuestion(event, pool, "hard")

	if len(question.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(question.Options))
	}

	seen := map[string]int{}
	for _, option := range question.Options {
		seen[option]++
	}
	if len(seen) != 4 {
		t.Fatalf("options contain duplicates: %v", question.Options)
	}
	if seen["Massacre de Wassy"] != 1 {
		t.Fatalf("options must contain the clean title exactly once: %v", question.Options)
	}
	if question.CorrectTitle != "Massacre de Wassy" {
		t.Fatalf("unexpected correct title: %s", question.CorrectTitle)
	}
}

func TestPrepareQuestionEmptyPoolUsesFallbacks(t *testing.T) {
	t.Parallel()

	event := domain.ClassifiedEvent{
		ID:          1,
		Title:       "Massacre de Wassy",
		Description: "Un massacre resté célèbre.",
		Category:    domain.CategoryShock,
	}

	g := NewGenerator(rand.New(rand.NewSource(7)))
	question := g.PrepareQuestion(event, nil, "easy")

	if len(question.Options) != 4 {
		t.Fatalf("expected 4 options even with an empty pool, got %d", len(question.Options))
	}
	seen := map[string]struct{}{}
	for _, option := range question.Options {
		if _, dup := seen[option]; dup {
			t.Fatalf("duplicate option %q", option)
		}
		seen[option] = struct{}{}
	}
}

func TestMaskDescriptionHidesTitle(t *testing.T) {
	t.Parallel()

	masked := MaskDescription(
		"La rafle du Vel d'Hiv eut lieu en 1942. Cette rafle marqua Paris.",
		"Rafle du Vel d'Hiv",
	)
	if strings.Contains(strings.ToLower(masked), "rafle") {
		t.Fatalf("title word leaked through masking: %q", masked)
	}
	if !strings.Contains(masked, FullMaskToken) {
		t.Fatalf("expected the full-phrase mask in %q", masked)
	}
	if !strings.Contains(masked, "1942") {
		t.Fatalf("non-title content must survive masking: %q", masked)
	}
}

func TestMaskDescriptionIdempotent(t *testing.T) {
	t.Parallel()

	title := "Massacre de Wassy"
	once := MaskDescription("Le massacre de Wassy choqua le royaume. Wassy en resta marquée.", title)
	twice := MaskDescription(once, title)
	if once != twice {
		t.Fatalf("masking is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestActionHintsLexiconOrder(t *testing.T) {
	t.Parallel()

	hints := ActionHints("La ville fut bombardée puis ses habitants furent massacrés.")
	if len(hints) != 2 {
		t.Fatalf("expected 2 hints, got %v", hints)
	}
	// "massacrer" precedes "bombarder" in the lexicon even though the text
	// mentions the bombing first.
	if hints[0] != "massacrer" || hints[1] != "bombarder" {
		t.Fatalf("hints must keep lexicon order, got %v", hints)
	}
}

func TestActionHintsCap(t *testing.T) {
	t.Parallel()

	hints := ActionHints("Massacrés, déportés, fusillés, exécutés puis la ville fut bombardée.")
	if len(hints) != 3 {
		t.Fatalf("expected at most 3 hints, got %v", hints)
	}
}
