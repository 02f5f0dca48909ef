// Package quiz derives questions from classified events and scores answers.
package quiz

import (
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"histomap/internal/domain"
	"histomap/internal/taxonomy"
)

const (
	// Mask tokens contain no letters, so masking is idempotent.
	FullMaskToken = "________"
	WordMaskToken = "____"

	maxHints       = 3
	decoyCount     = 3
	significantMin = 4
)

var wordExpr = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopWords = func() map[string]bool {
	m := make(map[string]bool, len(taxonomy.StopWords))
	for _, w := range taxonomy.StopWords {
		m[w] = true
	}
	return m
}()

// Generator builds quiz questions; the injected rng keeps tests repeatable.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator builds a generator; a nil rng falls back to a time seed.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// PrepareQuestion assembles one round: masked description, hints, and four
// shuffled options built from the pool plus generic fallbacks.
func (g *Generator) PrepareQuestion(event domain.ClassifiedEvent, pool []domain.ClassifiedEvent, difficulty string) domain.QuizQuestion {
	correct := CleanTitle(event.Title)
	options := append([]string{correct}, g.decoys(event, pool, correct)...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.QuizQuestion{
		EventID:           event.ID,
		CorrectTitle:      correct,
		MaskedDescription: MaskDescription(event.Description, correct),
		Hints: domain.QuizHints{
			Category: event.Category,
			Year:     event.Year,
			Actions:  ActionHints(event.Description),
		},
		Options:    options,
		Difficulty: difficulty,
	}
}

// CleanTitle strips the year or century prefix added by discovery's display
// formatting.
func CleanTitle(title string) string {
	if i := strings.Index(title, domain.TitleSeparator); i >= 0 {
		return title[i+len(domain.TitleSeparator):]
	}
	return title
}

// MaskDescription suppresses the title from the description in two passes:
// the full phrase first, then every significant title word independently, so
// partial quotation or reordering cannot leak the answer.
func MaskDescription(description, title string) string {
	masked := description
	if phrase := strings.TrimSpace(title); phrase != "" {
		expr := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
		masked = expr.ReplaceAllString(masked, FullMaskToken)
	}

	significant := significantWords(title)
	if len(significant) == 0 {
		return masked
	}
	return wordExpr.ReplaceAllStringFunc(masked, func(token string) string {
		if significant[strings.ToLower(token)] {
			return WordMaskToken
		}
		return token
	})
}

// ActionHints collects up to three infinitive hints for verb stems found in
// the description, in lexicon order rather than textual order.
func ActionHints(description string) []string {
	lower := strings.ToLower(description)
	seen := map[string]struct{}{}
	var hints []string
	for _, verb := range taxonomy.ActionVerbs {
		if len(hints) == maxHints {
			break
		}
		if !strings.Contains(lower, verb.Stem) {
			continue
		}
		if _, ok := seen[verb.Infinitive]; ok {
			continue
		}
		seen[verb.Infinitive] = struct{}{}
		hints = append(hints, verb.Infinitive)
	}
	return hints
}

func significantWords(title string) map[string]bool {
	words := map[string]bool{}
	for _, token := range wordExpr.FindAllString(title, -1) {
		if utf8.RuneCountInString(token) < significantMin {
			continue
		}
		lower := strings.ToLower(token)
		if stopWords[lower] {
			continue
		}
		words[lower] = true
	}
	return words
}

// decoys prefers same-category pool entries, falls back to cross-category
// ones, then pads with generic fallbacks; a title is never used twice.
func (g *Generator) decoys(event domain.ClassifiedEvent, pool []domain.ClassifiedEvent, correct string) []string {
	var same, other []string
	for _, p := range pool {
		if p.ID == event.ID {
			continue
		}
		title := CleanTitle(p.Title)
		if strings.EqualFold(title, correct) {
			continue
		}
		if p.Category == event.Category {
			same = append(same, title)
		} else {
			other = append(other, title)
		}
	}
	g.rng.Shuffle(len(same), func(i, j int) { same[i], same[j] = same[j], same[i] })
	g.rng.Shuffle(len(other), func(i, j int) { other[i], other[j] = other[j], other[i] })

	used := map[string]struct{}{strings.ToLower(correct): {}}
	out := make([]string, 0, decoyCount)
	take := func(titles []string) {
		for _, title := range titles {
			if len(out) == decoyCount {
				return
			}
			key := strings.ToLower(title)
			if _, ok := used[key]; ok {
				continue
			}
			used[key] = struct{}{}
			out = append(out, title)
		}
	}
	take(same)
	take(other)
	take(taxonomy.FallbackTitles)
	return out
}
