// Package classify assigns a significance category and score to candidate
// articles through an ordered rule pipeline.
package classify

import (
	"strings"

	"histomap/internal/domain"
	"histomap/internal/taxonomy"
)

// categoryOrder fixes the tie-break: earlier categories win only on a
// strictly higher weighted score, so repeated calls are deterministic.
var categoryOrder = []domain.Category{
	domain.CategoryShock,
	domain.CategoryCivilization,
	domain.CategoryStruggle,
	domain.CategoryOrigins,
}

// Classify computes weighted keyword-hit counts for the four categories over
// lowercased text. All-zero defaults to civilization with score 0, the
// catch-all bucket.
func Classify(text string) (domain.Category, int) {
	best := domain.CategoryCivilization
	bestScore := 0

	for _, category := range categoryOrder {
		weight := taxonomy.CategoryWeights[category]
		score := 0
		for _, keyword := range taxonomy.CategoryKeywords[category] {
			score += strings.Count(text, keyword) * weight
		}
		if category == domain.CategoryShock {
			for _, stem := range taxonomy.ShockVerbStems {
				score += strings.Count(text, stem) * taxonomy.ShockVerbWeight
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	return best, bestScore
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func countHits(text string, words []string) int {
	total := 0
	for _, w := range words {
		total += strings.Count(text, w)
	}
	return total
}

func actionVerbCount(text string) int {
	total := 0
	for _, verb := range taxonomy.ActionVerbs {
		total += strings.Count(text, verb.Stem)
	}
	return total
}
