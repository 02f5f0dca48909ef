package classify

import (
	"math"
	"strings"

	"histomap/internal/domain"
	"histomap/internal/taxonomy"
	"histomap/internal/temporal"
)

// MemorialScoreFloor is the minimum score a memorial-boosted event carries;
// scores at or above it skip the notoriety multiplier.
const MemorialScoreFloor = 1000

// Verdict is the outcome of scoring one candidate. Rejected verdicts carry a
// human-readable reason and are excluded from results.
type Verdict struct {
	Category domain.Category
	Score    int
	Rejected bool
	Reason   string
}

type outcome int

const (
	ruleContinue outcome = iota
	ruleReject
	ruleAccept
)

type scoring struct {
	title         string
	extract       string
	text          string
	langCount     int
	category      domain.Category
	categoryScore int
	score         int
	sportsPenalty int
	reason        string
}

// rules are evaluated in order; the first decisive rule wins.
var rules = []func(*scoring) outcome{
	memorialBoost,
	institutionalNoise,
	sportsBlacklist,
	geographyOnly,
	baseScoring,
	noDateNoKeyword,
	minorPrehistory,
}

// Score runs the rule pipeline over a (title, extract, language-count)
// triple. The returned score is pre-notoriety; apply FinalScore afterwards.
func Score(title, extract string, langCount int) Verdict {
	s := &scoring{
		title:     strings.ToLower(title),
		extract:   strings.ToLower(extract),
		langCount: langCount,
	}
	s.text = s.title + " " + s.extract
	s.category, s.categoryScore = Classify(s.text)

	for _, rule := range rules {
		switch rule(s) {
		case ruleReject:
			return Verdict{Category: s.category, Rejected: true, Reason: s.reason}
		case ruleAccept:
			return Verdict{Category: s.category, Score: s.score}
		}
	}

	return Verdict{Category: s.category, Score: s.score}
}

// memorialBoost forces maximum significance for atrocity-related sites,
// overriding every other rule.
func memorialBoost(s *scoring) outcome {
	if !containsAny(s.text, taxonomy.MemorialKeywords) {
		return ruleContinue
	}
	s.category = domain.CategoryShock
	s.score = (100 + countHits(s.text, taxonomy.ImpactWords)*15) * 10
	return ruleAccept
}

// institutionalNoise rejects articles that are really about church
// architecture: many religious-building words, no action, no conflict.
func institutionalNoise(s *scoring) outcome {
	if countHits(s.text, taxonomy.ReligiousBuildingStems) <= 3 {
		return ruleContinue
	}
	if actionVerbCount(s.text) > 0 {
		return ruleContinue
	}
	if containsAny(s.text, taxonomy.CategoryKeywords[domain.CategoryShock]) ||
		containsAny(s.text, taxonomy.CategoryKeywords[domain.CategoryStruggle]) {
		return ruleContinue
	}
	s.reason = "religious building article without historical action"
	return ruleReject
}

// sportsBlacklist drops obscure sports venues outright and penalizes notable
// ones. Memorial sites never reach this rule: memorialBoost accepts first.
func sportsBlacklist(s *scoring) outcome {
	if !containsAny(s.text, taxonomy.SportsKeywords) {
		return ruleContinue
	}
	if s.langCount < 20 {
		s.reason = "obscure sports venue"
		return ruleReject
	}
	s.sportsPenalty = 50
	return ruleContinue
}

// geographyOnly rejects pure administrative-geography stubs.
func geographyOnly(s *scoring) outcome {
	if s.categoryScore == 0 && containsAny(s.text, taxonomy.GeoAdminKeywords) {
		s.reason = "administrative geography stub"
		return ruleReject
	}
	return ruleContinue
}

func baseScoring(s *scoring) outcome {
	s.score = 10 + s.categoryScore
	if titleHasCategoryKeyword(s.title) {
		// Titles are a far stronger significance signal than body mentions.
		s.score += 500
	}
	s.score -= s.sportsPenalty
	if containsAny(s.text, taxonomy.GeoAdminKeywords) {
		s.score -= 10
	}
	s.score += countHits(s.text, taxonomy.ImpactWords) * 15
	if actionVerbCount(s.text) > 0 {
		s.score += 10
	}
	if len(s.extract) > 200 {
		s.score += 5
	}
	if len(s.extract) > 500 {
		s.score += 5
	}
	return ruleContinue
}

func noDateNoKeyword(s *scoring) outcome {
	if s.categoryScore > 0 {
		return ruleContinue
	}
	if _, ok := temporal.ExtractYear(s.text); ok {
		return ruleContinue
	}
	s.reason = "no extractable date and no category keyword"
	return ruleReject
}

// minorPrehistory dampens archaeology stubs so they do not crowd out major
// events.
func minorPrehistory(s *scoring) outcome {
	if s.category == domain.CategoryOrigins && s.langCount < 30 {
		s.score /= 5
	}
	return ruleContinue
}

func titleHasCategoryKeyword(title string) bool {
	for _, keywords := range taxonomy.CategoryKeywords {
		if containsAny(title, keywords) {
			return true
		}
	}
	return false
}

// FinalScore applies the notoriety multiplier to a base score. Memorial-level
// scores skip it: their significance is already established.
func FinalScore(base, langCount int) int {
	if base >= MemorialScoreFloor {
		return base
	}
	multiplier := 1 + math.Log2(math.Max(1, float64(langCount)))*0.3
	return int(math.Round(float64(base) * multiplier))
}

// KeepOrigins is the second-pass filter: origins events under 15 language
// editions are dropped unless they were explicitly searched for.
func KeepOrigins(category domain.Category, langCount int, incontournable bool) bool {
	if category != domain.CategoryOrigins {
		return true
	}
	return incontournable || langCount >= 15
}
