// Package temporal extracts year information from free French text: explicit
// years, BCE notation and century notation in Roman or Arabic numerals.
package temporal

import (
	"regexp"
	"strconv"

	"histomap/internal/taxonomy"
)

const (
	minYear = 100
	maxYear = 2025
)

var (
	bceYearExpr = regexp.MustCompile(`(\d{1,4})\s*av(?:ant)?\.?\s*J\.?\s*-?\s*C\.?`)
	yearExpr    = regexp.MustCompile(`\b(\d{3,4})\b`)
	centuryExpr = regexp.MustCompile(`\b([IVX]{1,5}|\d{1,2})\s*(?:er|ère|ème|eme|è|e)?\s*siècles?(\s*av(?:ant)?\.?\s*J\.?\s*-?\s*C\.?)?`)
)

// ExtractYear resolves a year from text, first match wins: explicit BCE year
// (negated), then the earliest explicit year in [100, 2025], then a century
// midpoint. The boolean reports whether anything matched.
func ExtractYear(text string) (int, bool) {
	if m := bceYearExpr.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return -n, true
		}
	}

	if year, ok := earliestYear(text); ok {
		return year, true
	}

	if m := centuryExpr.FindStringSubmatch(text); m != nil {
		if century := parseCentury(m[1]); century != 0 {
			midpoint := century*100 - 50
			if m[2] != "" {
				midpoint = -midpoint
			}
			return midpoint, true
		}
	}

	return 0, false
}

// CenturyLabel renders a display label ("XVIe", "XVIe av. J.-C.") only when
// the text carries century notation and no explicit year; "" otherwise.
func CenturyLabel(text string) string {
	if bceYearExpr.MatchString(text) {
		return ""
	}
	if _, ok := earliestYear(text); ok {
		return ""
	}

	m := centuryExpr.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	century := parseCentury(m[1])
	if century == 0 {
		return ""
	}

	label := taxonomy.RomanCentury(century)
	if century == 1 {
		label += "er"
	} else {
		label += "e"
	}
	if m[2] != "" {
		label += " av. J.-C."
	}
	return label
}

// earliestYear returns the minimum in-range explicit year, biasing toward the
// event's own date rather than a later reference.
func earliestYear(text string) (int, bool) {
	best := 0
	for _, m := range yearExpr.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < minYear || n > maxYear {
			continue
		}
		if best == 0 || n < best {
			best = n
		}
	}
	return best, best != 0
}

func parseCentury(token string) int {
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(taxonomy.CenturyNumerals) {
			return n
		}
		return 0
	}
	for i, numeral := range taxonomy.CenturyNumerals {
		if numeral == token {
			return i + 1
		}
	}
	return 0
}
