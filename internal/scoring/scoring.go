// Package scoring turns free-form grading text into a numeric score.
package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spboyer/mentorqa/internal/models"
)

// Tier identifies which pattern family produced a score.
type Tier int

const (
	TierNone Tier = iota
	// TierExact: the whole trimmed text is a single integer.
	TierExact
	// TierToken: the first standalone token between 0 and 100.
	TierToken
	// TierLegacy: "Score: N/100", "Score: N" or "N/100".
	TierLegacy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierToken:
		return "token"
	case TierLegacy:
		return "legacy"
	default:
		return "none"
	}
}

var (
	exactPattern = regexp.MustCompile(`^(\d+)$`)
	tokenPattern = regexp.MustCompile(`\b(\d{1,2}|100)\b`)

	legacyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Score:\s*(\d+)/100`),
		regexp.MustCompile(`(?i)Score:\s*(\d+)`),
		regexp.MustCompile(`(?i)(\d+)/100`),
	}
)

// Extract returns the score found in text, or models.NoScore when none of
// the patterns yields an integer in [0, 100].
//
// The token tier accepts any standalone number, so text such as
// "answered within 24 hours" scores 24.
func Extract(text string) models.Score {
	s, _ := ExtractTier(text)
	return s
}

// ExtractTier is Extract that also reports the matching tier.
func ExtractTier(text string) (models.Score, Tier) {
	trimmed := strings.TrimSpace(text)

	if m := exactPattern.FindStringSubmatch(trimmed); m != nil {
		if s := parse(m[1]); s.Valid {
			return s, TierExact
		}
	}

	if m := tokenPattern.FindStringSubmatch(text); m != nil {
		if s := parse(m[1]); s.Valid {
			return s, TierToken
		}
	}

	for _, p := range legacyPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if s := parse(m[1]); s.Valid {
				return s, TierLegacy
			}
		}
	}

	return models.NoScore, TierNone
}

func parse(digits string) models.Score {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return models.NoScore
	}
	return models.NewScore(n)
}
