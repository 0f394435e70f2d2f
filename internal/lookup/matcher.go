package lookup

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const DefaultThreshold = 0.85

// Matcher accepts candidate titles whose similarity to the query reaches a
// threshold. Similarity is the longest-matching-block ratio over lower-cased
// runes, so character order matters and punctuation is significant.
type Matcher struct {
	threshold float64
}

func NewMatcher(threshold float64) (*Matcher, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in (0, 1], got %v", threshold)
	}
	return &Matcher{threshold: threshold}, nil
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Accepts reports whether candidate is close enough to query. An empty
// candidate never matches.
func (m *Matcher) Accepts(query, candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	return Ratio(query, candidate) >= m.threshold
}

// Ratio returns 2*M/T in [0, 1], where M is the number of runes in matching
// blocks and T the total rune count of both strings. Comparison is
// case-insensitive.
func Ratio(a, b string) float64 {
	sm := difflib.NewMatcher(splitRunes(strings.ToLower(a)), splitRunes(strings.ToLower(b)))
	return sm.Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
