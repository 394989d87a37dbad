package relevance

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a free-text entity or topic name for comparison:
// lower-case, only letters, digits and single spaces, trimmed.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// EntityMatcher decides whether two entity or topic names refer to the same thing
type EntityMatcher interface {
	Match(a, b string) bool
}

// SubstringMatcher matches normalized names that are equal or where one
// contains the other. Short names over-match ("AI" matches "AI Policy Task
// Force"); that is accepted.
type SubstringMatcher struct{}

// Match implements EntityMatcher. A name that normalizes to nothing never matches.
func (SubstringMatcher) Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// EntitiesMatch reports whether a and b fuzzy-match using SubstringMatcher:
// equal or one containing the other after Normalize. A side that normalizes
// to the empty string matches nothing, even though "" is a substring of
// every string. Custom EntityMatcher implementations should do the same, or
// a blank rule or topic will match every candidate.
func EntitiesMatch(a, b string) bool {
	return SubstringMatcher{}.Match(a, b)
}
