// Package slug owns the rules for what a valid slug or base path looks
// like: normalization, the reserved-word deny list, and random
// candidate generation.
package slug

import (
	"strings"

	"github.com/jaevor/go-nanoid"
)

// CandidateLength is the length of auto-generated slugs. A 6-char
// lowercase-alphanumeric space holds 36^6 (~2.2B) values, so random
// collisions stay rare at any realistic link count.
const CandidateLength = 6

const candidateAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultBasePath is used whenever the configured base-path set would
// otherwise be empty.
const DefaultBasePath = "go"

// Normalize applies the canonical slug transform: surrounding slashes
// and whitespace are trimmed, letters lowercased, word separators
// (spaces, underscores) collapsed to single dashes, and every other
// non-alphanumeric byte dropped. Returns "" when nothing survives.
// Normalize is idempotent.
func Normalize(input string) string {
	input = strings.Trim(input, "/ \t\n\r")
	input = strings.ToLower(input)

	var b strings.Builder
	b.Grow(len(input))

	lastDash := true // suppress leading dashes

	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)

			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash {
				b.WriteByte('-')

				lastDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// Filter is an extension hook over the reserved-word check. Filters
// registered via RegisterReservedFilter are consulted in registration
// order; the first one returning true marks the slug reserved.
type Filter func(slug string) bool

// reserved covers administrative pages, API and feed endpoints, and
// the redirect handler's own keywords.
var reserved = map[string]struct{}{
	"admin":   {},
	"login":   {},
	"api":     {},
	"feed":    {},
	"json":    {},
	"page":    {},
	"health":  {},
	"shorten": {},
	"go":      {},
	"img":     {},
}

var filters []Filter

// RegisterReservedFilter appends an extension filter. Not safe for
// concurrent use with IsReserved; register during startup.
func RegisterReservedFilter(f Filter) {
	filters = append(filters, f)
}

// IsReserved reports whether the normalized slug collides with a
// system route or any registered filter.
func IsReserved(s string) bool {
	s = Normalize(s)

	if _, ok := reserved[s]; ok {
		return true
	}

	for _, f := range filters {
		if f(s) {
			return true
		}
	}

	return false
}

// NewGenerator returns a function producing random slug candidates.
// Candidates are lowercase alphanumeric and CandidateLength long; the
// underlying randomness is not cryptographically strong and does not
// need to be.
func NewGenerator() (func() string, error) {
	return nanoid.CustomASCII(candidateAlphabet, CandidateLength)
}

// ParseBasePaths turns raw multiline admin input into the ordered
// base-path set: one path per line, normalized, empties dropped,
// duplicates removed keeping first-seen order. An empty result falls
// back to DefaultBasePath so the set is never empty.
func ParseBasePaths(raw string) []string {
	var (
		paths []string
		seen  = map[string]struct{}{}
	)

	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' }) {
		p := Normalize(line)
		if p == "" {
			continue
		}

		if _, ok := seen[p]; ok {
			continue
		}

		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	if len(paths) == 0 {
		return []string{DefaultBasePath}
	}

	return paths
}
