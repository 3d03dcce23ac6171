// Package variant builds the ordered replacement table (VariantMap) used for
// both path-segment and file-content substitution, and applies it with a
// single combined scan that never re-visits replaced text.
package variant

import (
	"sort"
	"strings"

	"github.com/ajilach/project-renamer/internal/casing"
	"github.com/ajilach/project-renamer/internal/fail"
)

// Pair is one (old, new) replacement. Old is never empty.
type Pair struct {
	Old string
	New string
}

// Map is an ordered sequence of replacement pairs, longest old-variant
// first. Built once per run and read-only afterwards.
type Map struct {
	pairs []Pair
}

// Build derives the VariantMap for renaming oldName to newName. The exact
// forms as given come first, followed by every rendering of the case matrix
// (3 styles x (joined + 5 separators)). Duplicate old-variants keep their
// first pairing, preserving generation precedence, and the result is stably
// sorted so that longer old-variants are always matched before shorter ones
// that could be their substrings.
func Build(oldName, newName string) (Map, error) {
	if err := validate(oldName); err != nil {
		return Map{}, err
	}
	if err := validate(newName); err != nil {
		return Map{}, err
	}

	_, oldN := casing.Detect(oldName)
	_, newN := casing.Detect(newName)

	seen := make(map[string]struct{})
	pairs := make([]Pair, 0, 1+3*(1+len(casing.Separators)))

	add := func(old, new string) {
		if old == "" {
			return
		}
		if _, dup := seen[old]; dup {
			return
		}
		seen[old] = struct{}{}
		pairs = append(pairs, Pair{Old: old, New: new})
	}

	// The literal inputs win over any generated rendering of themselves.
	add(oldName, newName)
	for _, c := range casing.AllCases() {
		add(c.Render(oldN), c.Render(newN))
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].Old) > len(pairs[j].Old)
	})
	return Map{pairs: pairs}, nil
}

// validate rejects names that cannot be a single path segment.
func validate(name string) error {
	if name == "" {
		return fail.Invalidf("project name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fail.Invalidf("project name %q must not contain path separators", name)
	}
	return nil
}

// Pairs returns a copy of the ordered replacement pairs.
func (m Map) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Apply substitutes every variant occurrence in s. The scan moves left to
// right; at each position the first (therefore longest) matching pair is
// replaced and the scan resumes after the replacement, so the output of one
// pair is never re-matched by another. Non-overlapping occurrences only.
func (m Map) Apply(s string) string {
	if len(m.pairs) == 0 || s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		matched := false
		for _, p := range m.pairs {
			if strings.HasPrefix(s[i:], p.Old) {
				b.WriteString(p.New)
				i += len(p.Old)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
