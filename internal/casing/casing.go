// Package casing detects and renders the casing/separator variants of a
// project name. A name like "test-project" normalizes to the word list
// ["test", "project"], which can then be rendered in any combination of
// separator (space, '_', '-', '.', '/' or none) and word style (Title,
// Upper, Lower).
package casing

import (
	"strings"
	"unicode"
)

// Separators recognized when detecting and rendering name variants. Order
// matters twice: detection picks the first separator present in the input,
// and variant generation emits renderings in this order.
var Separators = []rune{' ', '_', '-', '.', '/'}

// Style is the word casing of a rendering.
type Style int

const (
	Title Style = iota // "My Project"
	Upper              // "MY PROJECT"
	Lower              // "my project"
)

// Case is one rendering recipe: a separator (0 joins words directly) plus a
// word style.
type Case struct {
	Sep   rune
	Style Style
}

// Name is the normalized form of a project name: its lowercased words.
type Name struct {
	words []string
}

// Words returns a copy of the normalized word list.
func (n Name) Words() []string {
	out := make([]string, len(n.words))
	copy(out, n.words)
	return out
}

// Detect splits name on the first recognized separator and classifies its
// word style. A name without any separator is treated as a single word.
func Detect(name string) (Case, Name) {
	var sep rune
	for _, s := range Separators {
		if strings.ContainsRune(name, s) {
			sep = s
			break
		}
	}

	var parts []string
	if sep != 0 {
		parts = strings.Split(name, string(sep))
	} else {
		parts = []string{name}
	}

	c := Case{Sep: sep, Style: classify(parts)}
	words := make([]string, len(parts))
	for i, p := range parts {
		words[i] = strings.ToLower(p)
	}
	return c, Name{words: words}
}

// classify reports Upper when every rune of every part is uppercase, Lower
// when every rune is lowercase, and Title otherwise. Digits and punctuation
// are neither, so mixed content falls through to Title.
func classify(parts []string) Style {
	if all(parts, unicode.IsUpper) {
		return Upper
	}
	if all(parts, unicode.IsLower) {
		return Lower
	}
	return Title
}

func all(parts []string, pred func(rune) bool) bool {
	for _, p := range parts {
		for _, r := range p {
			if !pred(r) {
				return false
			}
		}
	}
	return true
}

// AllCases enumerates every rendering recipe: for each style, first the
// joined (no separator) form, then one per separator.
func AllCases() []Case {
	cases := make([]Case, 0, 3*(1+len(Separators)))
	for _, st := range []Style{Title, Upper, Lower} {
		cases = append(cases, Case{Style: st})
		for _, sep := range Separators {
			cases = append(cases, Case{Sep: sep, Style: st})
		}
	}
	return cases
}

// Render produces the variant of n described by c.
func (c Case) Render(n Name) string {
	sep := ""
	if c.Sep != 0 {
		sep = string(c.Sep)
	}
	words := make([]string, len(n.words))
	for i, w := range n.words {
		switch c.Style {
		case Upper:
			words[i] = strings.ToUpper(w)
		case Lower:
			words[i] = w
		default:
			words[i] = capitalize(w)
		}
	}
	return strings.Join(words, sep)
}

// capitalize uppercases the first rune of an already-lowercased word.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
