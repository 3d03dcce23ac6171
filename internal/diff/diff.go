// Package diff renders unified patches for the dry-run preview: the original
// file content on the left, the substituted content on the right. It uses
// github.com/pmezard/go-difflib/difflib to produce classic unified output
// (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new combined). When
	// exceeded, a compact placeholder patch is returned and oversize=true.
	// 0 means no limit.
	MaxBytes int

	// Context is the number of context lines per hunk. 0 defaults to 4.
	Context int

	// NoPrefix suppresses the "a/" and "b/" path prefixes.
	NoPrefix bool
}

// Unified produces a unified patch from a to b. oversize reports that the
// body was omitted because of MaxBytes.
func Unified(aName, bName string, a, b []byte, opt Options) (body string, oversize bool) {
	aName, bName = prefixed(aName, bName, opt)
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(aName, bName), true
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 4
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		// Very rare; a placeholder beats an empty patch.
		return omitted(aName, bName), false
	}
	return s, false
}

func prefixed(aName, bName string, opt Options) (string, string) {
	if opt.NoPrefix {
		return aName, bName
	}
	return "a/" + aName, "b/" + bName
}

// splitLinesKeepNL splits into lines keeping the trailing newline of each,
// which produces better unified hunks. A file that does not end with a
// newline keeps its last chunk bare, which unified output tolerates.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

// omitted is the compact placeholder emitted when MaxBytes is exceeded.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
