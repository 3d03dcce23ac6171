// Package textutil decides whether file content may be substituted as text.
// The copy must stay byte-faithful, so no normalization is ever applied:
// content either passes through the substituter unchanged in encoding, or is
// copied verbatim.
package textutil

import (
	"bytes"
	"unicode/utf8"
)

// IsText reports whether b can safely be treated as text: valid UTF-8 with
// no NUL byte. Anything else is copied byte-for-byte without substitution so
// binary assets are never corrupted.
func IsText(b []byte) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	return utf8.Valid(b)
}
