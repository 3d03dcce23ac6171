// Package fail defines the error taxonomy shared by the CLI and the copy
// pipeline. Every failure surfaced to the user is one of three kinds:
//
//   - InvalidArgument: malformed or missing CLI input (empty name, missing
//     path, name containing path separators)
//   - AlreadyExists: the destination root is already present
//   - IOError: any read/write/create failure during the walk
//
// Errors are fail-fast: the first one aborts the whole run, and the partial
// destination output is left in place for inspection.
package fail

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for exit-code mapping and user messages.
type Kind int

const (
	InvalidArgument Kind = iota + 1
	AlreadyExists
	IOError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case AlreadyExists:
		return "AlreadyExists"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error carries a failure kind, the offending filesystem path where
// applicable, and either a message or a wrapped cause.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("unspecified failure")
	}
	// os errors already embed the path; avoid printing it twice.
	if e.Path != "" && !strings.Contains(b.String(), e.Path) {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Invalidf builds an InvalidArgument error from a format string.
func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// Exists reports that the destination entry at path is already present.
func Exists(path string) *Error {
	return &Error{Kind: AlreadyExists, Path: path, Msg: "destination already exists"}
}

// IO wraps a filesystem failure for the given path.
func IO(path string, err error) *Error {
	return &Error{Kind: IOError, Path: path, Err: err}
}

// KindOf extracts the failure kind from err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ExitCode maps an error to the process exit code: 0 for nil, 2 for
// InvalidArgument (usage errors), 1 for everything else.
func ExitCode(err error) int {
	switch KindOf(err) {
	case 0:
		if err == nil {
			return 0
		}
		return 1
	case InvalidArgument:
		return 2
	default:
		return 1
	}
}
