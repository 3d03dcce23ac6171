// Package plan records the operations a copy run would perform and renders
// them as the --dry-run preview. Operations appear in walk order (pre-order,
// so every directory precedes its children), with unified diffs of content
// rewrites appended after the listing when requested.
package plan

import (
	"fmt"
	"io"
)

// OpKind is the operation class recorded for one source entry.
type OpKind int

const (
	OpMkdir OpKind = iota // create destination directory
	OpWrite               // write text file (substituted or unchanged)
	OpCopy                // copy binary file byte-for-byte
)

func (k OpKind) String() string {
	switch k {
	case OpMkdir:
		return "mkdir"
	case OpWrite:
		return "write"
	case OpCopy:
		return "copy"
	default:
		return "?"
	}
}

// Op is one recorded operation. Path is the destination path relative to the
// destination root's parent, so the listing starts with the renamed root.
type Op struct {
	Kind      OpKind
	Path      string
	From      string // source base name, set only when the name changed
	Rewritten bool   // text content changed during substitution
	Diff      string // unified patch, set only in --dry-run --diff mode
}

// Plan is an append-only operation log.
type Plan struct {
	ops []Op
}

func New() *Plan {
	return &Plan{}
}

// Record appends one operation.
func (p *Plan) Record(op Op) {
	p.ops = append(p.ops, op)
}

// Ops returns a copy of the recorded operations in walk order.
func (p *Plan) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// Render writes the preview listing, then any collected diffs. Output is
// deterministic for a given walk order.
func (p *Plan) Render(w io.Writer) error {
	for _, op := range p.ops {
		line := fmt.Sprintf("%-5s  %s", op.Kind, op.Path)
		if op.From != "" {
			line += fmt.Sprintf("  (from %s)", op.From)
		}
		if op.Rewritten {
			line += "  [content rewritten]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, op := range p.ops {
		if op.Diff == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s", op.Diff); err != nil {
			return err
		}
	}
	return nil
}
