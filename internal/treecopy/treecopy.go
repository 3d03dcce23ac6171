// Package treecopy walks a source project tree depth-first and produces a
// renamed sibling copy: every path segment and every text file's content has
// the VariantMap applied. The source is never modified; the destination must
// not exist beforehand. Failures abort immediately and leave any partial
// destination in place.
package treecopy

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"

	"github.com/ajilach/project-renamer/internal/diff"
	"github.com/ajilach/project-renamer/internal/fail"
	"github.com/ajilach/project-renamer/internal/manifest"
	"github.com/ajilach/project-renamer/internal/plan"
	"github.com/ajilach/project-renamer/internal/textutil"
	"github.com/ajilach/project-renamer/internal/variant"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Options tunes a copy run. The zero value performs a plain full copy.
type Options struct {
	// Excludes are doublestar patterns matched against the slash-separated
	// source-relative path. Matching entries are skipped; matching
	// directories are pruned.
	Excludes []string

	// DryRun suppresses all filesystem writes.
	DryRun bool

	// Plan, when non-nil, records every operation for the preview.
	Plan *plan.Plan

	// Manifest, when non-nil, records every file written to the destination.
	Manifest *manifest.Builder

	// DiffOpts, when non-nil, generates unified patches for rewritten text
	// files and attaches them to Plan entries.
	DiffOpts *diff.Options
}

// Summary counts what a run did (or, in dry-run, would do).
type Summary struct {
	Dirs      int // directories created, destination root included
	Files     int // files written
	Rewritten int // text files whose content changed
	Binaries  int // files copied byte-for-byte
	Skipped   int // entries pruned by exclude patterns
}

// Copier performs one source-to-destination copy run.
type Copier struct {
	src     string // absolute source root
	dst     string // absolute destination root (sibling of src)
	dstBase string
	vm      variant.Map
	opts    Options
	dirs    map[string]string // source-relative dir -> destination-relative dir
	sum     Summary
}

// New validates the source root, computes the destination root by applying
// vm to the source base name, and verifies that the destination does not
// already exist.
func New(src string, vm variant.Map, opts Options) (*Copier, error) {
	if src == "" {
		return nil, fail.Invalidf("input path must not be empty")
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, fail.IO(src, err)
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return nil, fail.IO(abs, err)
	}
	if !info.IsDir() {
		return nil, fail.Invalidf("input %s is not a directory", abs)
	}

	dstBase := vm.Apply(filepath.Base(abs))
	dst := filepath.Join(filepath.Dir(abs), dstBase)
	if _, err := os.Lstat(dst); err == nil {
		return nil, fail.Exists(dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fail.IO(dst, err)
	}

	return &Copier{
		src:     abs,
		dst:     dst,
		dstBase: dstBase,
		vm:      vm,
		opts:    opts,
		dirs:    map[string]string{".": "."},
	}, nil
}

// DestRoot returns the absolute destination root path.
func (c *Copier) DestRoot() string { return c.dst }

// Run executes the walk. On error the destination may be partially
// populated; nothing is rolled back.
func (c *Copier) Run() (Summary, error) {
	if err := filepath.WalkDir(c.src, c.visit); err != nil {
		return c.sum, err
	}
	return c.sum, nil
}

func (c *Copier) visit(p string, d fs.DirEntry, err error) error {
	if err != nil {
		return fail.IO(p, err)
	}
	rel, rerr := filepath.Rel(c.src, p)
	if rerr != nil {
		return fail.IO(p, rerr)
	}
	rel = filepath.ToSlash(rel)

	if rel == "." {
		return c.makeRoot()
	}
	if c.excluded(rel) {
		c.sum.Skipped++
		log.Debugf("skip %s", rel)
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
	if d.Type()&fs.ModeSymlink != 0 {
		return fail.IO(p, errors.New("symbolic links are not supported"))
	}
	if !d.IsDir() && !d.Type().IsRegular() {
		return fail.IO(p, errors.New("special files are not supported"))
	}

	// The parent directory has already been visited and renamed; pre-order
	// walking guarantees its destination exists by now.
	dstParent, ok := c.dirs[path.Dir(rel)]
	if !ok {
		return fail.IO(p, errors.New("parent directory was not copied"))
	}
	base := path.Base(rel)
	newBase := c.vm.Apply(base)
	dstRel := path.Join(dstParent, newBase)
	dstPath := filepath.Join(c.dst, filepath.FromSlash(dstRel))

	if d.IsDir() {
		return c.makeDir(rel, base, newBase, dstRel, dstPath)
	}
	return c.copyFile(p, rel, base, newBase, dstRel, dstPath)
}

func (c *Copier) makeRoot() error {
	log.Debugf("mkdir %s", c.dst)
	if !c.opts.DryRun {
		if err := os.Mkdir(c.dst, dirPerm); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fail.Exists(c.dst)
			}
			return fail.IO(c.dst, err)
		}
	}
	c.sum.Dirs++
	c.record(plan.Op{Kind: plan.OpMkdir, Path: c.dstBase, From: renamedFrom(filepath.Base(c.src), c.dstBase)})
	return nil
}

func (c *Copier) makeDir(rel, base, newBase, dstRel, dstPath string) error {
	log.Debugf("mkdir %s", dstPath)
	if !c.opts.DryRun {
		if err := os.Mkdir(dstPath, dirPerm); err != nil {
			return fail.IO(dstPath, err)
		}
	}
	c.dirs[rel] = dstRel
	c.sum.Dirs++
	c.record(plan.Op{Kind: plan.OpMkdir, Path: path.Join(c.dstBase, dstRel), From: renamedFrom(base, newBase)})
	return nil
}

func (c *Copier) copyFile(p, rel, base, newBase, dstRel, dstPath string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return fail.IO(p, err)
	}

	out := data
	kind := plan.OpCopy
	rewritten := false
	var patch string

	if textutil.IsText(data) {
		kind = plan.OpWrite
		if s := c.vm.Apply(string(data)); s != string(data) {
			out = []byte(s)
			rewritten = true
			c.sum.Rewritten++
			if c.opts.DiffOpts != nil {
				patch, _ = diff.Unified(rel, path.Join(c.dstBase, dstRel), data, out, *c.opts.DiffOpts)
			}
		}
	} else {
		c.sum.Binaries++
	}

	log.Debugf("%s %s", kind, dstPath)
	if !c.opts.DryRun {
		if err := os.WriteFile(dstPath, out, filePerm); err != nil {
			return fail.IO(dstPath, err)
		}
	}
	if c.opts.Manifest != nil {
		c.opts.Manifest.Add(dstRel, out)
	}
	c.sum.Files++
	c.record(plan.Op{
		Kind:      kind,
		Path:      path.Join(c.dstBase, dstRel),
		From:      renamedFrom(base, newBase),
		Rewritten: rewritten,
		Diff:      patch,
	})
	return nil
}

func (c *Copier) excluded(rel string) bool {
	for _, pat := range c.opts.Excludes {
		ok, err := doublestar.Match(pat, rel)
		if err == nil && ok {
			return true
		}
	}
	return false
}

func (c *Copier) record(op plan.Op) {
	if c.opts.Plan != nil {
		c.opts.Plan.Record(op)
	}
}

// renamedFrom returns the old base name when it differs from the new one.
func renamedFrom(oldBase, newBase string) string {
	if oldBase == newBase {
		return ""
	}
	return oldBase
}
