package treecopy

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajilach/project-renamer/internal/diff"
	"github.com/ajilach/project-renamer/internal/fail"
	"github.com/ajilach/project-renamer/internal/manifest"
	"github.com/ajilach/project-renamer/internal/plan"
	"github.com/ajilach/project-renamer/internal/variant"
)

// writeTree materializes files (given as rel path -> content) under root,
// creating parent directories as needed.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755))
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// readTree returns every regular file under root as rel path -> content.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		out[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	require.NoError(t, err)
	return out
}

func buildMap(t *testing.T, oldName, newName string) variant.Map {
	t.Helper()
	m, err := variant.Build(oldName, newName)
	require.NoError(t, err)
	return m
}

// The reference scenario: the tree from the original tool's documentation,
// renamed from test-project to copied-project. Names change only where a
// full variant of the project name occurs; contents change in the matching
// variant form.
func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{
		"test-dir-1/test-dir-test-project/test-file-test-project.txt": "test_project",
		"test-dir-1/test-file-2.txt":                                  "Test Project",
		"test-file-1.txt":                                             "test-project",
	})

	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(parent, "copied-project"), c.DestRoot())

	sum, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Dirs: 3, Files: 3, Rewritten: 3}, sum)

	got := readTree(t, c.DestRoot())
	assert.Equal(t, map[string]string{
		"test-dir-1/test-dir-copied-project/test-file-copied-project.txt": "copied_project",
		"test-dir-1/test-file-2.txt":                                      "Copied Project",
		"test-file-1.txt":                                                 "copied-project",
	}, got)

	// Source tree is untouched.
	assert.Equal(t, map[string]string{
		"test-dir-1/test-dir-test-project/test-file-test-project.txt": "test_project",
		"test-dir-1/test-file-2.txt":                                  "Test Project",
		"test-file-1.txt":                                             "test-project",
	}, readTree(t, src))
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	vm := buildMap(t, "test-project", "copied-project")

	_, err := New("", vm, Options{})
	assert.Equal(t, fail.InvalidArgument, fail.KindOf(err))

	_, err = New(filepath.Join(t.TempDir(), "absent"), vm, Options{})
	assert.Equal(t, fail.IOError, fail.KindOf(err))

	file := filepath.Join(t.TempDir(), "test-project")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(file, vm, Options{})
	assert.Equal(t, fail.InvalidArgument, fail.KindOf(err))
}

func TestDestinationAlreadyExists(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{"test-file-1.txt": "test-project"})

	dst := filepath.Join(parent, "copied-project")
	require.NoError(t, os.Mkdir(dst, 0o755))

	_, err := New(src, buildMap(t, "test-project", "copied-project"), Options{})
	assert.Equal(t, fail.AlreadyExists, fail.KindOf(err))

	// No filesystem changes happened.
	entries, rerr := os.ReadDir(dst)
	require.NoError(t, rerr)
	assert.Empty(t, entries)
}

func TestRenameToSameNameFails(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{"a.txt": "x"})

	// The destination resolves to the source itself, which exists.
	_, err := New(src, buildMap(t, "test-project", "test-project"), Options{})
	assert.Equal(t, fail.AlreadyExists, fail.KindOf(err))
}

func TestBinaryFilePreserved(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	require.NoError(t, os.MkdirAll(src, 0o755))
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0xfe, 't', 'e', 's', 't'}
	require.NoError(t, os.WriteFile(filepath.Join(src, "test-project.png"), raw, 0o644))

	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{})
	require.NoError(t, err)
	sum, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Binaries)
	assert.Equal(t, 0, sum.Rewritten)

	// The name is substituted, the bytes are not.
	got, err := os.ReadFile(filepath.Join(c.DestRoot(), "copied-project.png"))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{
		"test-file-1.txt": "test-project",
		"plain.txt":       "no occurrences here",
	})

	pl := plan.New()
	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{DryRun: true, Plan: pl})
	require.NoError(t, err)
	sum, err := c.Run()
	require.NoError(t, err)

	_, statErr := os.Lstat(c.DestRoot())
	assert.True(t, os.IsNotExist(statErr), "dry-run must not create the destination")

	assert.Equal(t, Summary{Dirs: 1, Files: 2, Rewritten: 1}, sum)
	ops := pl.Ops()
	require.Len(t, ops, 3)
	assert.Equal(t, plan.OpMkdir, ops[0].Kind)
	assert.Equal(t, "copied-project", ops[0].Path)
	assert.Equal(t, "test-project", ops[0].From)
}

func TestDryRunDiff(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{"test-file-1.txt": "header\ntest-project\nfooter\n"})

	pl := plan.New()
	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{
		DryRun:   true,
		Plan:     pl,
		DiffOpts: &diff.Options{Context: 2},
	})
	require.NoError(t, err)
	_, err = c.Run()
	require.NoError(t, err)

	var found bool
	for _, op := range pl.Ops() {
		if op.Rewritten {
			found = true
			assert.Contains(t, op.Diff, "@@")
			assert.Contains(t, op.Diff, "-test-project")
			assert.Contains(t, op.Diff, "+copied-project")
		}
	}
	assert.True(t, found, "expected a rewritten op with a diff")
}

func TestExcludes(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{
		".git/config":   "gitstuff",
		"sub/debug.log": "log",
		"keep.txt":      "test-project",
	})

	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{
		Excludes: []string{".git", "**/*.log"},
	})
	require.NoError(t, err)
	sum, err := c.Run()
	require.NoError(t, err)

	got := readTree(t, c.DestRoot())
	assert.Equal(t, map[string]string{"keep.txt": "copied-project"}, got)
	assert.Equal(t, 2, sum.Skipped)
}

func TestSymlinkFails(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{"real.txt": "x"})
	if err := os.Symlink(filepath.Join(src, "real.txt"), filepath.Join(src, "link.txt")); err != nil {
		t.Skipf("cannot create symlinks here: %v", err)
	}

	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{})
	require.NoError(t, err)
	_, err = c.Run()
	assert.Equal(t, fail.IOError, fail.KindOf(err))
}

func TestManifestRecordsWrittenFiles(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := filepath.Join(parent, "test-project")
	writeTree(t, src, map[string]string{
		"test-file-1.txt": "test-project",
		"dir/notes.md":    "hello",
	})

	mb := manifest.NewBuilder()
	c, err := New(src, buildMap(t, "test-project", "copied-project"), Options{Manifest: mb})
	require.NoError(t, err)
	_, err = c.Run()
	require.NoError(t, err)

	m := mb.Build(src, c.DestRoot())
	require.Len(t, m.Files, 2)
	assert.Equal(t, "dir/notes.md", m.Files[0].Path)
	assert.Equal(t, "test-file-1.txt", m.Files[1].Path)
	// Sizes reflect the substituted output, not the source.
	assert.Equal(t, int64(len("copied-project")), m.Files[1].Size)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	original := map[string]string{
		"test-dir-1/test-dir-test-project/test-file-test-project.txt": "test_project",
		"test-dir-1/test-file-2.txt":                                  "Test Project",
		"test-file-1.txt":                                             "test-project",
		"unrelated.txt":                                               "nothing to see",
	}

	parentA := t.TempDir()
	parentB := t.TempDir()
	src := filepath.Join(parentA, "test-project")
	writeTree(t, src, original)

	fwd, err := New(src, buildMap(t, "test-project", "copied-project"), Options{})
	require.NoError(t, err)
	_, err = fwd.Run()
	require.NoError(t, err)

	// Move the copy away from the original so the reverse rename does not
	// collide with the still-present source.
	moved := filepath.Join(parentB, "copied-project")
	require.NoError(t, os.Rename(fwd.DestRoot(), moved))

	back, err := New(moved, buildMap(t, "copied-project", "test-project"), Options{})
	require.NoError(t, err)
	_, err = back.Run()
	require.NoError(t, err)

	assert.Equal(t, original, readTree(t, back.DestRoot()))
}
