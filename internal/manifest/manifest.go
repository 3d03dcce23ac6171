// Package manifest records every entry written to the destination tree and
// saves the result as a JSON document. The save is atomic: the document is
// written to a temporary file in the target directory and renamed into
// place, so readers never observe a partially-written manifest.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/xxh3"
)

// Entry describes one file created in the destination tree.
type Entry struct {
	Path string `json:"path"` // destination-relative, forward slashes
	Size int64  `json:"size"`
	Hash string `json:"hash"` // xxh3-64 of the written bytes, zero-padded hex
}

// Manifest is the saved document.
type Manifest struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Created     string  `json:"created"` // RFC3339, UTC
	Files       []Entry `json:"files"`
}

// Builder accumulates entries during the walk.
type Builder struct {
	files []Entry
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add records a file written at the destination-relative path with the given
// content.
func (b *Builder) Add(relPath string, data []byte) {
	h := xxh3.New()
	_, _ = h.Write(data)
	b.files = append(b.files, Entry{
		Path: relPath,
		Size: int64(len(data)),
		Hash: fmt.Sprintf("%016x", h.Sum64()),
	})
}

// Len reports the number of recorded entries.
func (b *Builder) Len() int { return len(b.files) }

// Build finalizes the document. Entries are sorted by path so the output is
// deterministic regardless of walk order.
func (b *Builder) Build(source, destination string) *Manifest {
	files := make([]Entry, len(b.files))
	copy(files, b.files)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return &Manifest{
		Source:      source,
		Destination: destination,
		Created:     time.Now().UTC().Format(time.RFC3339),
		Files:       files,
	}
}

// Save writes the manifest atomically to path, creating parent directories
// as needed.
func Save(path string, m *Manifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp) // best-effort cleanup
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a saved manifest. Mostly useful for tests and tooling.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
