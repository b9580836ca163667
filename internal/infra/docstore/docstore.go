// Package docstore stores supporting documents (investment agreements,
// legal papers) as content-addressed files under a local directory.
// Callers keep only the returned reference string.
package docstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store is a filesystem-backed document store.
type Store struct {
	dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Init ensures the directory exists.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	return nil
}

// Save writes the document and returns its reference, which embeds a
// content digest so the same bytes always map to the same file.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	sum := sha256.Sum256(data)
	ref := hex.EncodeToString(sum[:])[:16] + "-" + sanitize(name)

	if err := os.WriteFile(s.Path(ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write document %s: %w", ref, err)
	}
	return ref, nil
}

// Delete removes a stored document. A missing file is not an error;
// the reference may already have been replaced.
func (s *Store) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(s.Path(ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document %s: %w", ref, err)
	}
	return nil
}

// Path returns the filesystem location for a reference.
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, ref)
}

// Open returns a reader for a stored document.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(ref))
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", ref, err)
	}
	return f, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
