// Package blob is the binary store for PDF bytes: named blob storage with
// store/retrieve/delete/list, rooted at the configured data directory.
// Templates live under the "templates/" prefix and fill outputs under
// "generated_pdfs/".
package blob

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"
)

const (
	// TemplatePrefix is the logical path prefix for source templates.
	TemplatePrefix = "templates"
	// GeneratedPrefix is the logical path prefix for fill outputs.
	GeneratedPrefix = "generated_pdfs"

	dirPerm  = 0o750
	filePerm = 0o640
)

// Store persists named blobs on a filesystem.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore creates a blob store rooted at root on fs. Use afero.NewOsFs()
// in production and an in-memory filesystem in tests.
func NewStore(fs afero.Fs, root string) (*Store, error) {
	for _, prefix := range []string{TemplatePrefix, GeneratedPrefix} {
		if err := fs.MkdirAll(path.Join(root, prefix), dirPerm); err != nil {
			return nil, fmt.Errorf("create blob directory %q: %w", prefix, err)
		}
	}
	return &Store{fs: fs, root: root}, nil
}

// Put stores data under name, overwriting any existing blob.
func (s *Store) Put(name string, data []byte) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(path.Dir(p), dirPerm); err != nil {
		return fmt.Errorf("create directory for %q: %w", name, err)
	}
	if err := afero.WriteFile(s.fs, p, data, filePerm); err != nil {
		return fmt.Errorf("store blob %q: %w", name, err)
	}
	return nil
}

// Get retrieves the blob stored under name; ok=false when absent.
func (s *Store) Get(name string) ([]byte, bool, error) {
	p, err := s.resolve(name)
	if err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("retrieve blob %q: %w", name, err)
	}
	return data, true, nil
}

// Delete removes the blob stored under name; deleting an absent blob is not
// an error.
func (s *Store) Delete(name string) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %q: %w", name, err)
	}
	return nil
}

// List returns the names stored under prefix, sorted.
func (s *Store) List(prefix string) ([]string, error) {
	dir := path.Join(s.root, prefix)
	infos, err := afero.ReadDir(s.fs, dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list blobs under %q: %w", prefix, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		names = append(names, path.Join(prefix, info.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// resolve maps a blob name onto the root, rejecting names that escape it.
func (s *Store) resolve(name string) (string, error) {
	cleaned := path.Clean("/" + name)
	if cleaned == "/" {
		return "", fmt.Errorf("empty blob name")
	}
	return path.Join(s.root, cleaned), nil
}
