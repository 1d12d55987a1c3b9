package drive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind tags a store entry.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Entry describes one child of a store folder.
type Entry struct {
	Name string
	Kind Kind
	ID   string
}

// Store is the publishing backend for session artifacts. Paths are
// slash-separated and relative to the store root; EnsurePath creates
// missing intermediate folders and is idempotent.
type Store interface {
	EnsurePath(path string) (string, error)
	ListChildren(path string) ([]Entry, error)
	Upload(path, name string, r io.Reader) (string, error)
}

// LocalStore keeps the session tree on the local filesystem.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local store: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local store: %w", err)
	}
	return &LocalStore{Root: root}, nil
}

func (s *LocalStore) abs(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("local store: path escapes root: %q", path)
	}
	return filepath.Join(s.Root, clean), nil
}

func (s *LocalStore) EnsurePath(path string) (string, error) {
	dir, err := s.abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure %s: %w", path, err)
	}
	return dir, nil
}

func (s *LocalStore) ListChildren(path string) ([]Entry, error) {
	dir, err := s.abs(path)
	if err != nil {
		return nil, err
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		kind := KindFile
		if de.IsDir() {
			kind = KindFolder
		}
		entries = append(entries, Entry{
			Name: de.Name(),
			Kind: kind,
			ID:   filepath.Join(dir, de.Name()),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *LocalStore) Upload(path, name string, r io.Reader) (string, error) {
	dir, err := s.EnsurePath(path)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", path, name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("upload %s/%s: %w", path, name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", path, name, err)
	}
	return dst, nil
}
