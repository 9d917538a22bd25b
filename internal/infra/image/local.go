package image

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	repo "bodega/internal/repository"
)

// LocalStore writes photos as <dir>/<name>.jpg. URL and ID are both the file path.
type LocalStore struct {
	dir string
}

var _ repo.ImageStore = (*LocalStore)(nil)

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Upload(ctx context.Context, name string, data []byte) (repo.ImageRef, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return repo.ImageRef{}, err
	}
	path := filepath.Join(s.dir, safeName(name)+".jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return repo.ImageRef{}, err
	}
	return repo.ImageRef{URL: path, ID: path}, nil
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	// only files inside dir
	if filepath.Dir(filepath.Clean(id)) != filepath.Clean(s.dir) {
		return repo.ErrNotFound
	}
	err := os.Remove(id)
	if errors.Is(err, os.ErrNotExist) {
		return repo.ErrNotFound
	}
	return err
}

func safeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "photo"
	}
	return name
}
