// Package storage persists processed avatars on local disk or in S3-compatible storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// LocalStore writes objects below dir. Keys are "avatars/<file>"; the
// "avatars/" prefix maps onto dir itself, which the router serves at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("avatar dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) path(key string) (string, string, error) {
	name := strings.TrimPrefix(key, "avatars/")
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, name), name, nil
}

// Put writes via a temp file and rename so readers never see partial files.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	dst, name, err := s.path(key)
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", domain.ErrStorageUnavailable(err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", domain.ErrStorageUnavailable(err)
	}
	if err := tmp.Close(); err != nil {
		return "", domain.ErrStorageUnavailable(err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", domain.ErrStorageUnavailable(err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return "", domain.ErrStorageUnavailable(err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	dst, _, err := s.path(key)
	if err != nil {
		return domain.ErrInternal(err)
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.ErrStorageUnavailable(err)
	}
	return nil
}
