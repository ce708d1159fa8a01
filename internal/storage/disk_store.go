package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"room-service/internal/apperrors"
)

// DiskImageStore writes images below a root directory that the HTTP server
// exposes under baseURL.
type DiskImageStore struct {
	root    string
	baseURL string
}

func NewDiskImageStore(root, baseURL string) (*DiskImageStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve image directory")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrap(err, "create image directory")
	}
	return &DiskImageStore{root: abs, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskImageStore) Root() string { return s.root }

func (s *DiskImageStore) Save(_ context.Context, key string, data []byte) (string, string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", "", errors.Wrapf(apperrors.ErrMalformedInput, "image key %q", key)
	}

	path := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", errors.Wrap(err, "create image folder")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", errors.Wrapf(err, "write %s", path)
	}
	return s.baseURL + "/" + filepath.ToSlash(clean), path, nil
}
