// Package upload stores listing images on local disk.  Files are
// renamed to a UUID so uploads can never collide or traverse paths, and
// the saved name doubles as the public URL path segment.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

const maxImageSize = 10 << 20 // 10 MiB per file

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrTooLarge = errors.New("upload: file exceeds size limit")
	ErrBadType  = errors.New("upload: unsupported file type")
)

type Store struct {
	dir string
}

// NewStore ensures the upload directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory served as static content.
func (s *Store) Dir() string { return s.dir }

// Save writes one multipart file under a generated name and returns the
// public URL path for it.
func (s *Store) Save(fh *multipart.FileHeader, name string) (string, error) {
	if fh.Size > maxImageSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrBadType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open: %w", err)
	}
	defer src.Close()

	filename := name + ext
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("upload: create: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload: write: %w", err)
	}
	return "/uploads/" + filename, nil
}
