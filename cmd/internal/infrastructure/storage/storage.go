package storage

import (
	"context"
	"errors"
	"strings"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/uploads/"

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrInvalidName    = errors.New("invalid file name")
	ErrNotUploadsPath = errors.New("path is not under " + PublicPrefix)
)

// FileStore persists uploaded files by their generated name.
type FileStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

// PublicPath returns the path clients use to fetch a stored file.
func PublicPath(name string) string {
	return PublicPrefix + name
}

// NameFromPath extracts the stored file name from a public path like
// "/uploads/abc.pdf".
func NameFromPath(path string) (string, error) {
	if !strings.HasPrefix(path, PublicPrefix) {
		return "", ErrNotUploadsPath
	}

	name := strings.TrimPrefix(path, PublicPrefix)
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return name, nil
}

// ValidName reports whether name is a plain file name that cannot escape
// the uploads area.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
