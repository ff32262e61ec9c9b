// Package storage is the file-receipt collaborator: it turns received
// multipart files into stored files and reports the public path each one
// became available at. Handlers pass only these paths onward; nothing
// else may mint image references.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// allowed image content types and their stored extensions.
var fileTypeMap = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// FileStore writes uploads to a local directory served read-only under
// a public prefix.
type FileStore struct {
	dir          string
	publicPrefix string
}

// NewFileStore ensures the upload directory exists.
func NewFileStore(dir, publicPrefix string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir, publicPrefix: strings.TrimSuffix(publicPrefix, "/")}, nil
}

// Save stores one uploaded file and returns the public path it is served
// from. Disallowed content types are a validation failure.
func (s *FileStore) Save(file *multipart.FileHeader) (string, error) {
	ext, ok := fileTypeMap[file.Header.Get("Content-Type")]
	if !ok {
		return "", apperrors.NewValidationError("invalid image type", map[string]any{
			"content_type": file.Header.Get("Content-Type"),
		})
	}

	name := fmt.Sprintf("%s-%s.%s", slugify(file.Filename), uuid.NewString(), ext)

	src, err := file.Open()
	if err != nil {
		return "", apperrors.NewUpstreamFailure(err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", apperrors.NewUpstreamFailure(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", apperrors.NewUpstreamFailure(err)
	}

	return path.Join(s.publicPrefix, name), nil
}

// SaveAll stores up to max files in upload order and returns their
// public paths. The first failure aborts and removes nothing already
// stored; callers treat the whole batch as not produced.
func (s *FileStore) SaveAll(files []*multipart.FileHeader, max int) ([]string, error) {
	if max > 0 && len(files) > max {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d files allowed", max), nil)
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		stored, err := s.Save(file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, stored)
	}
	return paths, nil
}

// slugify normalizes an original filename for storage: spaces become
// dashes and the extension is dropped (the stored extension comes from
// the verified content type).
func slugify(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.Join(strings.Fields(base), "-")
	if base == "" {
		base = "upload"
	}
	return base
}
