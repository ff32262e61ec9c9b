package storage

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

func uploadedFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSave_StoresFileUnderPublicPrefix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(dir, "/public/uploads/")
	require.NoError(t, err)

	file := uploadedFile(t, "My Lamp Photo.png", "image/png", []byte("png-bytes"))
	publicPath, err := store.Save(file)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(publicPath, "/public/uploads/My-Lamp-Photo-"))
	require.True(t, strings.HasSuffix(publicPath, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(publicPath)))
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), stored)
}

func TestSave_RejectsDisallowedContentType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(dir, "/public/uploads")
	require.NoError(t, err)

	file := uploadedFile(t, "payload.gif", "image/gif", []byte("gif-bytes"))
	_, err = store.Save(file)
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "rejected uploads leave nothing on disk")
}

func TestSaveAll_EnforcesBatchLimit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(dir, "/public/uploads")
	require.NoError(t, err)

	files := []*multipart.FileHeader{
		uploadedFile(t, "a.png", "image/png", []byte("a")),
		uploadedFile(t, "b.png", "image/png", []byte("b")),
		uploadedFile(t, "c.png", "image/png", []byte("c")),
	}

	_, err = store.SaveAll(files, 2)
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	paths, err := store.SaveAll(files, 3)
	require.NoError(t, err)
	require.Len(t, paths, 3)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	require.Equal(t, "My-Lamp", slugify("My Lamp.png"))
	require.Equal(t, "lamp", slugify("lamp.jpeg"))
	require.Equal(t, "upload", slugify(".png"))
	require.Equal(t, "upload", slugify(""))
}
