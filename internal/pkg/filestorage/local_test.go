package filestorage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["resume"][0]
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base)
	require.NoError(t, err)

	rel, err := ls.SaveFileWithPath(newFileHeader(t, "CV.PDF", []byte("%PDF-1.7")), "resumes")
	require.NoError(t, err)
	assert.Equal(t, "resumes", filepath.Dir(rel))
	assert.Equal(t, ".pdf", filepath.Ext(rel))

	rc, err := ls.Open(rel)
	require.NoError(t, err)
	content, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.7", string(content))

	require.NoError(t, ls.DeleteFile(rel))
	_, err = os.Stat(filepath.Join(base, rel))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.DeleteFile(rel), "deleting twice is fine")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(filepath.Join(base, "uploads"))
	require.NoError(t, err)

	outside := filepath.Join(base, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	require.NoError(t, ls.DeleteFile("../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err, "file outside the storage root must survive")
}
