package filestorage

import (
	"io"
	"mime/multipart"
)

// FileStorage stages uploaded files on disk
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its relative path
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// Open opens a previously stored file for reading
	Open(relPath string) (io.ReadCloser, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(relPath string) error
}
