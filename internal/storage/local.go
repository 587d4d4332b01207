package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage saves uploaded files under a base directory and hands back
// locators relative to that directory. The HTTP layer serves the directory
// statically under /uploads.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save stores an uploaded file under subDir with a generated name and
// returns its locator (e.g. "avatars/3f2a….png").
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subDir string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dir := ls.baseDir
	if subDir != "" {
		dir = filepath.Join(ls.baseDir, subDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create subdirectory: %w", err)
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("write file content: %w", err)
	}

	if subDir != "" {
		return subDir + "/" + name, nil
	}
	return name, nil
}

// Open retrieves a stored file by its locator.
func (ls *LocalStorage) Open(locator string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(ls.baseDir, filepath.FromSlash(locator)))
}

// Remove deletes a stored file; a missing file is not an error.
func (ls *LocalStorage) Remove(locator string) error {
	if locator == "" {
		return nil
	}
	err := os.Remove(filepath.Join(ls.baseDir, filepath.FromSlash(locator)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the base directory, for static file serving.
func (ls *LocalStorage) Dir() string {
	return ls.baseDir
}
