package fsxlocal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/passport/pkg/fsx"
)

// LocalFileSystem implements fsx.FileSystem on local disk. Files are served
// from publicBaseURL by the HTTP layer.
type LocalFileSystem struct {
	basePath      string
	publicBaseURL string
}

// NewLocalFileSystem creates basePath if needed.
func NewLocalFileSystem(basePath, publicBaseURL string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fsx.ErrWriteFailed(basePath, err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fsx.ErrWriteFailed(basePath, err)
	}

	return &LocalFileSystem{
		basePath:      absPath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// ============================================================================
// FileReader Implementation
// ============================================================================

func (fs *LocalFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(fs.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fsx.ErrNotFound(path)
		}
		return nil, fsx.ErrReadFailed(path, err)
	}
	return data, nil
}

func (fs *LocalFileSystem) Stat(ctx context.Context, path string) (fsx.FileInfo, error) {
	info, err := os.Stat(fs.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fsx.FileInfo{}, fsx.ErrNotFound(path)
		}
		return fsx.FileInfo{}, fsx.ErrReadFailed(path, err)
	}

	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: fsx.ContentType(path),
	}, nil
}

func (fs *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(fs.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fsx.ErrReadFailed(path, err)
	}
	return true, nil
}

// ============================================================================
// FileWriter Implementation
// ============================================================================

func (fs *LocalFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	fullPath := fs.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fsx.ErrWriteFailed(path, err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fsx.ErrWriteFailed(path, err)
	}
	return nil
}

func (fs *LocalFileSystem) WriteFileStream(ctx context.Context, path string, r io.Reader, _ string) error {
	fullPath := fs.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fsx.ErrWriteFailed(path, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fsx.ErrWriteFailed(path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fsx.ErrWriteFailed(path, err)
	}
	return nil
}

// ============================================================================
// FileDeleter Implementation
// ============================================================================

func (fs *LocalFileSystem) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(fs.fullPath(path)); err != nil && !os.IsNotExist(err) {
		return fsx.ErrWriteFailed(path, err)
	}
	return nil
}

func (fs *LocalFileSystem) URL(path string) string {
	return fs.publicBaseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

// BasePath returns the root directory, for mounting a static file handler.
func (fs *LocalFileSystem) BasePath() string {
	return fs.basePath
}

// fullPath keeps path inside basePath.
func (fs *LocalFileSystem) fullPath(path string) string {
	return filepath.Join(fs.basePath, filepath.Clean("/"+path))
}
