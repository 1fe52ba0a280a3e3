package fsx

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize bounds uploaded images.
const MaxImageSize = 5 << 20

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentType returns the MIME type for name's extension, or
// application/octet-stream.
func ContentType(name string) string {
	if ct, ok := imageTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ImageStore saves user images under a folder of a FileSystem.
type ImageStore struct {
	fs     FileSystem
	folder string
}

func NewImageStore(fs FileSystem, folder string) *ImageStore {
	return &ImageStore{fs: fs, folder: strings.Trim(folder, "/")}
}

// Save stores r as <folder>/<owner>/<uuid><ext> and returns the public URL.
// Only image extensions are accepted and at most MaxImageSize bytes are read.
func (s *ImageStore) Save(ctx context.Context, owner, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	ct, ok := imageTypes[ext]
	if !ok {
		return "", ErrRegistry.New(CodeUnsupported).WithDetail("filename", filename)
	}

	lr := &io.LimitedReader{R: r, N: MaxImageSize + 1}
	key := path.Join(s.folder, owner, fmt.Sprintf("%s%s", uuid.NewString(), ext))
	if err := s.fs.WriteFileStream(ctx, key, lr, ct); err != nil {
		return "", err
	}
	if lr.N <= 0 {
		_ = s.fs.DeleteFile(ctx, key)
		return "", ErrRegistry.New(CodeTooLarge).WithDetail("limit_bytes", MaxImageSize)
	}
	return s.fs.URL(key), nil
}
