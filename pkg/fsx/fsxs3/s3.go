package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Abraxas-365/passport/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// API is the subset of *s3.Client used by S3FileSystem.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3FileSystem implements fsx.FileSystem on one bucket, under an optional
// key prefix.
type S3FileSystem struct {
	client  API
	bucket  string
	prefix  string
	baseURL string
}

// NewS3FileSystem stores objects in bucket. Public URLs use the virtual-hosted
// bucket address for region.
func NewS3FileSystem(client API, bucket, prefix, region string) *S3FileSystem {
	return &S3FileSystem{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region),
	}
}

func (fs *S3FileSystem) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if fs.prefix == "" {
		return p
	}
	return path.Join(fs.prefix, p)
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fsx.ErrNotFound(p)
		}
		return nil, fsx.ErrReadFailed(p, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fsx.ErrReadFailed(p, err)
	}
	return data, nil
}

func (fs *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	out, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return fsx.FileInfo{}, fsx.ErrNotFound(p)
		}
		return fsx.FileInfo{}, fsx.ErrReadFailed(p, err)
	}

	info := fsx.FileInfo{
		Name:        path.Base(p),
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.LastModified != nil {
		info.ModTime = *out.LastModified
	}
	return info, nil
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fsx.ErrReadFailed(p, err)
	}
	return true, nil
}

func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return fs.WriteFileStream(ctx, p, bytes.NewReader(data), fsx.ContentType(p))
}

// WriteFileStream buffers r so the upload has a known length.
func (fs *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fsx.ErrWriteFailed(p, err)
	}
	if contentType == "" {
		contentType = fsx.ContentType(p)
	}

	_, err = fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(fs.bucket),
		Key:           aws.String(fs.key(p)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fsx.ErrWriteFailed(p, err)
	}
	return nil
}

func (fs *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil && !isNotFound(err) {
		return fsx.ErrWriteFailed(p, err)
	}
	return nil
}

func (fs *S3FileSystem) URL(p string) string {
	return fs.baseURL + "/" + fs.key(p)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
