package fsxs3

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(f.types[aws.ToString(in.Key)]),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3FileSystem_RoundTrip(t *testing.T) {
	api := newFakeS3()
	fs := NewS3FileSystem(api, "bucket", "/avatars/", "ap-southeast-1")
	ctx := context.Background()

	require.NoError(t, fs.WriteFileStream(ctx, "acc/1.png", bytes.NewReader([]byte("img")), ""))
	assert.Contains(t, api.objects, "avatars/acc/1.png")
	assert.Equal(t, "image/png", api.types["avatars/acc/1.png"])

	data, err := fs.ReadFile(ctx, "acc/1.png")
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	info, err := fs.Stat(ctx, "acc/1.png")
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.Size)
	assert.Equal(t, "1.png", info.Name)

	assert.Equal(t, "https://bucket.s3.ap-southeast-1.amazonaws.com/avatars/acc/1.png", fs.URL("acc/1.png"))

	require.NoError(t, fs.DeleteFile(ctx, "acc/1.png"))
	ok, err := fs.Exists(ctx, "acc/1.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3FileSystem_Missing(t *testing.T) {
	fs := NewS3FileSystem(newFakeS3(), "bucket", "", "us-east-1")

	_, err := fs.ReadFile(context.Background(), "nope.png")
	assert.True(t, errx.IsCode(err, fsx.CodeNotFound))

	_, err = fs.Stat(context.Background(), "nope.png")
	assert.True(t, errx.IsCode(err, fsx.CodeNotFound))
}
