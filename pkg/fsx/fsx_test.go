package fsx_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/fsx"
	"github.com/Abraxas-365/passport/pkg/fsx/fsxlocal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStore_SaveLocal(t *testing.T) {
	local, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost:8080/media/")
	require.NoError(t, err)
	store := fsx.NewImageStore(local, "avatars")

	url, err := store.Save(context.Background(), "acc-1", "me.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/media/avatars/acc-1/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, "http://localhost:8080/media/")
	data, err := local.ReadFile(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestImageStore_RejectsNonImage(t *testing.T) {
	local, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	_, err = fsx.NewImageStore(local, "avatars").Save(context.Background(), "acc-1", "run.sh", strings.NewReader("#!"))
	assert.True(t, errx.IsCode(err, fsx.CodeUnsupported))
}

func TestImageStore_TooLarge(t *testing.T) {
	local, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	big := bytes.Repeat([]byte{1}, fsx.MaxImageSize+10)
	_, err = fsx.NewImageStore(local, "avatars").Save(context.Background(), "acc-1", "big.jpg", bytes.NewReader(big))
	assert.True(t, errx.IsCode(err, fsx.CodeTooLarge))
}

func TestLocal_PathsStayInsideBase(t *testing.T) {
	local, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, local.WriteFile(ctx, "../../escape.txt", []byte("x")))
	ok, err := local.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = local.ReadFile(ctx, "missing.txt")
	assert.True(t, errx.IsCode(err, fsx.CodeNotFound))
	assert.NoError(t, local.DeleteFile(ctx, "missing.txt"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", fsx.ContentType("a.JPG"))
	assert.Equal(t, "image/webp", fsx.ContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", fsx.ContentType("a.bin"))
}
