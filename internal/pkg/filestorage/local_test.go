package filestorage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestUploadDataURLAndDestroy(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8000/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngPixel)
	img, err := store.Upload(ctx, data, "avatars")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(img.PublicID, "avatars/"))
	assert.True(t, strings.HasSuffix(img.PublicID, ".png"))
	assert.Equal(t, "http://localhost:8000/uploads/"+img.PublicID, img.URL)

	stored := filepath.Join(dir, filepath.FromSlash(img.PublicID))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, content)

	require.NoError(t, store.Destroy(ctx, img.PublicID))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// destroying twice is harmless
	assert.NoError(t, store.Destroy(ctx, img.PublicID))
}

func TestUploadBareBase64DetectsType(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	img, err := store.Upload(context.Background(), base64.StdEncoding.EncodeToString(pngPixel), "courses")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(img.PublicID, ".png"))
}

func TestUploadRejectsNonImages(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Upload(ctx, "not base64 at all!", "x")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = store.Upload(ctx, "data:text/plain;base64,"+base64.StdEncoding.EncodeToString([]byte("hello")), "x")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDestroyStaysInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	store, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	require.NoError(t, store.Destroy(context.Background(), "../keep.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
