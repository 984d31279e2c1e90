package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Portada Final.JPG":         "portada-final.jpg",
		"../../etc/passwd":          "passwd",
		`C:\fotos\Niño en_azul.png`: "nino-en_azul.png",
		"   ":                       "file",
		"obra (1)  copia.webp":      "obra-1-copia.webp",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestUploadPath(t *testing.T) {
	now := time.UnixMilli(1767225600123)

	p, err := UploadPath("blog-covers", "Mi Portada.png", now)
	require.NoError(t, err)
	assert.Equal(t, "blog-covers/1767225600123-mi-portada.png", p)

	_, err = UploadPath("../secrets", "x.png", now)
	assert.ErrorIs(t, err, ErrFolderNotAllowed)
}

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "http://localhost:8080/storage/")

	require.NoError(t, d.Put(ctx, "paintings/1-obra.jpg", strings.NewReader("jpeg"), "image/jpeg"))

	ok, err := d.Exists(ctx, "paintings/1-obra.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := d.Open(ctx, "paintings/1-obra.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(body))

	assert.Equal(t, "http://localhost:8080/storage/paintings/1-obra.jpg", d.URL("paintings/1-obra.jpg"))

	require.NoError(t, d.Delete(ctx, "paintings/1-obra.jpg"))
	require.NoError(t, d.Delete(ctx, "paintings/1-obra.jpg"))
	_, err = d.Open(ctx, "paintings/1-obra.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDiskRejectsTraversal(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "")
	err := d.Put(context.Background(), "../escape.txt", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
