package local_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/timemore/publicstore/app/errors"
	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/store"
	"github.com/timemore/publicstore/store/local"
)

func newService(t *testing.T, baseURL string) (mediaDir string, svc store.Service) {
	t.Helper()
	mediaDir = t.TempDir()
	svc, err := local.NewService(context.Background(), &local.Config{
		DirectoryPath: mediaDir,
		BaseURL:       baseURL,
	})
	require.NoError(t, err)
	return mediaDir, svc
}

func TestService_PutStatRemove(t *testing.T) {
	ctx := context.Background()
	mediaDir, svc := newService(t, "https://cdn.example.com/media/")

	err := svc.PutPublicObject(ctx, "users/1/avatar.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(mediaDir, "users", "1", "avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	info, err := os.Stat(filepath.Join(mediaDir, "users", "1", "avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0044), info.Mode().Perm()&0044, "object must be world readable")

	require.NoError(t, svc.StatObject(ctx, "users/1/avatar.png"))
	require.NoError(t, svc.RemoveObject(ctx, "users/1/avatar.png"))

	err = svc.StatObject(ctx, "users/1/avatar.png")
	assert.True(t, errors.Is(err, store.ErrObjectNotFound))

	err = svc.StatObject(ctx, "users/1")
	assert.True(t, errors.Is(err, store.ErrObjectNotFound), "directories are not objects")
}

func TestService_PublicURL(t *testing.T) {
	_, svc := newService(t, "https://cdn.example.com/media/")
	assert.Equal(t, "https://cdn.example.com/media/a/b.txt", svc.PublicURL("a/b.txt"))

	mediaDir, svc := newService(t, "")
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(mediaDir, "a/b.txt")), svc.PublicURL("a/b.txt"))
}

func TestService_PathTraversal(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t, "")

	for _, key := range []string{"../etc/passwd", "foo/../../etc/shadow", "..", "."} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, svc.PutPublicObject(ctx, key, strings.NewReader("x"), 1, ""))
			assert.Error(t, svc.StatObject(ctx, key))
			assert.Error(t, svc.RemoveObject(ctx, key))
		})
	}
}

func TestNewService_MissingDirectory(t *testing.T) {
	_, err := local.NewService(context.Background(), &local.Config{
		DirectoryPath: filepath.Join(t.TempDir(), "missing"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrBucketNotFound))
}

func TestNewService_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := local.NewService(ctx, nil)
	assert.Error(t, err)

	_, err = local.NewService(ctx, &local.Config{})
	assert.Error(t, err)

	filePath := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(filePath, nil, 0600))
	_, err = local.NewService(ctx, &local.Config{DirectoryPath: filePath})
	assert.Error(t, err, "a regular file cannot hold objects")
}

func TestStore_Local(t *testing.T) {
	ctx := context.Background()
	mediaDir := t.TempDir()

	client, err := store.New(ctx, store.Config{
		Enabled:      true,
		StoreService: local.ServiceName,
		Modules: map[string]any{
			local.ServiceName: &local.Config{DirectoryPath: mediaDir, BaseURL: "http://localhost:8080/media"},
		},
	})
	require.NoError(t, err)

	srcFile := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("hello"), 0600))

	publicURL, ok := client.Upload(ctx, srcFile, "docs/doc.txt", "")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080/media/docs/doc.txt", publicURL)

	_, ok = client.Upload(ctx, filepath.Join(t.TempDir(), "missing.txt"), "docs/missing.txt", "")
	assert.False(t, ok)

	deleted, err := client.Delete(ctx, "docs/doc.txt")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.Delete(ctx, "docs/doc.txt")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.New(ctx, store.Config{
		Enabled:      true,
		StoreService: local.ServiceName,
		Modules: map[string]any{
			local.ServiceName: &local.Config{DirectoryPath: filepath.Join(mediaDir, "missing")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}
