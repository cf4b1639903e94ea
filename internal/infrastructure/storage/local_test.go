package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreLifecycle(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "http://localhost:8080/storage/")
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Put(ctx, "profiles", strings.NewReader("png-bytes"), ".PNG", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "profiles/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8080/storage/"+key, s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, key), "deleting a missing blob is a no-op")
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/storage")
	require.NoError(t, err)

	_, err = s.Exists(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, errOutsideRoot)
	assert.ErrorIs(t, s.Delete(context.Background(), "../secret"), errOutsideRoot)
}
