package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-admin/config"
)

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := New(ctx, &config.Config{BlobDriver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	assert.NoError(t, closeFn())

	s, _, err = New(ctx, &config.Config{BlobDriver: "local", PublicDir: t.TempDir(), PublicURL: "/storage"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, _, err = New(ctx, &config.Config{BlobDriver: "ftp"})
	assert.Error(t, err)
}
