package usage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, closeFn, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	return repo
}

func TestAppendAndCount(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, 42, "upload"))
	require.NoError(t, repo.Append(ctx, 42, "photo"))
	require.NoError(t, repo.Append(ctx, 99, "upload"))

	count, err := repo.CountByUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByUser(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountByUser_NoRecords(t *testing.T) {
	repo := openTestRepo(t)

	count, err := repo.CountByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	ctx := context.Background()

	repo, closeFn, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, 42, "upload"))
	require.NoError(t, closeFn())

	repo, closeFn, err = Open(path)
	require.NoError(t, err)
	defer closeFn()

	count, err := repo.CountByUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
