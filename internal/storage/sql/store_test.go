package sql_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	sqlstore "github.com/guardian/uk-coronavirus-data-alerts/internal/storage/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.New("sqlite3", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func version(stack string, n int) *domain.TemplateVersion {
	return &domain.TemplateVersion{
		ID:            fmt.Sprintf("%s-%d", stack, n),
		StackName:     stack,
		VersionNumber: n,
		Format:        "json",
		Digest:        fmt.Sprintf("digest-%d", n),
		Rendered:      `{"Resources":{}}`,
		CreatedAt:     time.Date(2026, 1, n, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_TemplateVersions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.GetLatestTemplateVersion(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for n := 1; n <= 3; n++ {
		require.NoError(t, store.CreateTemplateVersion(ctx, version("a", n)))
	}
	require.NoError(t, store.CreateTemplateVersion(ctx, version("b", 9)))

	latest, err := store.GetLatestTemplateVersion(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, latest.VersionNumber)
	assert.Equal(t, `{"Resources":{}}`, latest.Rendered)
	assert.True(t, latest.CreatedAt.Equal(time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)))

	got, err := store.GetTemplateVersion(ctx, "b-9")
	require.NoError(t, err)
	assert.Equal(t, "b", got.StackName)

	_, err = store.GetTemplateVersion(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := store.ListTemplateVersions(ctx, "a", 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].VersionNumber)
	assert.Equal(t, 1, list[1].VersionNumber)

	list, err = store.ListTemplateVersions(ctx, "nothing", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_UniqueVersionNumber(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.CreateTemplateVersion(ctx, version("a", 1)))

	dup := version("a", 1)
	dup.ID = "other"
	assert.ErrorIs(t, store.CreateTemplateVersion(ctx, dup), domain.ErrAlreadyExists)
}

func TestStore_TxRollback(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateTemplateVersion(ctx, version("a", 1)))
	require.NoError(t, tx.Rollback())

	_, err = store.GetTemplateVersion(ctx, "a-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateTemplateVersion(ctx, version("a", 1)))
	require.NoError(t, tx.Commit())

	_, err = store.GetTemplateVersion(ctx, "a-1")
	assert.NoError(t, err)
}
