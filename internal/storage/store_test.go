package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2525Azarashi/manatobi/internal/db"
)

func setupTestStore(t *testing.T) Store {
	t.Helper()

	database, cleanup, err := db.NewDatabase(":memory:")
	require.NoError(t, err, "failed to open in-memory database")
	t.Cleanup(cleanup)

	return NewStore(database)
}

func TestSQLiteStore_GetAbsentKey(t *testing.T) {
	store := setupTestStore(t)

	value, ok, err := store.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "archives", `[{"id":"a"}]`))

	value, ok, err := store.Get(ctx, "archives")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "archives", "first"))
	require.NoError(t, store.Set(ctx, "archives", "second"))

	value, ok, err := store.Get(ctx, "archives")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}
