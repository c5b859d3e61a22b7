package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm/logger"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := SetupDatabase("", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	store := NewSessionStore(db, zaptest.NewLogger(t))

	_, ok, err := store.Get(ctx, outbound.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, outbound.TokenKey, "t1"))
	require.NoError(t, store.Set(ctx, outbound.TokenKey, "t2"))
	require.NoError(t, store.Set(ctx, outbound.UserIconKey, "fire"))

	value, ok, err := store.Get(ctx, outbound.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t2", value)

	require.NoError(t, store.Clear(ctx, outbound.SessionKeys...))

	_, ok, err = store.Get(ctx, outbound.UserIconKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	db, err := SetupDatabase(path, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, NewSessionStore(db, zaptest.NewLogger(t)).Set(ctx, outbound.TokenKey, "persisted"))
	require.NoError(t, Close(db))

	db, err = SetupDatabase(path, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	value, ok, err := NewSessionStore(db, zaptest.NewLogger(t)).Get(ctx, outbound.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}

func TestSetupDatabase_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipeweb", "nested", "session.db")

	db, err := SetupDatabase(path, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	store := NewSessionStore(db, zaptest.NewLogger(t))
	require.NoError(t, store.Set(context.Background(), outbound.TokenKey, "t1"))
	assert.FileExists(t, path)
}
