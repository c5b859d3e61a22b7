package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSessionStore_Get(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewSessionStore(db, zaptest.NewLogger(t))

	mock.ExpectGet(KeyPrefix + outbound.TokenKey).SetVal("t1")
	value, ok, err := store.Get(ctx, outbound.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", value)

	mock.ExpectGet(KeyPrefix + outbound.UserIconKey).RedisNil()
	_, ok, err = store.Get(ctx, outbound.UserIconKey)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet(KeyPrefix + outbound.TokenKey).SetErr(errors.New("connection reset"))
	_, _, err = store.Get(ctx, outbound.TokenKey)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_SetAndClear(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewSessionStore(db, zaptest.NewLogger(t))

	mock.ExpectSet(KeyPrefix+outbound.TokenKey, "t1", 0).SetVal("OK")
	require.NoError(t, store.Set(ctx, outbound.TokenKey, "t1"))

	mock.ExpectDel(KeyPrefix+outbound.TokenKey, KeyPrefix+outbound.UserIconKey).SetVal(2)
	require.NoError(t, store.Clear(ctx, outbound.SessionKeys...))

	// nothing to delete, no round trip
	require.NoError(t, store.Clear(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
