package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	_, ok, err := store.Get(ctx, outbound.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, outbound.TokenKey, "t1"))
	require.NoError(t, store.Set(ctx, outbound.UserIconKey, "fire"))

	value, ok, err := store.Get(ctx, outbound.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", value)

	require.NoError(t, store.Clear(ctx, outbound.SessionKeys...))
	assert.Zero(t, store.Len())

	// clearing absent keys is fine
	require.NoError(t, store.Clear(ctx, "missing"))
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = store.Set(ctx, key, "v")
			_, _, _ = store.Get(ctx, key)
			_ = store.Clear(ctx, key)
		}(i)
	}
	wg.Wait()
}
