package token_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-hub/internal/token"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := token.NewMemoryStore()

	t.Run("create and redeem once", func(t *testing.T) {
		rec, err := store.Create(ctx, token.PurposeInvite, "a@x.com", "7", time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, rec.Value)
		assert.True(t, rec.Live(time.Now()))

		redeemed, err := store.Redeem(ctx, rec.Value)
		require.NoError(t, err)
		assert.Equal(t, token.PurposeInvite, redeemed.Purpose)
		assert.Equal(t, "a@x.com", redeemed.SubjectRef)
		assert.Equal(t, "7", redeemed.ProjectID)

		_, err = store.Redeem(ctx, rec.Value)
		assert.ErrorIs(t, err, token.ErrNotFound)
	})

	t.Run("values are unique", func(t *testing.T) {
		a, err := store.Create(ctx, token.PurposeReset, "9", "", time.Hour)
		require.NoError(t, err)
		b, err := store.Create(ctx, token.PurposeReset, "9", "", time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, a.Value, b.Value)
	})

	t.Run("peek does not consume", func(t *testing.T) {
		rec, err := store.Create(ctx, token.PurposeReset, "9", "", time.Hour)
		require.NoError(t, err)

		peeked, err := store.Peek(ctx, rec.Value)
		require.NoError(t, err)
		assert.Equal(t, "9", peeked.SubjectRef)

		_, err = store.Redeem(ctx, rec.Value)
		require.NoError(t, err)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := store.Redeem(ctx, "no-such-token")
		assert.ErrorIs(t, err, token.ErrNotFound)
		_, err = store.Peek(ctx, "no-such-token")
		assert.ErrorIs(t, err, token.ErrNotFound)
	})

	t.Run("expired token is dead for good", func(t *testing.T) {
		rec, err := store.Create(ctx, token.PurposeInvite, "a@x.com", "7", -time.Minute)
		require.NoError(t, err)

		_, err = store.Peek(ctx, rec.Value)
		assert.ErrorIs(t, err, token.ErrExpired)

		_, err = store.Redeem(ctx, rec.Value)
		assert.ErrorIs(t, err, token.ErrExpired)

		// the failed redemption purged the record
		_, err = store.Redeem(ctx, rec.Value)
		assert.ErrorIs(t, err, token.ErrNotFound)
	})
}

func TestMemoryStoreConcurrentRedeem(t *testing.T) {
	ctx := context.Background()
	store := token.NewMemoryStore()

	rec, err := store.Create(ctx, token.PurposeInvite, "a@x.com", "7", time.Hour)
	require.NoError(t, err)

	const attempts = 32
	var wins, losses atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := store.Redeem(ctx, rec.Value); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, token.ErrNotFound)
				losses.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load())
	assert.Equal(t, int64(attempts-1), losses.Load())
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := token.NewMemoryStore()

	purger, ok := store.(token.Purger)
	require.True(t, ok)

	live, err := store.Create(ctx, token.PurposeReset, "9", "", time.Hour)
	require.NoError(t, err)
	_, err = store.Create(ctx, token.PurposeInvite, "a@x.com", "7", -time.Minute)
	require.NoError(t, err)
	_, err = store.Create(ctx, token.PurposeReset, "9", "", -time.Second)
	require.NoError(t, err)

	purged, err := purger.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, purged)

	_, err = store.Peek(ctx, live.Value)
	assert.NoError(t, err)
}

func TestNewValue(t *testing.T) {
	a, err := token.NewValue()
	require.NoError(t, err)
	b, err := token.NewValue()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 43) // 32 bytes base64url, no padding
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}
