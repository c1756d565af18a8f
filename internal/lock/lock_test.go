package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		l := NewLocalLocker()

		release, err := l.Acquire(ctx, "job", time.Minute)
		require.NoError(t, err)

		_, err = l.Acquire(ctx, "job", time.Minute)
		assert.ErrorIs(t, err, ErrLocked)

		_, err = l.Acquire(ctx, "other", time.Minute)
		assert.NoError(t, err)

		require.NoError(t, release(ctx))
		_, err = l.Acquire(ctx, "job", time.Minute)
		assert.NoError(t, err)
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		l := NewLocalLocker()
		l.clock = func() time.Time { return now }

		staleRelease, err := l.Acquire(ctx, "job", time.Minute)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = l.Acquire(ctx, "job", time.Minute)
		require.NoError(t, err)

		// the stale holder must not free the new holder's lock
		require.NoError(t, staleRelease(ctx))
		_, err = l.Acquire(ctx, "job", time.Minute)
		assert.ErrorIs(t, err, ErrLocked)
	})
}
