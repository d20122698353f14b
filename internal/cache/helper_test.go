package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID  uint   `json:"id"`
	Bio string `json:"bio"`
}

func withMiniredis(t *testing.T) {
	t.Helper()

	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestAside(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Bio = "from the database"
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, Aside(ctx, ProfileKey(7), &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from the database", first.Bio)

	// Second read is served from the cache; a fetch would be a bug.
	var second cachedProfile
	err := Aside(ctx, ProfileKey(7), &second, time.Minute, func() error {
		return errors.New("must not hit the database")
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	t.Run("invalidation forces a refetch", func(t *testing.T) {
		InvalidateProfile(ctx, 7)
		var third cachedProfile
		require.NoError(t, Aside(ctx, ProfileKey(7), &third, time.Minute, fetch(&third)))
		assert.Equal(t, 2, fetches)
	})
}

func TestAsideWithoutRedis(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var dest cachedProfile
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(ctx, ProfileKey(1), &dest, time.Minute, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches, "every read goes to the database when the cache is down")
}
