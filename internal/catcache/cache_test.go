package catcache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadLoadsOnce(t *testing.T) {
	calls := 0
	cache := New(func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"Design", "Business"}, nil
	})

	names, err := cache.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Business"}, names)

	_, err = cache.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call should hit the cache")
}

func TestGetOrLoadReturnsCopy(t *testing.T) {
	cache := New(func(ctx context.Context) ([]string, error) {
		return []string{"Design", "Business"}, nil
	})

	first, err := cache.GetOrLoad(context.Background())
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := cache.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Design", second[0])
}

func TestInvalidateForcesReload(t *testing.T) {
	calls := 0
	cache := New(func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"Design"}, nil
	})

	_, err := cache.GetOrLoad(context.Background())
	require.NoError(t, err)

	cache.Invalidate()

	_, err = cache.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoadErrorNotCached(t *testing.T) {
	calls := 0
	cache := New(func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("db down")
		}
		return []string{"Design"}, nil
	})

	_, err := cache.GetOrLoad(context.Background())
	require.Error(t, err)

	names, err := cache.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Design"}, names)
}
