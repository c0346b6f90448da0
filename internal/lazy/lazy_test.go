package lazy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyLoadsOnce(t *testing.T) {
	calls := 0
	l := New(func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	assert.False(t, l.IsLoaded())
	for i := 0; i < 3; i++ {
		v, err := l.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, l.IsLoaded())

	l.Reset()
	_, _ = l.Get(context.Background())
	assert.Equal(t, 2, calls)
}

func TestLazyRetriesAfterError(t *testing.T) {
	calls := 0
	l := New(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("daemon down")
		}
		return "ok", nil
	})

	_, err := l.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, l.IsLoaded())

	v, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestOf(t *testing.T) {
	v, err := Of("x").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}
