package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpass/pkg/sentinel"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "addr-1", []byte("blob")))

	got, err := c.Get(ctx, "addr-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemory()
	_, err := c.Get(context.Background(), "unknown")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemoryCacheCopiesBlobs(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	blob := []byte("original")
	require.NoError(t, c.Set(ctx, "addr", blob))
	blob[0] = 'X'

	got, err := c.Get(ctx, "addr")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "cache must not alias caller buffers")
}
