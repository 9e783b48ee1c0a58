package redis

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpass/internal/platform/config"
)

func TestNewUnconfigured(t *testing.T) {
	client, err := New(config.Redis{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestRecordPoolStatsGauges(t *testing.T) {
	c := &Client{}
	c.recordPoolStats(&redis.PoolStats{TotalConns: 7, IdleConns: 3})

	assert.Equal(t, 7.0, testutil.ToFloat64(redisPoolTotalConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(redisPoolIdleConns))
}

func TestRecordPoolStatsCounterDeltas(t *testing.T) {
	c := &Client{}

	hitsBefore := testutil.ToFloat64(redisPoolHits)
	missesBefore := testutil.ToFloat64(redisPoolMisses)

	// First call records the cumulative values as-is.
	c.recordPoolStats(&redis.PoolStats{Hits: 10, Misses: 2})
	assert.Equal(t, hitsBefore+10, testutil.ToFloat64(redisPoolHits))
	assert.Equal(t, missesBefore+2, testutil.ToFloat64(redisPoolMisses))

	// Subsequent calls add only the delta.
	c.recordPoolStats(&redis.PoolStats{Hits: 15, Misses: 2})
	assert.Equal(t, hitsBefore+15, testutil.ToFloat64(redisPoolHits))
	assert.Equal(t, missesBefore+2, testutil.ToFloat64(redisPoolMisses))

	// Counters going backwards (pool recreated) add nothing.
	c.recordPoolStats(&redis.PoolStats{Hits: 1})
	assert.Equal(t, hitsBefore+15, testutil.ToFloat64(redisPoolHits))
}
