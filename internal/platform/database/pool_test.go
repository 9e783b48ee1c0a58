package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnconfigured(t *testing.T) {
	pool, err := New(Config{})
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestStatsNilPool(t *testing.T) {
	var p *Pool
	assert.Equal(t, sql.DBStats{}, p.Stats())
}

func TestRecordPoolStatsGauges(t *testing.T) {
	p := &Pool{}
	p.recordPoolStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 5.0, testutil.ToFloat64(dbPoolOpenConns))
	assert.Equal(t, 2.0, testutil.ToFloat64(dbPoolInUseConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(dbPoolIdleConns))
}

func TestRecordPoolStatsWaitDeltas(t *testing.T) {
	p := &Pool{}

	waitsBefore := testutil.ToFloat64(dbPoolWaits)
	secondsBefore := testutil.ToFloat64(dbPoolWaitSeconds)

	// First call records the cumulative values as-is.
	p.recordPoolStats(sql.DBStats{WaitCount: 4, WaitDuration: 2 * time.Second})
	assert.Equal(t, waitsBefore+4, testutil.ToFloat64(dbPoolWaits))
	assert.InDelta(t, secondsBefore+2, testutil.ToFloat64(dbPoolWaitSeconds), 0.001)

	// Subsequent calls add only the delta.
	p.recordPoolStats(sql.DBStats{WaitCount: 6, WaitDuration: 3 * time.Second})
	assert.Equal(t, waitsBefore+6, testutil.ToFloat64(dbPoolWaits))
	assert.InDelta(t, secondsBefore+3, testutil.ToFloat64(dbPoolWaitSeconds), 0.001)
}
