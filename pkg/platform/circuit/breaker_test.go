package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := New("test", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		failFast, change := b.RecordFailure()
		assert.False(t, failFast)
		assert.False(t, change.Opened)
	}

	failFast, change := b.RecordFailure()
	assert.True(t, failFast)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreakerClosesAfterSuccesses(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New("test", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	failFast, _ := b.RecordFailure()

	assert.False(t, failFast, "success must reset the consecutive failure count")
}

func TestReset(t *testing.T) {
	b := New("test", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}
