package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutosaver_CoalescesBursts(t *testing.T) {
	var flushes atomic.Int32
	a := newAutosaver(30*time.Millisecond, func() { flushes.Add(1) })
	defer a.close()

	for i := 0; i < 5; i++ {
		a.touch()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int32(0), flushes.Load())

	assert.Eventually(t, func() bool { return flushes.Load() == 1 },
		500*time.Millisecond, 10*time.Millisecond)
}

func TestAutosaver_NoFlushAfterClose(t *testing.T) {
	var flushes atomic.Int32
	a := newAutosaver(10*time.Millisecond, func() { flushes.Add(1) })

	a.touch()
	a.close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), flushes.Load())

	// touches after close are ignored
	a.touch()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), flushes.Load())
}

func TestAutosaver_ZeroIntervalDisabled(t *testing.T) {
	var flushes atomic.Int32
	a := newAutosaver(0, func() { flushes.Add(1) })
	defer a.close()

	a.touch()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), flushes.Load())
}
