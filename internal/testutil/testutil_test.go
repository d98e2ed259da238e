package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedRequestIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedRequestIDGenerator("req-123")

	assert.Equal(t, "req-123", gen.Generate())
	assert.Equal(t, "req-123", gen.Generate())
}

func TestFixedRequestIDGenerator_EmptyDefault(t *testing.T) {
	assert.Equal(t, "test-request-default", NewFixedRequestIDGenerator("").Generate())
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)

	assert.Equal(t, start, c.Now())
	c.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), c.Now())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	c := NewFixedClock(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Advance(time.Second)
				_ = c.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Unix(1000, 0), c.Now())
}
