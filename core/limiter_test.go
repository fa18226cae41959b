package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelLimiter(t *testing.T) {
	ml := NewModelLimiter(2)
	assert.Equal(t, 2, ml.Limit())

	require.NoError(t, ml.Increment())
	require.NoError(t, ml.Increment())
	assert.Equal(t, 0, ml.Remaining())

	err := ml.Increment()
	assert.ErrorIs(t, err, ErrModelCallLimit)
	assert.ErrorContains(t, err, "call 3 exceeds 2")
	assert.Equal(t, 3, ml.Count())
	assert.Equal(t, 0, ml.Remaining(), "remaining never goes negative")
}

func TestModelLimiter_Unlimited(t *testing.T) {
	for _, limit := range []int{0, -5} {
		ml := NewModelLimiter(limit)
		for i := 0; i < 10; i++ {
			assert.NoError(t, ml.Increment())
		}
		assert.Equal(t, -1, ml.Remaining())
		assert.Equal(t, 0, ml.Limit())
	}
}

func TestModelLimiter_Concurrent(t *testing.T) {
	ml := NewModelLimiter(50)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
	)
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ml.Increment(); err != nil {
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 80, ml.Count())
	assert.Equal(t, 30, rejected)
}
