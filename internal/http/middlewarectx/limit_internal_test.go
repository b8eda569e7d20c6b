package middlewarectx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhoneLimiterEvictsStaleEntries(t *testing.T) {
	limiter := NewPhoneLimiter()
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.Allow("+79001111111")
	limiter.Allow("+79002222222")
	assert.Len(t, limiter.limiters, 2)

	// Номера, не появлявшиеся дольше ttl, удаляются при очередной очистке.
	current = current.Add(limiter.ttl + 2*time.Minute)
	limiter.Allow("+79003333333")

	assert.Len(t, limiter.limiters, 1)
	_, ok := limiter.limiters["+79003333333"]
	assert.True(t, ok)
}
