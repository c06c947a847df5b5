package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffPolicyTimeoutGrowsLinearly(t *testing.T) {
	p := BackoffPolicy{
		BaseTimeout:      20 * time.Second,
		TimeoutIncrement: 10 * time.Second,
		BaseDelay:        2 * time.Second,
	}

	assert.Equal(t, 20*time.Second, p.Timeout(0))
	assert.Equal(t, 30*time.Second, p.Timeout(1))
	assert.Equal(t, 40*time.Second, p.Timeout(2))
	assert.Equal(t, 60*time.Second, p.Timeout(4))
}

func TestBackoffPolicyDelayDoubles(t *testing.T) {
	p := BackoffPolicy{BaseDelay: 2 * time.Second}

	assert.Equal(t, 2*time.Second, p.Delay(0))
	assert.Equal(t, 4*time.Second, p.Delay(1))
	assert.Equal(t, 8*time.Second, p.Delay(2))
	assert.Equal(t, 16*time.Second, p.Delay(3))
}
