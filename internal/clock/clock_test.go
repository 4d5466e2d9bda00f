package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClockNow(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	result := c.Now()
	after := time.Now()

	assert.False(t, result.Before(before), "RealClock.Now() should not be before the call")
	assert.False(t, result.After(after), "RealClock.Now() should not be after the call")
}

func TestMockClockNow(t *testing.T) {
	fixedTime := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	c := NewMockClock(fixedTime)

	assert.Equal(t, fixedTime, c.Now())
	// Should return the same time on repeated calls
	assert.Equal(t, fixedTime, c.Now())
}

func TestMockClockSet(t *testing.T) {
	initialTime := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	c := NewMockClock(initialTime)

	newTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(newTime)

	assert.Equal(t, newTime, c.Now())
}

func TestMockClockConcurrentAccess(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			c.Set(time.Date(2024, 1, 1+i%28, 0, 0, 0, 0, time.UTC))
			_ = c.Now()
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
