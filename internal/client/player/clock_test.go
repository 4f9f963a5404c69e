package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockAdvancesOnlyWhilePlaying(t *testing.T) {
	c := NewClock()

	assert.False(t, c.IsPlaying())
	assert.Equal(t, 0.0, c.CurrentTime())

	c.Play()
	assert.True(t, c.IsPlaying())
	time.Sleep(20 * time.Millisecond)
	assert.Greater(t, c.CurrentTime(), 0.0)

	c.Pause()
	paused := c.CurrentTime()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, c.CurrentTime(), "position must freeze while paused")
}

func TestClockSeek(t *testing.T) {
	c := NewClock()

	c.SeekTo(120)
	assert.Equal(t, 120.0, c.CurrentTime())

	c.SeekTo(-5)
	assert.Equal(t, 0.0, c.CurrentTime(), "negative targets clamp at zero")
}

func TestClockIdempotentTransitions(t *testing.T) {
	c := NewClock()

	c.Pause()
	assert.False(t, c.IsPlaying())

	c.Play()
	c.Play()
	assert.True(t, c.IsPlaying())
}
