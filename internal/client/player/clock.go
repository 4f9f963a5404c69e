package player

import (
	"sync"
	"time"
)

// Clock is a headless player: a playback position that advances with the wall
// clock while playing. It backs the terminal watch client and tests.
type Clock struct {
	mu        sync.Mutex
	base      float64
	startedAt time.Time
	playing   bool
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.position()
}

func (c *Clock) position() float64 {
	if !c.playing {
		return c.base
	}

	return c.base + time.Since(c.startedAt).Seconds()
}

func (c *Clock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.playing
}

func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		return
	}
	c.startedAt = time.Now()
	c.playing = true
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing {
		return
	}
	c.base = c.position()
	c.playing = false
}

func (c *Clock) SeekTo(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	c.base = seconds
	c.startedAt = time.Now()
}
