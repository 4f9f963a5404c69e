// Package player defines the capability set the sync engine drives. Concrete
// adapters differ by the room's video type; the engine never cares which one it
// got.
package player

// Player is the minimal surface of an underlying video player.
type Player interface {
	CurrentTime() float64
	IsPlaying() bool
	Play()
	Pause()
	SeekTo(seconds float64)
}
