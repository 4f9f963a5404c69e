package session

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/siddhu12980/SyncStream/internal/client/player"
	"github.com/siddhu12980/SyncStream/internal/domain"
)

const (
	// seeking on every minor tick causes visible jitter; below this drift the
	// local position is left alone
	driftThreshold = 1.0
	seekDelta      = 10.0

	timeSyncInterval = 5 * time.Second
)

// engine enforces the single source of truth for what the video is doing. The
// admin produces playback events from local player interactions; viewers consume
// inbound events and reconcile their player against them. The outgoing path (send)
// is only wired for the admin, so a viewer's reconciliation can never loop back
// into event production.
type engine struct {
	player player.Player
	self   domain.Participant
	send   func(domain.Message) error
	logger *slog.Logger

	tickInterval time.Duration

	mu  sync.Mutex
	ref *domain.Message
}

func newEngine(p player.Player, self domain.Participant, send func(domain.Message) error, logger *slog.Logger) *engine {
	e := &engine{
		player:       p,
		self:         self,
		logger:       logger,
		tickInterval: timeSyncInterval,
	}
	if self.IsAdmin {
		e.send = send
	}

	return e
}

func (e *engine) emit(kind domain.MessageKind, videoTime float64) error {
	if e.send == nil {
		// viewer: local player interactions are not wired to the outgoing path
		return nil
	}

	return e.send(domain.Message{
		Kind:      kind,
		UserId:    e.self.Id,
		UserName:  e.self.DisplayName,
		VideoTime: videoTime,
		Timestamp: time.Now(),
	})
}

func (e *engine) LocalPlay() error {
	return e.emit(domain.KindPlay, e.player.CurrentTime())
}

func (e *engine) LocalPause() error {
	return e.emit(domain.KindPause, e.player.CurrentTime())
}

func (e *engine) LocalSeekForward() error {
	e.player.SeekTo(e.player.CurrentTime() + seekDelta)
	return e.emit(domain.KindSeekForward, e.player.CurrentTime())
}

func (e *engine) LocalSeekBack() error {
	target := e.player.CurrentTime() - seekDelta
	if target < 0 {
		target = 0
	}
	e.player.SeekTo(target)
	return e.emit(domain.KindSeekBack, e.player.CurrentTime())
}

// runTicker emits the periodic authoritative time_sync tick while the admin's
// player is playing and the channel is open; ticks are skipped, not queued,
// while it is down. No-op for viewers.
func (e *engine) runTicker(ctx context.Context, ready func() bool) {
	if e.send == nil {
		return
	}

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.player.IsPlaying() || !ready() {
				continue
			}
			if err := e.emit(domain.KindTimeSync, e.player.CurrentTime()); err != nil {
				e.logger.Debug("time sync tick not sent", "error", err)
			}
		}
	}
}

// Apply reconciles the local player against an inbound playback event. The event
// overwrites the reference slot; no history is kept.
//
// seek_forward/seek_back intentionally offset from the viewer's current position
// rather than the admin's reported one, matching the observed system; the periodic
// time_sync tick re-corrects any drift this accumulates.
func (e *engine) Apply(msg domain.Message) {
	if e.self.IsAdmin {
		// the authority never reconciles against its own broadcasts
		return
	}

	e.mu.Lock()
	ref := msg
	e.ref = &ref
	e.mu.Unlock()

	local := e.player.CurrentTime()
	drift := math.Abs(local - msg.VideoTime)

	switch msg.Kind {
	case domain.KindPlay:
		if drift > driftThreshold {
			e.player.SeekTo(msg.VideoTime)
		}
		if !e.player.IsPlaying() {
			e.player.Play()
		}
	case domain.KindPause:
		if drift > driftThreshold {
			e.player.SeekTo(msg.VideoTime)
		}
		if e.player.IsPlaying() {
			e.player.Pause()
		}
	case domain.KindTimeSync:
		// a correction, not a pause signal
		if drift > driftThreshold {
			e.player.SeekTo(msg.VideoTime)
			if !e.player.IsPlaying() {
				e.player.Play()
			}
		}
	case domain.KindSeekForward:
		e.player.SeekTo(local + seekDelta)
		if !e.player.IsPlaying() {
			e.player.Play()
		}
	case domain.KindSeekBack:
		target := local - seekDelta
		if target < 0 {
			target = 0
		}
		e.player.SeekTo(target)
		if !e.player.IsPlaying() {
			e.player.Play()
		}
	}
}

// Reference returns the most recently received playback event, if any.
func (e *engine) Reference() (domain.Message, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ref == nil {
		return domain.Message{}, false
	}

	return *e.ref, true
}
