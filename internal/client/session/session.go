// Package session is the realtime engine behind a room view: it keeps one live
// channel to the room, fans inbound frames out to the playback engine and the
// transcript, and gates outgoing playback events on the admin role.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/siddhu12980/SyncStream/internal/client/player"
	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/protocol"
)

type Config struct {
	// ServerURL is the ws scheme base, e.g. ws://localhost:8000.
	ServerURL   string
	RoomId      string
	Participant domain.Participant
	Player      player.Player
	Notifier    Notifier
	Logger      *slog.Logger
}

type Session struct {
	participant domain.Participant
	manager     *manager
	transcript  *Transcript
	engine      *engine
	feed        *playbackFeed
	notifier    Notifier
	logger      *slog.Logger
	cancel      context.CancelFunc
}

func New(cfg *Config) (*Session, error) {
	if cfg.RoomId == "" {
		return nil, errors.New("room id is required")
	}
	if cfg.Player == nil {
		return nil, errors.New("player is required")
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		participant: cfg.Participant,
		transcript:  NewTranscript(cfg.Participant.Id),
		feed:        newPlaybackFeed(),
		notifier:    notifier,
		logger:      logger,
	}

	channelURL := fmt.Sprintf("%s/ws/%s?user_id=%s&name=%s",
		cfg.ServerURL,
		url.PathEscape(cfg.RoomId),
		url.QueryEscape(cfg.Participant.Id),
		url.QueryEscape(cfg.Participant.DisplayName),
	)

	s.manager = newManager(channelURL, wsDialer{}, notifier, logger, s.handleFrame)
	s.engine = newEngine(cfg.Player, cfg.Participant, s.sendPlayback, logger)

	return s, nil
}

// Start opens the channel and, for the admin, starts the periodic time-sync tick.
func (s *Session) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.manager.Connect(ctx)
	go s.engine.runTicker(ctx, func() bool { return s.manager.State() == StateOpen })
}

// Close tears the session down: intentional-disconnect flag, channel close and
// retry-timer cancellation (inside the manager, in that order), then the player
// tick is detached. Safe on every exit path.
func (s *Session) Close() {
	s.manager.Close()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) handleFrame(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		// protocol errors stop here, they never reach the engine or transcript
		s.logger.Warn("dropping frame", "error", err)
		return
	}

	if msg.Kind.IsPlayback() {
		s.engine.Apply(msg)
		s.feed.publish(msg)
		return
	}

	s.transcript.Append(msg)
}

func (s *Session) sendPlayback(msg domain.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	if err := s.manager.Send(data); err != nil {
		if errors.Is(err, ErrNotConnected) {
			s.notifier.NotifyError("not connected to video sync")
		}
		return err
	}

	return nil
}

// SendChat sends a chat message. There is no queueing: sending while the channel
// is not open is rejected with a notice.
func (s *Session) SendChat(text string) error {
	data, err := protocol.Encode(domain.Message{
		Kind:      domain.KindChat,
		UserId:    s.participant.Id,
		UserName:  s.participant.DisplayName,
		Text:      text,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	if err := s.manager.Send(data); err != nil {
		if errors.Is(err, ErrNotConnected) {
			s.notifier.NotifyError("not connected to chat")
		}
		return err
	}

	return nil
}

// Local player interactions. For a non-admin these are deliberately not wired to
// the outgoing path and do nothing.

func (s *Session) LocalPlay() error        { return s.engine.LocalPlay() }
func (s *Session) LocalPause() error       { return s.engine.LocalPause() }
func (s *Session) LocalSeekForward() error { return s.engine.LocalSeekForward() }
func (s *Session) LocalSeekBack() error    { return s.engine.LocalSeekBack() }

// SubscribePlayback registers a consumer of inbound playback events and returns
// its cancel func. Multiple subscribers are supported.
func (s *Session) SubscribePlayback(fn func(domain.Message)) func() {
	return s.feed.subscribe(fn)
}

func (s *Session) State() ConnState { return s.manager.State() }

func (s *Session) Transcript() *Transcript { return s.transcript }

func (s *Session) Participant() domain.Participant { return s.participant }
