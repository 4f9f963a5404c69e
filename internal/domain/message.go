package domain

import "time"

type MessageKind string

const (
	KindChat        MessageKind = "chat"
	KindJoin        MessageKind = "join"
	KindLeave       MessageKind = "leave"
	KindPlay        MessageKind = "play"
	KindPause       MessageKind = "pause"
	KindSeekForward MessageKind = "seek_forward"
	KindSeekBack    MessageKind = "seek_back"
	KindTimeSync    MessageKind = "time_sync"
)

func (k MessageKind) IsPlayback() bool {
	switch k {
	case KindPlay, KindPause, KindSeekForward, KindSeekBack, KindTimeSync:
		return true
	}

	return false
}

func (k MessageKind) IsPresence() bool {
	return k == KindJoin || k == KindLeave
}

// Message is the single union exchanged over a room channel. Kind is set at
// construction and never changes; which other fields are meaningful depends on it:
// Text for chat, VideoTime for playback kinds.
type Message struct {
	Kind      MessageKind
	UserId    string
	UserName  string
	Text      string
	VideoTime float64
	Timestamp time.Time
}
