// Package protocol frames messages for the room channel. Each message is one JSON
// text frame, a flat object discriminated by "type". Playback events are the odd
// one out on the wire: they travel as type "video_event" with the actual action in
// a nested "event_type" field, while chat and presence use "type" directly. The
// codec hides that asymmetry behind the domain.Message union.
//
// The codec performs no business logic: it knows nothing about roles or drift.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/siddhu12980/SyncStream/internal/domain"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownKind    = errors.New("unknown message kind")
	// ErrServerNotice marks an inbound "error" frame. It is a diagnostic for the
	// offending sender, never a transcript entry.
	ErrServerNotice = errors.New("server notice")
)

const (
	typeChat       = "chat"
	typeJoin       = "join"
	typeLeave      = "leave"
	typeVideoEvent = "video_event"
	typeError      = "error"
)

const (
	eventTypePlay    = "play"
	eventTypePause   = "pause"
	eventTypeForward = "forward_10"
	eventTypeBack    = "back_10"
	eventTypeSync    = "video_time"
)

type chatFrame struct {
	Type      string `json:"type"`
	UserId    string `json:"user_id"`
	Message   string `json:"message"`
	UserName  string `json:"user_name"`
	Timestamp string `json:"timestamp,omitempty"`
}

type presenceFrame struct {
	Type      string `json:"type"`
	UserId    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Timestamp string `json:"timestamp"`
}

type videoEventFrame struct {
	Type      string  `json:"type"`
	UserId    string  `json:"user_id"`
	UserName  string  `json:"user_name,omitempty"`
	EventType string  `json:"event_type"`
	VideoTime float64 `json:"video_time"`
	Timestamp string  `json:"timestamp,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// frame is the decode-side envelope. VideoTime is a pointer so a missing field can
// be told apart from an explicit zero (a play event at 0s is valid).
type frame struct {
	Type      string   `json:"type"`
	UserId    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	Message   string   `json:"message"`
	EventType string   `json:"event_type"`
	VideoTime *float64 `json:"video_time"`
	Timestamp string   `json:"timestamp"`
}

func kindToEventType(kind domain.MessageKind) (string, bool) {
	switch kind {
	case domain.KindPlay:
		return eventTypePlay, true
	case domain.KindPause:
		return eventTypePause, true
	case domain.KindSeekForward:
		return eventTypeForward, true
	case domain.KindSeekBack:
		return eventTypeBack, true
	case domain.KindTimeSync:
		return eventTypeSync, true
	}

	return "", false
}

func eventTypeToKind(eventType string) (domain.MessageKind, bool) {
	switch eventType {
	case eventTypePlay:
		return domain.KindPlay, true
	case eventTypePause:
		return domain.KindPause, true
	case eventTypeForward:
		return domain.KindSeekForward, true
	case eventTypeBack:
		return domain.KindSeekBack, true
	case eventTypeSync:
		return domain.KindTimeSync, true
	}

	return "", false
}

// Encode serializes a client-originated message. Clients only ever send chat and
// playback; presence is server-originated and not encodable here.
func Encode(msg domain.Message) ([]byte, error) {
	switch {
	case msg.Kind == domain.KindChat:
		return json.Marshal(chatFrame{
			Type:     typeChat,
			UserId:   msg.UserId,
			Message:  msg.Text,
			UserName: msg.UserName,
		})
	case msg.Kind.IsPlayback():
		eventType, _ := kindToEventType(msg.Kind)
		return json.Marshal(videoEventFrame{
			Type:      typeVideoEvent,
			UserId:    msg.UserId,
			EventType: eventType,
			VideoTime: msg.VideoTime,
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, msg.Kind)
}

// EncodeBroadcast serializes a server-side rebroadcast, which always carries
// user_name and a timestamp.
func EncodeBroadcast(msg domain.Message) ([]byte, error) {
	timestamp := msg.Timestamp.Format(time.RFC3339Nano)

	switch {
	case msg.Kind == domain.KindChat:
		return json.Marshal(chatFrame{
			Type:      typeChat,
			UserId:    msg.UserId,
			Message:   msg.Text,
			UserName:  msg.UserName,
			Timestamp: timestamp,
		})
	case msg.Kind.IsPresence():
		return json.Marshal(presenceFrame{
			Type:      string(msg.Kind),
			UserId:    msg.UserId,
			UserName:  msg.UserName,
			Timestamp: timestamp,
		})
	case msg.Kind.IsPlayback():
		eventType, _ := kindToEventType(msg.Kind)
		return json.Marshal(videoEventFrame{
			Type:      typeVideoEvent,
			UserId:    msg.UserId,
			UserName:  msg.UserName,
			EventType: eventType,
			VideoTime: msg.VideoTime,
			Timestamp: timestamp,
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, msg.Kind)
}

// EncodeError serializes the error notice sent back to an offending sender only.
func EncodeError(text string) ([]byte, error) {
	return json.Marshal(errorFrame{Type: typeError, Message: text})
}

// Decode parses an inbound frame into the message union. It never panics on bad
// input: anything that does not parse as a known kind comes back as an error for
// the caller to drop with a diagnostic.
func Decode(data []byte) (domain.Message, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch f.Type {
	case "":
		return domain.Message{}, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	case typeChat:
		return domain.Message{
			Kind:      domain.KindChat,
			UserId:    f.UserId,
			UserName:  f.UserName,
			Text:      f.Message,
			Timestamp: parseTimestamp(f.Timestamp),
		}, nil
	case typeJoin, typeLeave:
		return domain.Message{
			Kind:      domain.MessageKind(f.Type),
			UserId:    f.UserId,
			UserName:  f.UserName,
			Timestamp: parseTimestamp(f.Timestamp),
		}, nil
	case typeVideoEvent:
		if f.VideoTime == nil {
			return domain.Message{}, fmt.Errorf("%w: missing video_time", ErrMalformedFrame)
		}
		kind, ok := eventTypeToKind(f.EventType)
		if !ok {
			return domain.Message{}, fmt.Errorf("%w: event_type %q", ErrUnknownKind, f.EventType)
		}
		return domain.Message{
			Kind:      kind,
			UserId:    f.UserId,
			UserName:  f.UserName,
			VideoTime: *f.VideoTime,
			Timestamp: parseTimestamp(f.Timestamp),
		}, nil
	case typeError:
		return domain.Message{}, fmt.Errorf("%w: %s", ErrServerNotice, f.Message)
	}

	return domain.Message{}, fmt.Errorf("%w: type %q", ErrUnknownKind, f.Type)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	// naive isoformat without a zone offset, as emitted by older hub builds
	"2006-01-02T15:04:05.999999",
}

// parseTimestamp is lenient: the timestamp is assigned by whichever side first
// observed the event, so an unparseable or absent value degrades to local now.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Now()
}
