package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhu12980/SyncStream/internal/domain"
)

func TestEncodeChat(t *testing.T) {
	data, err := Encode(domain.Message{
		Kind:     domain.KindChat,
		UserId:   "user-1",
		UserName: "alice",
		Text:     "hello",
	})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "chat", raw["type"])
	assert.Equal(t, "user-1", raw["user_id"])
	assert.Equal(t, "hello", raw["message"], "chat text travels as the message field")
	assert.Equal(t, "alice", raw["user_name"])
	assert.NotContains(t, raw, "timestamp", "client frames carry no timestamp")
}

func TestEncodePlayback(t *testing.T) {
	tests := []struct {
		kind      domain.MessageKind
		eventType string
	}{
		{domain.KindPlay, "play"},
		{domain.KindPause, "pause"},
		{domain.KindSeekForward, "forward_10"},
		{domain.KindSeekBack, "back_10"},
		{domain.KindTimeSync, "video_time"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			data, err := Encode(domain.Message{
				Kind:      tt.kind,
				UserId:    "user-1",
				VideoTime: 42.5,
			})
			require.NoError(t, err)

			var raw map[string]any
			require.NoError(t, json.Unmarshal(data, &raw))
			assert.Equal(t, "video_event", raw["type"], "playback kinds share one wire type")
			assert.Equal(t, tt.eventType, raw["event_type"])
			assert.Equal(t, 42.5, raw["video_time"])
		})
	}
}

func TestEncodePresenceRejected(t *testing.T) {
	_, err := Encode(domain.Message{Kind: domain.KindJoin, UserId: "user-1"})
	require.ErrorIs(t, err, ErrUnknownKind, "presence is server-originated")
}

func TestEncodeBroadcast(t *testing.T) {
	stamp := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	data, err := EncodeBroadcast(domain.Message{
		Kind:      domain.KindLeave,
		UserId:    "user-1",
		UserName:  "alice",
		Timestamp: stamp,
	})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "leave", raw["type"])
	assert.Equal(t, "alice", raw["user_name"])
	assert.Equal(t, stamp.Format(time.RFC3339Nano), raw["timestamp"])
}

func TestDecodeChat(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"chat","user_id":"user-1","message":"hi","user_name":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.KindChat, msg.Kind)
	assert.Equal(t, "user-1", msg.UserId)
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, "alice", msg.UserName)
}

func TestDecodeVideoEvent(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"video_event","user_id":"user-1","event_type":"forward_10","video_time":120}`))
	require.NoError(t, err)
	assert.Equal(t, domain.KindSeekForward, msg.Kind)
	assert.Equal(t, 120.0, msg.VideoTime)

	// an explicit zero position is valid
	msg, err = Decode([]byte(`{"type":"video_event","user_id":"user-1","event_type":"play","video_time":0}`))
	require.NoError(t, err)
	assert.Equal(t, domain.KindPlay, msg.Kind)
	assert.Equal(t, 0.0, msg.VideoTime)
}

func TestDecodePresence(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"join","user_id":"user-1","user_name":"alice","timestamp":"2026-08-29T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.KindJoin, msg.Kind)
	assert.Equal(t, 2026, msg.Timestamp.Year())
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{{{`, ErrMalformedFrame},
		{"missing type", `{"user_id":"user-1"}`, ErrMalformedFrame},
		{"unknown type", `{"type":"dance"}`, ErrUnknownKind},
		{"unknown event type", `{"type":"video_event","event_type":"rewind","video_time":1}`, ErrUnknownKind},
		{"missing video time", `{"type":"video_event","event_type":"play"}`, ErrMalformedFrame},
		{"server notice", `{"type":"error","message":"Only room owner can control video"}`, ErrServerNotice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeLenientTimestamp(t *testing.T) {
	// naive isoformat without an offset still parses
	msg, err := Decode([]byte(`{"type":"chat","user_id":"u","message":"m","user_name":"n","timestamp":"2026-08-29T12:00:00.123456"}`))
	require.NoError(t, err)
	assert.Equal(t, 2026, msg.Timestamp.Year())

	// garbage degrades to local now instead of failing the frame
	before := time.Now()
	msg, err = Decode([]byte(`{"type":"chat","user_id":"u","message":"m","user_name":"n","timestamp":"yesterday"}`))
	require.NoError(t, err)
	assert.False(t, msg.Timestamp.Before(before))
}
