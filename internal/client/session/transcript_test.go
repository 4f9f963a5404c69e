package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhu12980/SyncStream/internal/domain"
)

func TestTranscriptKeepsArrivalOrder(t *testing.T) {
	tr := NewTranscript("self-id")

	tr.Append(domain.Message{Kind: domain.KindJoin, UserId: "other", UserName: "other"})
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "other", Text: "first"})
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "self-id", Text: "second"})
	tr.Append(domain.Message{Kind: domain.KindLeave, UserId: "other", UserName: "other"})

	entries := tr.Entries()
	require.Equal(t, 4, len(entries))
	assert.Equal(t, domain.KindJoin, entries[0].Kind)
	assert.Equal(t, "first", entries[1].Text)
	assert.Equal(t, "second", entries[2].Text)
	assert.Equal(t, domain.KindLeave, entries[3].Kind)
}

func TestTranscriptUnread(t *testing.T) {
	tr := NewTranscript("self-id")

	// three foreign chats while the panel is closed
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "a", Text: "1"})
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "b", Text: "2"})
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "a", Text: "3"})
	assert.Equal(t, 3, tr.Unread())

	// own messages never count
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "self-id", Text: "mine"})
	assert.Equal(t, 3, tr.Unread())

	// presence never counts
	tr.Append(domain.Message{Kind: domain.KindJoin, UserId: "c"})
	tr.Append(domain.Message{Kind: domain.KindLeave, UserId: "c"})
	assert.Equal(t, 3, tr.Unread())

	// opening the panel resets the counter
	tr.OpenPanel()
	assert.Equal(t, 0, tr.Unread())

	// an open panel absorbs incoming chat as read
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "a", Text: "4"})
	assert.Equal(t, 0, tr.Unread())

	// closed again: counting resumes
	tr.ClosePanel()
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "a", Text: "5"})
	assert.Equal(t, 1, tr.Unread())
}

func TestTranscriptEntriesIsACopy(t *testing.T) {
	tr := NewTranscript("self-id")
	tr.Append(domain.Message{Kind: domain.KindChat, UserId: "a", Text: "1"})

	entries := tr.Entries()
	entries[0].Text = "mutated"

	assert.Equal(t, "1", tr.Entries()[0].Text)
}

func TestTranscriptRendering(t *testing.T) {
	tr := NewTranscript("self-id")

	assert.True(t, tr.IsOwn(domain.Message{Kind: domain.KindChat, UserId: "self-id"}))
	assert.False(t, tr.IsOwn(domain.Message{Kind: domain.KindChat, UserId: "other"}))
	assert.True(t, tr.IsSystem(domain.Message{Kind: domain.KindJoin}))
	assert.True(t, tr.IsSystem(domain.Message{Kind: domain.KindLeave}))
	assert.False(t, tr.IsSystem(domain.Message{Kind: domain.KindChat}))
}

func TestPlaybackFeedFanout(t *testing.T) {
	feed := newPlaybackFeed()

	var first, second []domain.MessageKind
	cancelFirst := feed.subscribe(func(msg domain.Message) { first = append(first, msg.Kind) })
	feed.subscribe(func(msg domain.Message) { second = append(second, msg.Kind) })

	feed.publish(domain.Message{Kind: domain.KindPlay})
	assert.Equal(t, []domain.MessageKind{domain.KindPlay}, first)
	assert.Equal(t, []domain.MessageKind{domain.KindPlay}, second)

	// a cancelled subscriber stops receiving, the rest are unaffected
	cancelFirst()
	feed.publish(domain.Message{Kind: domain.KindPause})
	assert.Equal(t, 1, len(first))
	assert.Equal(t, 2, len(second))
}
