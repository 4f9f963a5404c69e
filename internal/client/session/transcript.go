package session

import (
	"sync"

	"github.com/siddhu12980/SyncStream/internal/domain"
)

// Transcript is the append-only chat/presence log for one room session, plus the
// unread bookkeeping for a collapsible panel. Entries keep arrival order; they are
// never deduplicated or reordered by timestamp.
type Transcript struct {
	selfId string

	mu        sync.Mutex
	entries   []domain.Message
	unread    int
	panelOpen bool
}

func NewTranscript(selfId string) *Transcript {
	return &Transcript{selfId: selfId}
}

func (t *Transcript) Append(msg domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, msg)

	// presence never counts; own messages never count; an open panel absorbs
	// everything as read
	if msg.Kind == domain.KindChat && msg.UserId != t.selfId && !t.panelOpen {
		t.unread++
	}
}

func (t *Transcript) Entries() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]domain.Message, len(t.entries))
	copy(entries, t.entries)

	return entries
}

func (t *Transcript) Unread() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.unread
}

func (t *Transcript) OpenPanel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.panelOpen = true
	t.unread = 0
}

func (t *Transcript) ClosePanel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.panelOpen = false
}

// IsOwn reports whether a chat entry should render on the local side.
func (t *Transcript) IsOwn(msg domain.Message) bool {
	return msg.UserId == t.selfId
}

// IsSystem reports whether an entry renders as a centered system notice.
func (t *Transcript) IsSystem(msg domain.Message) bool {
	return msg.Kind.IsPresence()
}
