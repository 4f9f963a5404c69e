package session

import (
	"sync"

	"github.com/siddhu12980/SyncStream/internal/domain"
)

// playbackFeed fans inbound playback events out to any number of subscribers.
// Subscribing returns a cancel func; there is no single overwritable callback
// slot, so a late subscriber cannot silently displace an earlier one.
type playbackFeed struct {
	mu     sync.Mutex
	subs   map[int]func(domain.Message)
	nextId int
}

func newPlaybackFeed() *playbackFeed {
	return &playbackFeed{subs: make(map[int]func(domain.Message))}
}

func (f *playbackFeed) subscribe(fn func(domain.Message)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextId
	f.nextId++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *playbackFeed) publish(msg domain.Message) {
	f.mu.Lock()
	subs := make([]func(domain.Message), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}
}
