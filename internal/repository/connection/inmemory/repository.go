package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/siddhu12980/SyncStream/internal/repository/connection"
	"golang.org/x/exp/maps"
)

type connInfo struct {
	roomId        string
	participantId string
}

// repo tracks live websocket conns per room. The conn handles live only here;
// everything else refers to participants by id.
type repo struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*websocket.Conn
	conns map[*websocket.Conn]connInfo
}

func NewRepo() *repo {
	return &repo{
		rooms: make(map[string]map[string]*websocket.Conn),
		conns: make(map[*websocket.Conn]connInfo),
	}
}

// Add registers a conn for a participant. A participant reconnecting before the
// old conn is reaped replaces it; the stale conn is returned for the caller to
// close.
func (r *repo) Add(conn *websocket.Conn, roomId, participantId string) *websocket.Conn {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	slog.Debug(funcName, "room_id", roomId, "participant_id", participantId)

	var stale *websocket.Conn
	members, ok := r.rooms[roomId]
	if !ok {
		members = make(map[string]*websocket.Conn)
		r.rooms[roomId] = members
	} else if old, ok := members[participantId]; ok {
		stale = old
		delete(r.conns, old)
	}

	members[participantId] = conn
	r.conns[conn] = connInfo{roomId: roomId, participantId: participantId}

	return stale
}

// RemoveByConn unregisters a conn and reports who it belonged to.
func (r *repo) RemoveByConn(conn *websocket.Conn) (roomId, participantId string, err error) {
	funcName := "connection.inmemory.RemoveByConn"
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.conns[conn]
	if !ok {
		slog.Debug(funcName, "error", connection.ErrNotFound)
		return "", "", connection.ErrNotFound
	}

	delete(r.conns, conn)
	if members, ok := r.rooms[info.roomId]; ok {
		// only delete if this conn is still the participant's current one
		if members[info.participantId] == conn {
			delete(members, info.participantId)
		}
		if len(members) == 0 {
			delete(r.rooms, info.roomId)
		}
	}

	slog.Debug(funcName, "room_id", info.roomId, "participant_id", info.participantId)
	return info.roomId, info.participantId, nil
}

func (r *repo) GetConn(roomId, participantId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.rooms[roomId][participantId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetRoomConns(roomId string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Values(r.rooms[roomId])
}

// RemoveRoom drops every conn in the room and returns them for closing.
func (r *repo) RemoveRoom(roomId string) []*websocket.Conn {
	funcName := "connection.inmemory.RemoveRoom"
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomId]
	if !ok {
		return nil
	}

	conns := maps.Values(members)
	for _, conn := range conns {
		delete(r.conns, conn)
	}
	delete(r.rooms, roomId)

	slog.Debug(funcName, "room_id", roomId, "removed", len(conns))
	return conns
}
