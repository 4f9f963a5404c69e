package inmemory

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhu12980/SyncStream/internal/repository/connection"
)

func TestAddAndRemove(t *testing.T) {
	repo := NewRepo()

	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	stale := repo.Add(conn1, "room-1", "user-1")
	assert.Nil(t, stale)
	repo.Add(conn2, "room-1", "user-2")

	assert.Equal(t, 2, len(repo.GetRoomConns("room-1")))

	got, err := repo.GetConn("room-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, conn1, got)

	roomId, participantId, err := repo.RemoveByConn(conn1)
	require.NoError(t, err)
	assert.Equal(t, "room-1", roomId)
	assert.Equal(t, "user-1", participantId)
	assert.Equal(t, 1, len(repo.GetRoomConns("room-1")))

	_, _, err = repo.RemoveByConn(conn1)
	require.ErrorIs(t, err, connection.ErrNotFound)
}

func TestAddReplacesStaleConn(t *testing.T) {
	repo := NewRepo()

	old := &websocket.Conn{}
	repo.Add(old, "room-1", "user-1")

	fresh := &websocket.Conn{}
	stale := repo.Add(fresh, "room-1", "user-1")
	require.Equal(t, old, stale)
	assert.Equal(t, 1, len(repo.GetRoomConns("room-1")))

	// removing the stale conn afterwards must not evict the fresh one
	_, _, err := repo.RemoveByConn(old)
	require.ErrorIs(t, err, connection.ErrNotFound)
	got, err := repo.GetConn("room-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestRemoveRoomDrainsConns(t *testing.T) {
	repo := NewRepo()

	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}
	repo.Add(conn1, "room-1", "user-1")
	repo.Add(conn2, "room-1", "user-2")
	other := &websocket.Conn{}
	repo.Add(other, "room-2", "user-3")

	drained := repo.RemoveRoom("room-1")
	assert.ElementsMatch(t, []*websocket.Conn{conn1, conn2}, drained)
	assert.Empty(t, repo.GetRoomConns("room-1"))

	// conns of a drained room are fully unregistered
	_, _, err := repo.RemoveByConn(conn1)
	require.ErrorIs(t, err, connection.ErrNotFound)

	// other rooms are untouched
	assert.Equal(t, 1, len(repo.GetRoomConns("room-2")))

	assert.Nil(t, repo.RemoveRoom("room-1"), "removing twice is harmless")
}
