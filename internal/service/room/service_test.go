package room

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/repository/connection/inmemory"
	roomRedis "github.com/siddhu12980/SyncStream/internal/repository/room/redis"
)

func newTestService(t *testing.T) *service {
	t.Helper()

	s := miniredis.RunT(t)
	r := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	roomRepo := roomRedis.NewRepo(r, time.Hour, slog.Default())
	connRepo := inmemory.NewRepo()

	return NewService(roomRepo, connRepo, slog.Default())
}

func TestRoomLifecycle(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	service := newTestService(t)
	ctx := context.Background()

	// create room
	created, err := service.CreateRoom(ctx, &CreateRoomParams{
		Name:      "movie night",
		VideoKey:  "some-video-key",
		VideoType: "hls",
		CreatedBy: "owner-id",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id, "room id is empty")
	assert.Equal(t, domain.RoomStatusInactive, created.Status, "room must start inactive")
	t.Log("room created")

	// viewer refused while inactive
	viewerConn := &websocket.Conn{}
	_, err = service.JoinRoom(ctx, &JoinRoomParams{
		Conn:     viewerConn,
		RoomId:   created.Id,
		UserId:   "viewer-id",
		UserName: "viewer",
	})
	require.ErrorIs(t, err, ErrRoomInactive)

	// owner join activates the room
	ownerConn := &websocket.Conn{}
	ownerJoin, err := service.JoinRoom(ctx, &JoinRoomParams{
		Conn:     ownerConn,
		RoomId:   created.Id,
		UserId:   "owner-id",
		UserName: "owner",
	})
	require.NoError(t, err)
	assert.True(t, ownerJoin.IsOwner, "owner must be recognized")
	assert.Equal(t, domain.RoomStatusActive, ownerJoin.Room.Status, "owner join must activate room")
	assert.Equal(t, domain.KindPlay, ownerJoin.Snapshot.Kind, "snapshot must be a play event")
	assert.Equal(t, 0.0, ownerJoin.Snapshot.VideoTime, "fresh room snapshots at 0")
	assert.Equal(t, domain.KindJoin, ownerJoin.JoinMessage.Kind)
	t.Log("owner joined")

	// viewer joins the now active room
	viewerJoin, err := service.JoinRoom(ctx, &JoinRoomParams{
		Conn:     viewerConn,
		RoomId:   created.Id,
		UserId:   "viewer-id",
		UserName: "viewer",
	})
	require.NoError(t, err)
	assert.False(t, viewerJoin.IsOwner)
	assert.Equal(t, 2, len(viewerJoin.Conns), "join must reach both members")
	t.Log("viewer joined")

	// chat reaches everyone, sender included
	chatResp, err := service.BroadcastChat(ctx, &BroadcastChatParams{
		RoomId:   created.Id,
		UserId:   "viewer-id",
		UserName: "viewer",
		Text:     "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, len(chatResp.Conns), "chat must reach both members")
	assert.Equal(t, "hello", chatResp.Message.Text)
	assert.False(t, chatResp.Message.Timestamp.IsZero(), "chat must be stamped")
}

func TestBroadcastPlayback(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{
		Name:      "sync test",
		CreatedBy: "owner-id",
	})
	require.NoError(t, err)

	ownerConn := &websocket.Conn{}
	_, err = service.JoinRoom(ctx, &JoinRoomParams{Conn: ownerConn, RoomId: created.Id, UserId: "owner-id", UserName: "owner"})
	require.NoError(t, err)

	viewerConn := &websocket.Conn{}
	_, err = service.JoinRoom(ctx, &JoinRoomParams{Conn: viewerConn, RoomId: created.Id, UserId: "viewer-id", UserName: "viewer"})
	require.NoError(t, err)

	// viewer may not produce playback events
	_, err = service.BroadcastPlayback(ctx, &BroadcastPlaybackParams{
		RoomId:    created.Id,
		UserId:    "viewer-id",
		IsOwner:   false,
		Kind:      domain.KindPause,
		VideoTime: 10,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)

	// owner event excludes the sender's conn
	resp, err := service.BroadcastPlayback(ctx, &BroadcastPlaybackParams{
		RoomId:    created.Id,
		UserId:    "owner-id",
		UserName:  "owner",
		IsOwner:   true,
		Kind:      domain.KindPlay,
		VideoTime: 42.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, len(resp.Conns), "sender must be excluded from playback broadcast")
	assert.Equal(t, viewerConn, resp.Conns[0])
	assert.Equal(t, 42.5, resp.Message.VideoTime)

	// a late joiner snapshots the stored position
	lateConn := &websocket.Conn{}
	lateJoin, err := service.JoinRoom(ctx, &JoinRoomParams{Conn: lateConn, RoomId: created.Id, UserId: "late-id", UserName: "late"})
	require.NoError(t, err)
	assert.Equal(t, 42.5, lateJoin.Snapshot.VideoTime, "late joiner must see the stored position")
}

func TestDisconnect(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{
		Name:      "teardown test",
		CreatedBy: "owner-id",
	})
	require.NoError(t, err)

	ownerConn := &websocket.Conn{}
	_, err = service.JoinRoom(ctx, &JoinRoomParams{Conn: ownerConn, RoomId: created.Id, UserId: "owner-id", UserName: "owner"})
	require.NoError(t, err)

	viewerConn := &websocket.Conn{}
	_, err = service.JoinRoom(ctx, &JoinRoomParams{Conn: viewerConn, RoomId: created.Id, UserId: "viewer-id", UserName: "viewer"})
	require.NoError(t, err)

	// viewer leaves, room stays up
	resp, err := service.Disconnect(ctx, &DisconnectParams{Conn: viewerConn, UserName: "viewer"})
	require.NoError(t, err)
	assert.False(t, resp.RoomClosed, "viewer leave must not close the room")
	assert.Equal(t, domain.KindLeave, resp.LeaveMessage.Kind)
	assert.Equal(t, "viewer-id", resp.LeaveMessage.UserId)
	assert.Equal(t, 1, len(resp.Conns), "owner must remain")

	found, err := service.GetRoom(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusActive, found.Status)

	// owner leaves, room closes
	resp, err = service.Disconnect(ctx, &DisconnectParams{Conn: ownerConn, UserName: "owner"})
	require.NoError(t, err)
	assert.True(t, resp.RoomClosed, "owner leave must close the room")
	assert.Empty(t, resp.ClosedConns, "no other members remained")

	found, err = service.GetRoom(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusInactive, found.Status, "room must deactivate when the owner leaves")
}

func TestStaleConnReplacement(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateRoom(ctx, &CreateRoomParams{
		Name:      "reconnect test",
		CreatedBy: "owner-id",
	})
	require.NoError(t, err)

	firstConn := &websocket.Conn{}
	firstJoin, err := service.JoinRoom(ctx, &JoinRoomParams{Conn: firstConn, RoomId: created.Id, UserId: "owner-id", UserName: "owner"})
	require.NoError(t, err)
	assert.Nil(t, firstJoin.StaleConn)

	// same participant reconnects with a new conn
	secondConn := &websocket.Conn{}
	secondJoin, err := service.JoinRoom(ctx, &JoinRoomParams{Conn: secondConn, RoomId: created.Id, UserId: "owner-id", UserName: "owner"})
	require.NoError(t, err)
	assert.Equal(t, firstConn, secondJoin.StaleConn, "previous conn must surface for closing")
	assert.Equal(t, 1, len(secondJoin.Conns), "replaced conn must not linger in the room")
}
