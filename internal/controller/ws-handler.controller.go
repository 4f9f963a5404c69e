package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/protocol"
	"github.com/siddhu12980/SyncStream/internal/service/room"
	"github.com/siddhu12980/SyncStream/pkg/ctxlogger"
)

const closeCodeRefused = 4000

func (c controller) handleWS(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	userId := r.URL.Query().Get("user_id")
	name := r.URL.Query().Get("name")
	if roomId == "" || userId == "" || name == "" {
		http.Error(w, "room id, user_id and name are required", http.StatusBadRequest)
		return
	}

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("room_id", roomId))
	ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", userId))

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to upgrade to websocket", "error", err)
		return
	}

	joinResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		Conn:     conn,
		RoomId:   roomId,
		UserId:   userId,
		UserName: name,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "join refused", "error", err)
		c.refuse(conn, err)
		return
	}

	if joinResp.StaleConn != nil {
		joinResp.StaleConn.Close()
	}

	// the newcomer gets the room's latest position before anything else
	c.writeMessage(ctx, conn, joinResp.Snapshot)
	c.broadcast(ctx, joinResp.Conns, joinResp.JoinMessage)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.InfoContext(ctx, "connection closed", "error", err)
			break
		}
		c.handleFrame(ctx, conn, roomId, userId, name, joinResp.IsOwner, data)
	}

	c.handleDisconnect(ctx, conn, name)
}

func (c controller) refuse(conn *websocket.Conn, err error) {
	reason := "connection refused"
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		reason = "Room not found"
	case errors.Is(err, room.ErrRoomInactive):
		reason = "Room is inactive. Wait for owner to join."
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(closeCodeRefused, reason),
		time.Now().Add(5*time.Second))
	conn.Close()
}

func (c controller) handleFrame(ctx context.Context, conn *websocket.Conn, roomId, userId, name string, isOwner bool, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.logger.DebugContext(ctx, "dropping frame", "error", err)
		c.writeError(ctx, conn, err.Error())
		return
	}

	switch {
	case msg.Kind == domain.KindChat:
		if msg.Text == "" {
			c.writeError(ctx, conn, "Missing chat message")
			return
		}

		chatResp, err := c.roomService.BroadcastChat(ctx, &room.BroadcastChatParams{
			RoomId:   roomId,
			UserId:   userId,
			UserName: name,
			Text:     msg.Text,
		})
		if err != nil {
			c.logger.WarnContext(ctx, "failed to broadcast chat", "error", err)
			return
		}
		c.broadcast(ctx, chatResp.Conns, chatResp.Message)

	case msg.Kind.IsPlayback():
		playbackResp, err := c.roomService.BroadcastPlayback(ctx, &room.BroadcastPlaybackParams{
			RoomId:    roomId,
			UserId:    userId,
			UserName:  name,
			IsOwner:   isOwner,
			Kind:      msg.Kind,
			VideoTime: msg.VideoTime,
		})
		if err != nil {
			if errors.Is(err, room.ErrPermissionDenied) {
				c.writeError(ctx, conn, "Only room owner can control video")
				return
			}
			c.logger.WarnContext(ctx, "failed to broadcast playback", "error", err)
			return
		}
		c.broadcast(ctx, playbackResp.Conns, playbackResp.Message)

	default:
		c.writeError(ctx, conn, "Unknown event type")
	}
}

func (c controller) handleDisconnect(ctx context.Context, conn *websocket.Conn, name string) {
	resp, err := c.roomService.Disconnect(ctx, &room.DisconnectParams{
		Conn:     conn,
		UserName: name,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "disconnect without registration", "error", err)
		return
	}

	if resp.RoomClosed {
		c.broadcast(ctx, resp.ClosedConns, resp.LeaveMessage)
		for _, member := range resp.ClosedConns {
			member.Close()
		}
		return
	}

	c.broadcast(ctx, resp.Conns, resp.LeaveMessage)
}

func (c controller) writeMessage(ctx context.Context, conn *websocket.Conn, msg domain.Message) {
	data, err := protocol.EncodeBroadcast(msg)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode message", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "error", err)
	}
}

func (c controller) writeError(ctx context.Context, conn *websocket.Conn, text string) {
	data, err := protocol.EncodeError(text)
	if err != nil {
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.DebugContext(ctx, "failed to write error to conn", "error", err)
	}
}

func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, msg domain.Message) {
	data, err := protocol.EncodeBroadcast(msg)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode broadcast", "error", err)
		return
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.DebugContext(ctx, "failed to write to conn", "error", err)
		}
	}
}
