package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/repository/room"
)

type JoinRoomParams struct {
	Conn     *websocket.Conn
	RoomId   string
	UserId   string
	UserName string
}

type JoinRoomResponse struct {
	Room    domain.Room
	IsOwner bool
	// Snapshot is the synthetic play event carrying the room's latest stored
	// position, written to the newcomer only. A fresh room snapshots at 0.
	Snapshot domain.Message
	// JoinMessage is broadcast to every conn in Conns (newcomer included).
	JoinMessage domain.Message
	Conns       []*websocket.Conn
	// StaleConn is a previous conn of the same participant, to be closed.
	StaleConn *websocket.Conn
}

// JoinRoom admits a participant to a room's live session. The owner's connect
// activates the room; viewers are refused while it is inactive.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	joined, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	isOwner := joined.CreatedBy == params.UserId
	if isOwner {
		if joined.Status != domain.RoomStatusActive {
			if err := s.roomRepo.UpdateRoomStatus(ctx, &room.UpdateRoomStatusParams{
				RoomId:    params.RoomId,
				Status:    string(domain.RoomStatusActive),
				UpdatedAt: time.Now().Unix(),
			}); err != nil {
				return JoinRoomResponse{}, fmt.Errorf("failed to activate room: %w", err)
			}
			joined.Status = domain.RoomStatusActive
		}
	} else if joined.Status != domain.RoomStatusActive {
		return JoinRoomResponse{}, ErrRoomInactive
	}

	videoTime, err := s.roomRepo.GetPlaybackState(ctx, params.RoomId)
	if err != nil && !errors.Is(err, room.ErrPlaybackStateNotFound) {
		return JoinRoomResponse{}, fmt.Errorf("failed to get playback state: %w", err)
	}

	stale := s.connRepo.Add(params.Conn, params.RoomId, params.UserId)
	now := time.Now()

	return JoinRoomResponse{
		Room:    joined,
		IsOwner: isOwner,
		Snapshot: domain.Message{
			Kind:      domain.KindPlay,
			UserId:    params.UserId,
			UserName:  params.UserName,
			VideoTime: videoTime,
			Timestamp: now,
		},
		JoinMessage: domain.Message{
			Kind:      domain.KindJoin,
			UserId:    params.UserId,
			UserName:  params.UserName,
			Timestamp: now,
		},
		Conns:     s.connRepo.GetRoomConns(params.RoomId),
		StaleConn: stale,
	}, nil
}

type BroadcastChatParams struct {
	RoomId   string
	UserId   string
	UserName string
	Text     string
}

type BroadcastResponse struct {
	Message domain.Message
	Conns   []*websocket.Conn
}

// BroadcastChat stamps a chat message and returns it with every conn in the room,
// sender included.
func (s service) BroadcastChat(ctx context.Context, params *BroadcastChatParams) (BroadcastResponse, error) {
	return BroadcastResponse{
		Message: domain.Message{
			Kind:      domain.KindChat,
			UserId:    params.UserId,
			UserName:  params.UserName,
			Text:      params.Text,
			Timestamp: time.Now(),
		},
		Conns: s.connRepo.GetRoomConns(params.RoomId),
	}, nil
}

type BroadcastPlaybackParams struct {
	RoomId    string
	UserId    string
	UserName  string
	IsOwner   bool
	Kind      domain.MessageKind
	VideoTime float64
}

// BroadcastPlayback records the room's latest position and returns the event with
// every conn except the sender's: echoing a playback event back to its producer
// would loop it through the producer's own reconciliation.
func (s service) BroadcastPlayback(ctx context.Context, params *BroadcastPlaybackParams) (BroadcastResponse, error) {
	if !params.IsOwner {
		return BroadcastResponse{}, ErrPermissionDenied
	}

	if err := s.roomRepo.SetPlaybackState(ctx, &room.SetPlaybackStateParams{
		RoomId:    params.RoomId,
		VideoTime: params.VideoTime,
	}); err != nil {
		return BroadcastResponse{}, fmt.Errorf("failed to set playback state: %w", err)
	}

	senderConn, err := s.connRepo.GetConn(params.RoomId, params.UserId)
	if err != nil {
		senderConn = nil
	}

	conns := s.connRepo.GetRoomConns(params.RoomId)
	others := make([]*websocket.Conn, 0, len(conns))
	for _, conn := range conns {
		if conn != senderConn {
			others = append(others, conn)
		}
	}

	return BroadcastResponse{
		Message: domain.Message{
			Kind:      params.Kind,
			UserId:    params.UserId,
			UserName:  params.UserName,
			VideoTime: params.VideoTime,
			Timestamp: time.Now(),
		},
		Conns: others,
	}, nil
}

type DisconnectParams struct {
	Conn     *websocket.Conn
	UserName string
}

type DisconnectResponse struct {
	RoomClosed bool
	// LeaveMessage is broadcast to Conns, the members remaining after departure.
	LeaveMessage domain.Message
	Conns        []*websocket.Conn
	// ClosedConns are drained conns of a closed room; the caller closes them.
	ClosedConns []*websocket.Conn
}

// Disconnect handles a departed conn. An owner's departure closes the room: it
// goes inactive, its stored position is dropped and every remaining conn is
// closed. A viewer's departure only announces the leave.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	roomId, userId, err := s.connRepo.RemoveByConn(params.Conn)
	if err != nil {
		return DisconnectResponse{}, err
	}

	leave := domain.Message{
		Kind:      domain.KindLeave,
		UserId:    userId,
		UserName:  params.UserName,
		Timestamp: time.Now(),
	}

	stored, err := s.getRoom(ctx, roomId)
	if err != nil {
		// room already gone; nothing left to announce
		return DisconnectResponse{LeaveMessage: leave}, nil
	}

	if stored.CreatedBy != userId {
		return DisconnectResponse{
			LeaveMessage: leave,
			Conns:        s.connRepo.GetRoomConns(roomId),
		}, nil
	}

	if err := s.roomRepo.UpdateRoomStatus(ctx, &room.UpdateRoomStatusParams{
		RoomId:    roomId,
		Status:    string(domain.RoomStatusInactive),
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		return DisconnectResponse{}, fmt.Errorf("failed to deactivate room: %w", err)
	}

	if err := s.roomRepo.RemovePlaybackState(ctx, roomId); err != nil {
		s.logger.WarnContext(ctx, "failed to remove playback state", "room_id", roomId, "error", err)
	}

	return DisconnectResponse{
		RoomClosed:   true,
		LeaveMessage: leave,
		ClosedConns:  s.connRepo.RemoveRoom(roomId),
	}, nil
}
