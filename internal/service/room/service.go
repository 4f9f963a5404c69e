package room

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/repository/room"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomInactive     = errors.New("room is inactive, wait for owner to join")
	ErrPermissionDenied = errors.New("permission denied")
)

type iRoomRepo interface {
	SetRoom(context.Context, *room.SetRoomParams) error
	GetRoom(ctx context.Context, roomId string) (room.Room, error)
	UpdateRoomStatus(context.Context, *room.UpdateRoomStatusParams) error
	UpdateRoomVideo(context.Context, *room.UpdateRoomVideoParams) error
	RemoveRoom(ctx context.Context, roomId string) error
	SetPlaybackState(context.Context, *room.SetPlaybackStateParams) error
	GetPlaybackState(ctx context.Context, roomId string) (float64, error)
	RemovePlaybackState(ctx context.Context, roomId string) error
}

type iConnRepo interface {
	Add(conn *websocket.Conn, roomId, participantId string) (stale *websocket.Conn)
	RemoveByConn(conn *websocket.Conn) (roomId, participantId string, err error)
	GetConn(roomId, participantId string) (*websocket.Conn, error)
	GetRoomConns(roomId string) []*websocket.Conn
	RemoveRoom(roomId string) []*websocket.Conn
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	logger   *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
	}
}

func toDomainRoom(roomId string, stored room.Room) domain.Room {
	return domain.Room{
		Id:          roomId,
		Name:        stored.Name,
		Description: stored.Description,
		VideoKey:    stored.VideoKey,
		VideoType:   domain.VideoType(stored.VideoType),
		CreatedBy:   stored.CreatedBy,
		Status:      domain.RoomStatus(stored.Status),
		CreatedAt:   time.Unix(stored.CreatedAt, 0),
		UpdatedAt:   time.Unix(stored.UpdatedAt, 0),
	}
}

func (s service) getRoom(ctx context.Context, roomId string) (domain.Room, error) {
	stored, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return domain.Room{}, ErrRoomNotFound
		}
		return domain.Room{}, err
	}

	return toDomainRoom(roomId, stored), nil
}
