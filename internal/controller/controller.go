package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/service/room"
	"github.com/siddhu12980/SyncStream/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (domain.Room, error)
	GetRoom(ctx context.Context, roomId string) (domain.Room, error)
	AddVideo(context.Context, *room.AddVideoParams) (domain.Room, error)
	RemoveRoom(context.Context, *room.RemoveRoomParams) (room.RemoveRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	BroadcastChat(context.Context, *room.BroadcastChatParams) (room.BroadcastResponse, error)
	BroadcastPlayback(context.Context, *room.BroadcastPlaybackParams) (room.BroadcastResponse, error)
	Disconnect(context.Context, *room.DisconnectParams) (room.DisconnectResponse, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	return &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		logger:      logger,
	}
}
