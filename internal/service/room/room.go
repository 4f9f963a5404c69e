package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/internal/repository/room"
)

type CreateRoomParams struct {
	Name        string
	Description string
	VideoKey    string
	VideoType   string
	CreatedBy   string
}

// CreateRoom stores a new room. Rooms start inactive; the owner's first websocket
// connect activates them.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (domain.Room, error) {
	roomId := uuid.NewString()
	now := time.Now().Unix()

	if err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:      roomId,
		Name:        params.Name,
		Description: params.Description,
		VideoKey:    params.VideoKey,
		VideoType:   params.VideoType,
		CreatedBy:   params.CreatedBy,
		Status:      string(domain.RoomStatusInactive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return domain.Room{}, fmt.Errorf("failed to set room: %w", err)
	}

	return s.getRoom(ctx, roomId)
}

// GetRoom returns the public room metadata. This is what clients read to resolve
// the admin role (created_by) and pick a player adapter (video_key/video_type).
func (s service) GetRoom(ctx context.Context, roomId string) (domain.Room, error) {
	return s.getRoom(ctx, roomId)
}

type AddVideoParams struct {
	RoomId    string
	SenderId  string
	VideoKey  string
	VideoType string
}

func (s service) AddVideo(ctx context.Context, params *AddVideoParams) (domain.Room, error) {
	stored, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return domain.Room{}, err
	}

	if stored.CreatedBy != params.SenderId {
		return domain.Room{}, ErrPermissionDenied
	}

	if err := s.roomRepo.UpdateRoomVideo(ctx, &room.UpdateRoomVideoParams{
		RoomId:    params.RoomId,
		VideoKey:  params.VideoKey,
		VideoType: params.VideoType,
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		return domain.Room{}, fmt.Errorf("failed to update room video: %w", err)
	}

	return s.getRoom(ctx, params.RoomId)
}

type RemoveRoomParams struct {
	RoomId   string
	SenderId string
}

type RemoveRoomResponse struct {
	// ClosedConns are the live conns of the removed room; the caller closes them.
	ClosedConns []*websocket.Conn
}

func (s service) RemoveRoom(ctx context.Context, params *RemoveRoomParams) (RemoveRoomResponse, error) {
	stored, err := s.getRoom(ctx, params.RoomId)
	if err != nil {
		return RemoveRoomResponse{}, err
	}

	if stored.CreatedBy != params.SenderId {
		return RemoveRoomResponse{}, ErrPermissionDenied
	}

	if err := s.roomRepo.RemoveRoom(ctx, params.RoomId); err != nil {
		return RemoveRoomResponse{}, fmt.Errorf("failed to remove room: %w", err)
	}

	return RemoveRoomResponse{ClosedConns: s.connRepo.RemoveRoom(params.RoomId)}, nil
}
