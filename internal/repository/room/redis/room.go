package redis

import (
	"context"

	"github.com/siddhu12980/SyncStream/internal/repository/room"
)

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	roomKey := r.getRoomKey(params.RoomId)
	pipe.HSet(ctx, roomKey, room.Room{
		Name:        params.Name,
		Description: params.Description,
		VideoKey:    params.VideoKey,
		VideoType:   params.VideoType,
		CreatedBy:   params.CreatedBy,
		Status:      params.Status,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.UpdatedAt,
	})
	pipe.Expire(ctx, roomKey, r.ttl)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	res := r.rc.HGetAll(ctx, r.getRoomKey(roomId))
	if err := res.Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Room{}, err
	}

	if len(res.Val()) == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
		return room.Room{}, room.ErrRoomNotFound
	}

	var stored room.Room
	if err := res.Scan(&stored); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Room{}, err
	}

	return stored, nil
}

func (r repo) UpdateRoomStatus(ctx context.Context, params *room.UpdateRoomStatusParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	if err := r.ensureRoomExists(ctx, params.RoomId); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if err := r.rc.HSet(ctx, r.getRoomKey(params.RoomId),
		"status", params.Status,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) UpdateRoomVideo(ctx context.Context, params *room.UpdateRoomVideoParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	if err := r.ensureRoomExists(ctx, params.RoomId); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if err := r.rc.HSet(ctx, r.getRoomKey(params.RoomId),
		"video_key", params.VideoKey,
		"video_type", params.VideoType,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) RemoveRoom(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	res, err := r.rc.Del(ctx, r.getRoomKey(roomId), r.getPlaybackKey(roomId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
		return room.ErrRoomNotFound
	}

	return nil
}

func (r repo) ensureRoomExists(ctx context.Context, roomId string) error {
	exists, err := r.rc.Exists(ctx, r.getRoomKey(roomId)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return room.ErrRoomNotFound
	}

	return nil
}
