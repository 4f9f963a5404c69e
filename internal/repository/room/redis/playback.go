package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/siddhu12980/SyncStream/internal/repository/room"
)

func (r repo) getPlaybackKey(roomId string) string {
	return "room:" + roomId + ":playback"
}

// SetPlaybackState stores the room's latest authoritative position. Overwritten by
// each new event; no history.
func (r repo) SetPlaybackState(ctx context.Context, params *room.SetPlaybackStateParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	if err := r.rc.Set(ctx, r.getPlaybackKey(params.RoomId), params.VideoTime, r.ttl).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetPlaybackState(ctx context.Context, roomId string) (float64, error) {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	videoTime, err := r.rc.Get(ctx, r.getPlaybackKey(roomId)).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, room.ErrPlaybackStateNotFound
		}
		r.logger.DebugContext(ctx, "returned", "error", err)
		return 0, err
	}

	return videoTime, nil
}

func (r repo) RemovePlaybackState(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	if err := r.rc.Del(ctx, r.getPlaybackKey(roomId)).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}
