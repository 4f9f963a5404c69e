package room

import "errors"

var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrPlaybackStateNotFound = errors.New("playback state not found")
)

// Room is the stored shape of a room. Timestamps are unix seconds.
type Room struct {
	Name        string `redis:"name"`
	Description string `redis:"description"`
	VideoKey    string `redis:"video_key"`
	VideoType   string `redis:"video_type"`
	CreatedBy   string `redis:"created_by"`
	Status      string `redis:"status"`
	CreatedAt   int64  `redis:"created_at"`
	UpdatedAt   int64  `redis:"updated_at"`
}

type SetRoomParams struct {
	RoomId      string
	Name        string
	Description string
	VideoKey    string
	VideoType   string
	CreatedBy   string
	Status      string
	CreatedAt   int64
	UpdatedAt   int64
}

type UpdateRoomStatusParams struct {
	RoomId    string
	Status    string
	UpdatedAt int64
}

type UpdateRoomVideoParams struct {
	RoomId    string
	VideoKey  string
	VideoType string
	UpdatedAt int64
}

type SetPlaybackStateParams struct {
	RoomId    string
	VideoTime float64
}
