package domain

import "time"

type RoomStatus string

const (
	RoomStatusActive   RoomStatus = "active"
	RoomStatusInactive RoomStatus = "inactive"
)

type VideoType string

const (
	VideoTypeHLS     VideoType = "hls"
	VideoTypeYoutube VideoType = "youtube"
)

// Room is the metadata the client reads to resolve the admin role (CreatedBy) and
// to pick a player adapter (VideoKey/VideoType).
type Room struct {
	Id          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	VideoKey    string     `json:"video_key"`
	VideoType   VideoType  `json:"video_type"`
	CreatedBy   string     `json:"created_by"`
	Status      RoomStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
