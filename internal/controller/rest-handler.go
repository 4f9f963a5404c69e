package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/siddhu12980/SyncStream/internal/service/room"
	"github.com/siddhu12980/SyncStream/pkg/rest"
)

const userIdHeader = "X-User-Id"

func (c controller) getUserId(r *http.Request) (string, bool) {
	userId := r.Header.Get(userIdHeader)
	return userId, userId != ""
}

func serviceErrStatus(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrPermissionDenied):
		return http.StatusForbidden
	}

	return http.StatusInternalServerError
}

type createRoomRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"max=256"`
	VideoKey    string `json:"video_key"`
	VideoType   string `json:"video_type" validate:"omitempty,oneof=hls youtube"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.getUserId(r)
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing user id"})
		return
	}

	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.DebugContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	created, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Name:        req.Name,
		Description: req.Description,
		VideoKey:    req.VideoKey,
		VideoType:   req.VideoType,
		CreatedBy:   userId,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, serviceErrStatus(err), rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": created})
}

func (c controller) getPublicRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	found, err := c.roomService.GetRoom(r.Context(), roomId)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to get room", "error", err)
		rest.WriteJSON(w, serviceErrStatus(err), rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": found})
}

type addVideoRequest struct {
	VideoKey  string `json:"video_key" validate:"required"`
	VideoType string `json:"video_type" validate:"required,oneof=hls youtube"`
}

func (c controller) addVideo(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.getUserId(r)
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing user id"})
		return
	}

	roomId := chi.URLParam(r, "room-id")

	var req addVideoRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.DebugContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	updated, err := c.roomService.AddVideo(r.Context(), &room.AddVideoParams{
		RoomId:    roomId,
		SenderId:  userId,
		VideoKey:  req.VideoKey,
		VideoType: req.VideoType,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to add video", "error", err)
		rest.WriteJSON(w, serviceErrStatus(err), rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": updated})
}

func (c controller) removeRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.getUserId(r)
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing user id"})
		return
	}

	roomId := chi.URLParam(r, "room-id")

	resp, err := c.roomService.RemoveRoom(r.Context(), &room.RemoveRoomParams{
		RoomId:   roomId,
		SenderId: userId,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to remove room", "error", err)
		rest.WriteJSON(w, serviceErrStatus(err), rest.Envelope{"error": err.Error()})
		return
	}

	for _, conn := range resp.ClosedConns {
		conn.Close()
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "room deleted"})
}
