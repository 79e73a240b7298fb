package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/services"
)

// CreateRoom handles POST /create_room.
func (h *HandlerManager) CreateRoom(c *gin.Context) {
	var req api.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	maxPlayers, err := req.MaxPlayers.Int64()
	if err != nil {
		badRequest(c, "max_players must be an integer")
		return
	}

	room, err := h.Rooms.Create(c.Request.Context(), services.CreateRoomParams{
		RoomID:         req.RoomID,
		Creator:        req.Creator.String(),
		MaxPlayers:     int(maxPlayers),
		TotalBetAmount: req.TotalBetAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.CreateRoomResponse{RoomID: room.RoomID})
}

// JoinRoom handles POST /join_room.
func (h *HandlerManager) JoinRoom(c *gin.Context) {
	var req api.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	room, err := h.Rooms.Join(c.Request.Context(), req.RoomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.JoinRoomResponse{
		Success:        true,
		RoomID:         room.RoomID,
		CurrentPlayers: room.CurrentPlayers,
	})
}

// ListRooms handles GET /history, which lists rooms.
func (h *HandlerManager) ListRooms(c *gin.Context) {
	rooms, err := h.Rooms.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if rooms == nil {
		rooms = []api.Room{}
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /rooms/:room_id.
func (h *HandlerManager) GetRoom(c *gin.Context) {
	room, err := h.Rooms.Get(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}
