package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/shopspring/decimal"
)

// CreateRoomParams carries a room request after wire decoding.
type CreateRoomParams struct {
	RoomID         string
	Creator        string
	MaxPlayers     int
	TotalBetAmount decimal.Decimal
}

type RoomService struct {
	rooms RoomStore
}

func NewRoomService(rooms RoomStore) *RoomService {
	return &RoomService{rooms: rooms}
}

// Create stores a new waiting room. An empty RoomID gets a generated one.
func (s *RoomService) Create(ctx context.Context, params CreateRoomParams) (*models.Room, error) {
	roomID, err := optionalIdentifier("room_id", params.RoomID)
	if err != nil {
		return nil, err
	}
	if roomID == "" {
		roomID = "room_" + uuid.NewString()
	}
	creator, ok := security.SanitizeText(params.Creator)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "creator is too long")
	}

	if params.MaxPlayers < models.MinRoomPlayers || params.MaxPlayers > models.MaxRoomPlayers {
		return nil, errors.New(errors.ErrCodeValidation, "max_players must be between 2 and 100")
	}
	if !params.TotalBetAmount.IsPositive() {
		return nil, errors.New(errors.ErrCodeValidation, "total_bet_amount must be positive")
	}

	room := &models.Room{
		RoomID:         roomID,
		Creator:        creator,
		MaxPlayers:     params.MaxPlayers,
		TotalBetAmount: params.TotalBetAmount,
		Status:         models.RoomStatusWaiting,
		CurrentPlayers: 0,
	}
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		metrics.RecordRoomEvent("create", errors.CodeOf(err))
		return nil, err
	}

	metrics.RecordRoomEvent("create", "success")
	logger.Info("Room created", "room_id", room.RoomID, "creator", room.Creator, "max_players", room.MaxPlayers)
	return room, nil
}

// Join takes a seat in a waiting room that is not yet full.
func (s *RoomService) Join(ctx context.Context, roomID string) (*models.Room, error) {
	id, err := requireIdentifier("room_id", roomID)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.JoinRoom(ctx, id)
	if err != nil {
		metrics.RecordRoomEvent("join", errors.CodeOf(err))
		return nil, err
	}

	metrics.RecordRoomEvent("join", "success")
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, roomID string) (*models.Room, error) {
	id, err := requireIdentifier("room_id", roomID)
	if err != nil {
		return nil, err
	}
	return s.rooms.GetRoomByRoomID(ctx, id)
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	return s.rooms.ListRooms(ctx)
}
