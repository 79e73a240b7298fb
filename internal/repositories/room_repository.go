package repositories

import (
	"context"
	"errors"

	"github.com/mroshb/dice_game/internal/models"
	apperrors "github.com/mroshb/dice_game/pkg/errors"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateRoom creates a new room
func (r *RoomRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	err := r.db.WithContext(ctx).Create(room).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(err, apperrors.ErrCodeAlreadyExists, "room id already taken")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create room")
	}
	return nil
}

// GetRoomByRoomID retrieves a room by its public identifier
func (r *RoomRepository) GetRoomByRoomID(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&room)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "room not found")
	}
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to get room")
	}

	return &room, nil
}

// JoinRoom takes one seat in a waiting room. The capacity check and the
// increment happen in a single conditional UPDATE.
func (r *RoomRepository) JoinRoom(ctx context.Context, roomID string) (*models.Room, error) {
	result := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_id = ? AND status = ? AND current_players < max_players", roomID, models.RoomStatusWaiting).
		UpdateColumn("current_players", gorm.Expr("current_players + 1"))
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to join room")
	}

	room, err := r.GetRoomByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		if room.Status != models.RoomStatusWaiting {
			return nil, apperrors.New(apperrors.ErrCodeValidationFailed, "room is not accepting players")
		}
		return nil, apperrors.New(apperrors.ErrCodeValidationFailed, "room is full")
	}

	return room, nil
}

// ListRooms retrieves all rooms, newest first
func (r *RoomRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	result := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rooms)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, apperrors.ErrCodeInternalError, "failed to list rooms")
	}
	return rooms, nil
}
