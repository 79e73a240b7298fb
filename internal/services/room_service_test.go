package services

import (
	"context"
	"strings"
	"testing"

	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewRoomService(newMemoryStore())

	room, err := svc.Create(ctx, CreateRoomParams{
		Creator:        "42",
		MaxPlayers:     5,
		TotalBetAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(room.RoomID, "room_"))

	rooms, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, room.RoomID, rooms[0].RoomID)
	assert.Equal(t, "42", rooms[0].Creator)
	assert.Equal(t, 5, rooms[0].MaxPlayers)
	assert.True(t, rooms[0].TotalBetAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, models.RoomStatusWaiting, rooms[0].Status)
	assert.Equal(t, 0, rooms[0].CurrentPlayers)
}

func TestRoomService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateRoomParams
		code   string
	}{
		{
			name:   "too few players",
			params: CreateRoomParams{MaxPlayers: 1, TotalBetAmount: decimal.NewFromInt(10)},
			code:   errors.ErrCodeValidation,
		},
		{
			name:   "too many players",
			params: CreateRoomParams{MaxPlayers: 101, TotalBetAmount: decimal.NewFromInt(10)},
			code:   errors.ErrCodeValidation,
		},
		{
			name:   "zero bet",
			params: CreateRoomParams{MaxPlayers: 4, TotalBetAmount: decimal.Zero},
			code:   errors.ErrCodeValidation,
		},
		{
			name:   "bad room id",
			params: CreateRoomParams{RoomID: "a b", MaxPlayers: 4, TotalBetAmount: decimal.NewFromInt(10)},
			code:   errors.ErrCodeValidation,
		},
		{
			name:   "room id longer than an id",
			params: CreateRoomParams{RoomID: "room_" + strings.Repeat("1", 64), MaxPlayers: 4, TotalBetAmount: decimal.NewFromInt(10)},
			code:   errors.ErrCodeValidation,
		},
		{
			name:   "creator too long",
			params: CreateRoomParams{Creator: strings.Repeat("x", 65), MaxPlayers: 4, TotalBetAmount: decimal.NewFromInt(10)},
			code:   errors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRoomService(newMemoryStore())
			_, err := svc.Create(context.Background(), tt.params)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestRoomService_Join(t *testing.T) {
	ctx := context.Background()
	svc := NewRoomService(newMemoryStore())

	_, err := svc.Create(ctx, CreateRoomParams{
		RoomID:         "room_1700000000000",
		MaxPlayers:     2,
		TotalBetAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRoomParams{
		RoomID:         "room_1700000000000",
		MaxPlayers:     2,
		TotalBetAmount: decimal.NewFromInt(200),
	})
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))

	room, err := svc.Join(ctx, "room_1700000000000")
	require.NoError(t, err)
	assert.Equal(t, 1, room.CurrentPlayers)

	room, err = svc.Join(ctx, "room_1700000000000")
	require.NoError(t, err)
	assert.Equal(t, 2, room.CurrentPlayers)

	_, err = svc.Join(ctx, "room_1700000000000")
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.CodeOf(err))

	_, err = svc.Join(ctx, "room_missing")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	_, err = svc.Get(ctx, "")
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestRoomService_CreatorText(t *testing.T) {
	svc := NewRoomService(newMemoryStore())

	room, err := svc.Create(context.Background(), CreateRoomParams{
		Creator:        "<i>Tom & Jerry</i>",
		MaxPlayers:     3,
		TotalBetAmount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", room.Creator)
	assert.True(t, strings.HasPrefix(room.RoomID, "room_"))
}
