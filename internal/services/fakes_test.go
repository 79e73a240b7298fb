package services

import (
	"context"
	"sort"
	"sync"

	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/shopspring/decimal"
)

// memoryStore is an in-memory stand-in for the gorm repositories.
type memoryStore struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[string]*models.Account
	records  []models.GameRecord
	rooms    map[string]*models.Room
	failSave bool

	challenges map[string]*models.Challenge
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[string]*models.Account),
		rooms:    make(map[string]*models.Room),

		challenges: make(map[string]*models.Challenge),
	}
}

func (m *memoryStore) CreateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.TelegramID]; ok {
		return errors.New(errors.ErrCodeAlreadyExists, "telegram id or referral code already taken")
	}
	for _, other := range m.accounts {
		if other.ReferralCode == account.ReferralCode {
			return errors.New(errors.ErrCodeAlreadyExists, "telegram id or referral code already taken")
		}
	}
	m.nextID++
	account.ID = m.nextID
	stored := *account
	m.accounts[account.TelegramID] = &stored
	return nil
}

func (m *memoryStore) GetAccountByTelegramID(_ context.Context, telegramID string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[telegramID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	out := *acc
	return &out, nil
}

func (m *memoryStore) CountReferrals(_ context.Context, code string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, acc := range m.accounts {
		if code != "" && acc.ReferredBy == code {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) SettleRoll(_ context.Context, telegramID string, settle repositories.SettleFunc) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[telegramID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}

	working := *acc
	settlement, err := settle(&working)
	if err != nil {
		return nil, err
	}
	if m.failSave {
		return nil, errors.New(errors.ErrCodeInternalError, "failed to append game record")
	}

	*acc = working
	settlement.Record.AccountID = acc.ID
	settlement.Record.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *settlement.Record)

	if settlement.ReferralReward.IsPositive() {
		for _, other := range m.accounts {
			if other.ReferralCode == acc.ReferredBy && other.ID != acc.ID {
				other.Balance = other.Balance.Add(settlement.ReferralReward)
				other.ReferralEarnings = other.ReferralEarnings.Add(settlement.ReferralReward)
			}
		}
	}

	out := *acc
	return &out, nil
}

func (m *memoryStore) GetRecordsByAccount(_ context.Context, accountID uint, limit int) ([]models.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GameRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].AccountID == accountID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *memoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.RoomID]; ok {
		return errors.New(errors.ErrCodeAlreadyExists, "room id already taken")
	}
	m.nextID++
	room.ID = m.nextID
	stored := *room
	m.rooms[room.RoomID] = &stored
	return nil
}

func (m *memoryStore) GetRoomByRoomID(_ context.Context, roomID string) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	out := *room
	return &out, nil
}

func (m *memoryStore) JoinRoom(_ context.Context, roomID string) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	if room.Status != models.RoomStatusWaiting {
		return nil, errors.New(errors.ErrCodeValidationFailed, "room is not accepting players")
	}
	if room.IsFull() {
		return nil, errors.New(errors.ErrCodeValidationFailed, "room is full")
	}
	room.CurrentPlayers++
	out := *room
	return &out, nil
}

func (m *memoryStore) ListRooms(_ context.Context) ([]models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) EnsureAccount(_ context.Context, account *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[account.TelegramID]; ok {
		out := *acc
		return &out, nil
	}
	m.nextID++
	stored := *account
	stored.ID = m.nextID
	m.accounts[stored.TelegramID] = &stored
	out := stored
	return &out, nil
}

func (m *memoryStore) GetChallenge(_ context.Context, challengeID string) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[challengeID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "challenge not found")
	}
	out := *ch
	return &out, nil
}

func (m *memoryStore) OpenChallenge(_ context.Context, telegramID string, open repositories.OpenFunc) (*repositories.ChallengeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[telegramID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}

	creator := *acc
	ch, err := open(&creator)
	if err != nil {
		return nil, err
	}
	ch.CreatorID = creator.ID
	ch.CreatorTelegramID = creator.TelegramID
	if err := ch.BeforeSave(nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create challenge")
	}

	*acc = creator
	m.nextID++
	ch.ID = m.nextID
	stored := *ch
	m.challenges[ch.ChallengeID] = &stored

	outCh, outAcc := *ch, creator
	return &repositories.ChallengeResult{Challenge: &outCh, Creator: &outAcc}, nil
}

func (m *memoryStore) AcceptChallenge(_ context.Context, challengeID, telegramID string, settle repositories.DuelFunc) (*repositories.ChallengeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.challenges[challengeID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "challenge not found")
	}
	if stored.Status != models.ChallengeStatusPending {
		return nil, errors.New(errors.ErrCodeValidationFailed, "challenge is no longer open")
	}
	if stored.CreatorTelegramID == telegramID {
		return nil, errors.New(errors.ErrCodeValidation, "you cannot accept your own challenge")
	}
	oppAcc, ok := m.accounts[telegramID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	creatorAcc := m.accounts[stored.CreatorTelegramID]

	ch := *stored
	creator, opponent := *creatorAcc, *oppAcc
	ch.OpponentID = &opponent.ID
	ch.OpponentTelegramID = opponent.TelegramID

	settlement, err := settle(&ch, &creator, &opponent)
	if err != nil {
		return nil, err
	}

	// Winner points at one of the working copies.
	houseFee := settlement.HouseFee
	if settlement.Winner != nil && settlement.InviterReward.IsPositive() {
		paid := false
		for _, inviter := range m.accounts {
			if inviter.ReferralCode != settlement.Winner.ReferredBy || inviter.ID == settlement.Winner.ID {
				continue
			}
			target := inviter
			switch inviter.ID {
			case creator.ID:
				target = &creator
			case opponent.ID:
				target = &opponent
			}
			target.Balance = target.Balance.Add(settlement.InviterReward)
			target.ReferralEarnings = target.ReferralEarnings.Add(settlement.InviterReward)
			paid = true
		}
		if !paid {
			houseFee = houseFee.Add(settlement.InviterReward)
			ch.HouseFee = houseFee
			ch.InviterFee = decimal.Zero
		}
	}
	if houseFee.IsPositive() {
		house, ok := m.accounts[settlement.HouseTelegramID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternalError, "house account missing")
		}
		house.Balance = house.Balance.Add(houseFee)
	}
	if err := ch.BeforeSave(nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update challenge")
	}

	*creatorAcc, *oppAcc, *stored = creator, opponent, ch
	outCh := ch
	return &repositories.ChallengeResult{Challenge: &outCh, Creator: &creator, Opponent: &opponent}, nil
}

func (m *memoryStore) CancelChallenge(_ context.Context, challengeID, telegramID string) (*repositories.ChallengeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.challenges[challengeID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "challenge not found")
	}
	if stored.Status != models.ChallengeStatusPending {
		return nil, errors.New(errors.ErrCodeValidationFailed, "challenge is no longer open")
	}
	if stored.CreatorTelegramID != telegramID {
		return nil, errors.New(errors.ErrCodeValidationFailed, "only the creator can cancel a challenge")
	}

	creator := m.accounts[telegramID]
	creator.Balance = creator.Balance.Add(stored.BetAmount)
	stored.Status = models.ChallengeStatusCancelled

	outCh, outAcc := *stored, *creator
	return &repositories.ChallengeResult{Challenge: &outCh, Creator: &outAcc}, nil
}
