package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/config"
	"github.com/mroshb/dice_game/internal/middleware"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/shopspring/decimal"
)

// BotAPI is the subset of *tgbotapi.BotAPI the bot relies on.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// GameAPI is the backend as seen from the chat. client.Client implements it.
type GameAPI interface {
	Register(ctx context.Context, telegramID, referralCode string) (*api.Account, error)
	Roll(ctx context.Context, telegramID string) (*api.RollResponse, error)
	GetAccount(ctx context.Context, telegramID string) (*api.Account, error)
	Games(ctx context.Context, telegramID string, limit int) ([]api.GameRecord, error)
	Referrals(ctx context.Context, telegramID string) (*api.ReferralResponse, error)
	Rooms(ctx context.Context) ([]api.Room, error)
	OpenChallenge(ctx context.Context, telegramID string, bet decimal.Decimal) (*api.ChallengeResponse, error)
	AcceptChallenge(ctx context.Context, challengeID, telegramID string) (*api.ChallengeResponse, error)
	CancelChallenge(ctx context.Context, challengeID, telegramID string) (*api.ChallengeResponse, error)
}

// UserSession is the conversation state of one chat
type UserSession struct {
	State string
	// PendingChallenge is joined once registration completes
	PendingChallenge string
	UpdatedAt        time.Time
}

// Session states
const (
	StateNone             = ""
	StateAwaitingReferral = "awaiting_referral"
	StateAwaitingBet      = "awaiting_bet"
)

const (
	workerCount     = 10
	workerQueueSize = 100
	callTimeout     = 10 * time.Second
	sessionTTL      = 30 * time.Minute
)

type Bot struct {
	api      BotAPI
	game     GameAPI
	config   *config.Config
	limiter  middleware.Limiter
	username string

	// User sessions for conversation state
	sessions map[int64]*UserSession
	mu       sync.RWMutex

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

// InitBot connects to Telegram with cfg.BotToken.
func InitBot(cfg *config.Config, game GameAPI, limiter middleware.Limiter) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		botAPI.Debug = true
	}

	logger.Info("Authorized on account", "username", botAPI.Self.UserName)

	bot := NewBot(botAPI, game, cfg, limiter)
	bot.username = botAPI.Self.UserName
	return bot, nil
}

// NewBot builds a bot around an existing API handle.
func NewBot(botAPI BotAPI, game GameAPI, cfg *config.Config, limiter middleware.Limiter) *Bot {
	return &Bot{
		api:         botAPI,
		game:        game,
		config:      cfg,
		limiter:     limiter,
		sessions:    make(map[int64]*UserSession),
		workerChans: make([]chan tgbotapi.Update, workerCount),
	}
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	for i := range b.workerChans {
		b.workerChans[i] = make(chan tgbotapi.Update, workerQueueSize)
		go b.startWorker(ctx, b.workerChans[i])
	}

	go b.startSessionJanitor(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		if !b.consume(ctx, updates) {
			return
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// consume returns false once ctx is done.
func (b *Bot) consume(ctx context.Context, updates tgbotapi.UpdatesChannel) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case update, ok := <-updates:
			if !ok {
				return true
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch hashes updates by user so one user's messages are handled in order.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	var userID int64
	if update.Message != nil && update.Message.From != nil {
		userID = update.Message.From.ID
	}

	if userID == 0 {
		return
	}

	workerIdx := userID % int64(len(b.workerChans))
	if workerIdx < 0 {
		workerIdx = -workerIdx
	}

	select {
	case b.workerChans[workerIdx] <- update:
	case <-ctx.Done():
	}
}

func (b *Bot) startWorker(ctx context.Context, ch chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-ch:
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil && update.Message.From != nil {
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) startSessionJanitor(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.expireSessions(time.Now().Add(-sessionTTL))
		}
	}
}

func (b *Bot) expireSessions(before time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for userID, session := range b.sessions {
		if session.UpdatedAt.Before(before) {
			delete(b.sessions, userID)
		}
	}
}

func (b *Bot) getSession(userID int64) *UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.sessions[userID]; exists {
		session.UpdatedAt = time.Now()
		return session
	}

	session := &UserSession{
		State:     StateNone,
		UpdatedAt: time.Now(),
	}
	b.sessions[userID] = session
	return session
}

func (b *Bot) setState(userID int64, state string) {
	session := b.getSession(userID)
	b.mu.Lock()
	session.State = state
	b.mu.Unlock()
}

func (b *Bot) setPendingChallenge(userID int64, challengeID string) {
	session := b.getSession(userID)
	b.mu.Lock()
	session.PendingChallenge = challengeID
	b.mu.Unlock()
}

// takePendingChallenge returns and forgets the challenge a user is waiting to join.
func (b *Bot) takePendingChallenge(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	session, exists := b.sessions[userID]
	if !exists {
		return ""
	}
	id := session.PendingChallenge
	session.PendingChallenge = ""
	return id
}

func (b *Bot) stateOf(userID int64) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if session, exists := b.sessions[userID]; exists {
		return session.State
	}
	return StateNone
}

func (b *Bot) clearSession(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.sessions, userID)
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}
