package telegram

import (
	"context"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeBotAPI) sentTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, msg := range f.sent {
		if msg.ChatID == chatID {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func seedAccount(game *fakeGame, telegramID string, balance int64) {
	game.accounts[telegramID] = &api.Account{TelegramID: telegramID, Balance: decimal.NewFromInt(balance)}
}

func TestChallengeOpenAndAccept(t *testing.T) {
	bot, botAPI, game := newTestBot(nil)
	bot.username = "dice_test_bot"
	seedAccount(game, "1", 1000)
	seedAccount(game, "2", 1000)
	ctx := context.Background()

	bot.HandleUpdate(ctx, textMessage(1, BtnChallenge))
	assert.Equal(t, StateAwaitingBet, bot.stateOf(1))
	assert.Contains(t, botAPI.last(t).Text, "multiple of 100 between 100 and 1000")

	bot.HandleUpdate(ctx, textMessage(1, "۳۰۰"))
	opened := botAPI.last(t).Text
	assert.Contains(t, opened, "6 + 5 + 4 = <b>15</b>")
	assert.Contains(t, opened, "Balance: <b>700</b>")
	assert.Contains(t, opened, "https://t.me/dice_test_bot?start=ch_1")
	assert.Contains(t, opened, "/cancel ch_1")
	assert.Equal(t, StateNone, bot.stateOf(1))

	bot.HandleUpdate(ctx, commandMessage(2, "/start ch_1"))

	opponent := botAPI.sentTo(2)
	require.Len(t, opponent, 1)
	assert.Contains(t, opponent[0], "You: 1 + 1 + 1 = <b>3</b>")
	assert.Contains(t, opponent[0], MsgDuelLost)
	assert.Contains(t, opponent[0], "Balance: <b>700</b>")

	assert.Contains(t, botAPI.last(t).Text, "Your challenge <code>ch_1</code> was accepted")
	assert.Contains(t, botAPI.last(t).Text, fmt.Sprintf(MsgDuelWon, "570"))
	assert.Equal(t, int64(1), botAPI.last(t).ChatID)

	assert.Equal(t, 1, game.calls["AcceptChallenge"])
	assert.Zero(t, game.calls["GetAccount"])
}

func TestChallengeWithAmount(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		command string
		want    string
	}{
		{
			name:    "opens at once",
			balance: 1000,
			command: "/challenge 200",
			want:    "stake of <b>200</b>",
		},
		{
			name:    "not a number",
			balance: 1000,
			command: "/challenge lots",
			want:    MsgBadBet,
		},
		{
			name:    "negative",
			balance: 1000,
			command: "/challenge -100",
			want:    MsgBadBet,
		},
		{
			name:    "not enough coins",
			balance: 50,
			command: "/challenge 300",
			want:    fmt.Sprintf(MsgStakeInsufficient, "300", "50"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, botAPI, game := newTestBot(nil)
			seedAccount(game, "1", tt.balance)

			bot.HandleUpdate(context.Background(), commandMessage(1, tt.command))

			assert.Contains(t, botAPI.last(t).Text, tt.want)
			assert.Equal(t, StateNone, bot.stateOf(1))
		})
	}
}

func TestChallengeDeepLinkRegistersFirst(t *testing.T) {
	bot, botAPI, game := newTestBot(nil)
	seedAccount(game, "1", 1000)
	ctx := context.Background()

	bot.HandleUpdate(ctx, commandMessage(1, "/challenge 100"))
	bot.HandleUpdate(ctx, commandMessage(9, "/start ch_1"))

	assert.Equal(t, MsgRegisterToJoin, botAPI.last(t).Text)
	assert.Equal(t, StateAwaitingReferral, bot.stateOf(9))

	bot.HandleUpdate(ctx, textMessage(9, BtnSkip))

	newcomer := botAPI.sentTo(9)
	require.Len(t, newcomer, 3)
	assert.Contains(t, newcomer[1], "Registered")
	assert.Contains(t, newcomer[2], "Challenge <code>ch_1</code>")
	assert.Equal(t, models.ChallengeStatusCompleted, game.challenges["ch_1"].Status)
	assert.Equal(t, StateNone, bot.stateOf(9))
}

func TestChallengeGone(t *testing.T) {
	bot, botAPI, game := newTestBot(nil)
	seedAccount(game, "1", 1000)
	seedAccount(game, "2", 1000)
	ctx := context.Background()

	bot.HandleUpdate(ctx, commandMessage(2, "/start ch_404"))
	assert.Equal(t, MsgChallengeGone, botAPI.last(t).Text)

	bot.HandleUpdate(ctx, commandMessage(1, "/challenge 100"))
	bot.HandleUpdate(ctx, commandMessage(1, "/cancel ch_1"))
	bot.HandleUpdate(ctx, commandMessage(2, "/start ch_1"))
	assert.Equal(t, MsgChallengeGone, botAPI.last(t).Text)
}

func TestCancelChallenge(t *testing.T) {
	bot, botAPI, game := newTestBot(nil)
	seedAccount(game, "1", 1000)
	seedAccount(game, "2", 1000)
	ctx := context.Background()

	bot.HandleUpdate(ctx, commandMessage(1, "/challenge 400"))

	bot.HandleUpdate(ctx, commandMessage(1, "/cancel"))
	assert.Equal(t, MsgCancelUsage, botAPI.last(t).Text)

	bot.HandleUpdate(ctx, commandMessage(2, "/cancel ch_1"))
	assert.Contains(t, botAPI.last(t).Text, "only the creator can cancel")

	bot.HandleUpdate(ctx, commandMessage(1, "/cancel ch_1"))
	assert.Contains(t, botAPI.last(t).Text, "Balance: <b>1000</b>")
	assert.Equal(t, models.ChallengeStatusCancelled, game.challenges["ch_1"].Status)
}

func TestRulesAndFAQ(t *testing.T) {
	bot, botAPI, _ := newTestBot(nil)
	ctx := context.Background()

	bot.HandleUpdate(ctx, textMessage(42, BtnRules))
	rules := botAPI.last(t).Text
	assert.Contains(t, rules, "costs 100 coins")
	assert.Contains(t, rules, "stake 100 to 1000 coins in steps of 100")
	assert.Contains(t, rules, "keeps 3% of one stake and 7% goes to whoever invited the winner")

	bot.HandleUpdate(ctx, commandMessage(42, "/faq"))
	assert.Equal(t, MsgFAQ, botAPI.last(t).Text)
}

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "", want: "en"},
		{code: "en-US", want: "en"},
		{code: "zh-hans", want: "zh"},
		{code: "zh-TW", want: "zh"},
		{code: "fr", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, languageOf(&tgbotapi.User{ID: 1, LanguageCode: tt.code}))
		})
	}
	assert.Equal(t, "en", languageOf(nil))
}

func TestLocalizedReplies(t *testing.T) {
	bot, botAPI, game := newTestBot(nil)
	ctx := context.Background()

	update := commandMessage(42, "/start")
	update.Message.From.LanguageCode = "zh-hans"
	bot.HandleUpdate(ctx, update)
	assert.Equal(t, translations["zh"][MsgWelcome], botAPI.last(t).Text)

	seedAccount(game, "43", 250)
	update = textMessage(43, BtnBalance)
	update.Message.From.LanguageCode = "zh"
	bot.HandleUpdate(ctx, update)
	assert.Contains(t, botAPI.last(t).Text, "余额：<b>250</b>")

	update = textMessage(43, BtnBalance)
	update.Message.From.LanguageCode = "de"
	bot.HandleUpdate(ctx, update)
	assert.Contains(t, botAPI.last(t).Text, "Balance: <b>250</b>")
}
