package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/mroshb/dice_game/pkg/utils"
	"github.com/shopspring/decimal"
)

const historyLimit = 10

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := userID
	if message.Chat != nil {
		chatID = message.Chat.ID
	}

	logger.Debug("Received message", "user_id", userID, "text", message.Text)

	if b.limiter != nil && !b.limiter.CheckUserLimit(ctx, strconv.FormatInt(userID, 10)) {
		b.sendMessage(chatID, MsgSlowDown, nil)
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, chatID, message)
		return
	}

	switch b.stateOf(userID) {
	case StateAwaitingReferral:
		text := strings.TrimSpace(message.Text)
		code := utils.NormalizeCode(text)
		if text == BtnSkip || strings.EqualFold(text, "skip") {
			code = ""
		}
		b.register(ctx, chatID, userID, languageOf(message.From), code, MsgAlreadyRegistered)
		return
	case StateAwaitingBet:
		b.openChallenge(ctx, chatID, userID, message.Text)
		return
	}

	if message.Text != "" && b.handleButtonPress(ctx, chatID, message) {
		return
	}

	b.sendMessage(chatID, MsgUnknown, MainMenuKeyboard())
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, message *tgbotapi.Message) {
	userID := message.From.ID
	lang := languageOf(message.From)
	command := message.Command()

	switch command {
	case "start":
		// Always clear session on start to prevent stuck states
		b.clearSession(userID)
		b.start(ctx, chatID, userID, lang, strings.TrimSpace(message.CommandArguments()))
	case "roll":
		b.roll(ctx, chatID, userID)
	case "challenge":
		b.askBet(ctx, chatID, userID, message.CommandArguments())
	case "cancel":
		b.cancelChallenge(ctx, chatID, userID, message.CommandArguments())
	case "balance":
		b.balance(ctx, chatID, userID, lang)
	case "history":
		b.history(ctx, chatID, userID)
	case "rooms":
		b.rooms(ctx, chatID)
	case "referral":
		b.referral(ctx, chatID, userID)
	case "help":
		b.help(chatID)
	case "rules":
		b.rules(chatID, lang)
	case "faq":
		b.faq(chatID, lang)
	default:
		metrics.RecordBotCommand("unknown", "ignored")
		b.sendMessage(chatID, MsgUnknown, MainMenuKeyboard())
	}
}

func (b *Bot) handleButtonPress(ctx context.Context, chatID int64, message *tgbotapi.Message) bool {
	userID := message.From.ID
	lang := languageOf(message.From)

	switch strings.TrimSpace(message.Text) {
	case BtnRoll:
		b.roll(ctx, chatID, userID)
	case BtnChallenge:
		b.askBet(ctx, chatID, userID, "")
	case BtnBalance:
		b.balance(ctx, chatID, userID, lang)
	case BtnHistory:
		b.history(ctx, chatID, userID)
	case BtnRooms:
		b.rooms(ctx, chatID)
	case BtnReferral:
		b.referral(ctx, chatID, userID)
	case BtnHelp:
		b.help(chatID)
	case BtnRules:
		b.rules(chatID, lang)
	default:
		return false
	}
	return true
}

// start greets a known user or begins registration. The argument of a deep
// link is either a challenge to join or a referral code to register with.
// Each path makes a single backend call.
func (b *Bot) start(ctx context.Context, chatID, userID int64, lang, arg string) {
	if models.IsChallengeID(arg) {
		b.acceptChallenge(ctx, chatID, userID, lang, arg)
		return
	}
	if code := utils.NormalizeCode(arg); code != "" {
		b.register(ctx, chatID, userID, lang, code, localize(lang, MsgWelcomeBack))
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := b.game.GetAccount(callCtx, strconv.FormatInt(userID, 10))
	switch {
	case err == nil:
		metrics.RecordBotCommand("start", "returning")
		b.sendMessage(chatID, localize(lang, MsgWelcomeBack), MainMenuKeyboard())
	case errors.HasCode(err, errors.ErrCodeNotFound):
		metrics.RecordBotCommand("start", "new")
		b.setState(userID, StateAwaitingReferral)
		b.sendMessage(chatID, localize(lang, MsgWelcome), SkipKeyboard())
	default:
		b.replyError(chatID, "start", err)
	}
}

// register creates the account; known tells an already registered user
// what happened. A challenge the user was waiting on is joined afterwards.
func (b *Bot) register(ctx context.Context, chatID, userID int64, lang, code, known string) {
	pending := b.takePendingChallenge(userID)

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	account, err := b.game.Register(callCtx, strconv.FormatInt(userID, 10), code)
	b.clearSession(userID)

	switch {
	case errors.HasCode(err, errors.ErrCodeAlreadyExists):
		metrics.RecordBotCommand("register", errors.ErrCodeAlreadyExists)
		b.sendMessage(chatID, known, MainMenuKeyboard())
	case err != nil:
		b.replyError(chatID, "register", err)
		return
	default:
		metrics.RecordBotCommand("register", "success")
		text := fmt.Sprintf(localize(lang, MsgRegistered),
			account.Balance.String(), html.EscapeString(account.ReferralCode))
		b.sendMessage(chatID, text, MainMenuKeyboard())
	}

	if pending != "" {
		b.acceptChallenge(ctx, chatID, userID, lang, pending)
	}
}

func (b *Bot) roll(ctx context.Context, chatID, userID int64) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := b.game.Roll(callCtx, strconv.FormatInt(userID, 10))
	if errors.HasCode(err, errors.ErrCodeInsufficientFunds) {
		metrics.RecordBotCommand("roll", errors.ErrCodeInsufficientFunds)
		b.sendMessage(chatID, insufficientText(MsgInsufficient, err, b.config.EntryFee), MainMenuKeyboard())
		return
	}
	if err != nil {
		b.replyError(chatID, "roll", err)
		return
	}

	metrics.RecordBotCommand("roll", resp.Message)
	b.sendMessage(chatID, formatRoll(resp.Dice, resp.Total, resp.Message, resp.Balance.String()), MainMenuKeyboard())
}

func formatRoll(dice []int, total int, result, balance string) string {
	headline := "😞 You lose."
	if result == models.OutcomeWin {
		headline = "🎉 You win!"
	}

	return fmt.Sprintf("🎲 %s = <b>%d</b>\n%s\nBalance: <b>%s</b>", formatDice(dice...), total, headline, balance)
}

func (b *Bot) balance(ctx context.Context, chatID, userID int64, lang string) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	account, err := b.game.GetAccount(callCtx, strconv.FormatInt(userID, 10))
	if err != nil {
		b.replyError(chatID, "balance", err)
		return
	}

	metrics.RecordBotCommand("balance", "success")
	text := fmt.Sprintf(localize(lang, MsgBalance), account.Balance.String(), account.WinCount, account.LoseCount)
	b.sendMessage(chatID, text, MainMenuKeyboard())
}

func (b *Bot) history(ctx context.Context, chatID, userID int64) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	records, err := b.game.Games(callCtx, strconv.FormatInt(userID, 10), historyLimit)
	if err != nil {
		b.replyError(chatID, "history", err)
		return
	}

	metrics.RecordBotCommand("history", "success")
	if len(records) == 0 {
		b.sendMessage(chatID, MsgNoGames, MainMenuKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 <b>Your last rolls</b>\n\n")
	for _, r := range records {
		mark := "❌"
		if r.Outcome == models.OutcomeWin {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %d + %d + %d = %d  (balance %s)\n", mark, r.Die1, r.Die2, r.Die3, r.Total, r.BalanceAfter.String())
	}
	b.sendMessage(chatID, sb.String(), MainMenuKeyboard())
}

func (b *Bot) rooms(ctx context.Context, chatID int64) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	rooms, err := b.game.Rooms(callCtx)
	if err != nil {
		b.replyError(chatID, "rooms", err)
		return
	}

	metrics.RecordBotCommand("rooms", "success")
	if len(rooms) == 0 {
		b.sendMessage(chatID, MsgNoRooms, MainMenuKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("🏠 <b>Rooms</b>\n\n")
	for _, r := range rooms {
		fmt.Fprintf(&sb, "• <code>%s</code> %d/%d players, bet %s, %s\n",
			html.EscapeString(r.RoomID), r.CurrentPlayers, r.MaxPlayers, r.TotalBetAmount.String(), r.Status)
	}
	b.sendMessage(chatID, sb.String(), MainMenuKeyboard())
}

func (b *Bot) referral(ctx context.Context, chatID, userID int64) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	summary, err := b.game.Referrals(callCtx, strconv.FormatInt(userID, 10))
	if err != nil {
		b.replyError(chatID, "referral", err)
		return
	}

	metrics.RecordBotCommand("referral", "success")
	code := html.EscapeString(summary.ReferralCode)
	text := fmt.Sprintf("🎁 Your referral code: <code>%s</code>\n👥 Friends invited: %d\n💵 Earned: %s",
		code, summary.InvitedCount, summary.ReferralEarnings.String())
	if b.username != "" {
		text += fmt.Sprintf("\n\nShare this link: https://t.me/%s?start=%s", b.username, code)
	}
	b.sendMessage(chatID, text, MainMenuKeyboard())
}

func (b *Bot) help(chatID int64) {
	metrics.RecordBotCommand("help", "success")
	text := fmt.Sprintf(MsgHelp, b.config.EntryFee.String(), b.config.WinThreshold, b.config.WinCredit.String())
	b.sendMessage(chatID, text, MainMenuKeyboard())
}

func (b *Bot) rules(chatID int64, lang string) {
	metrics.RecordBotCommand("rules", "success")
	hundred := decimal.NewFromInt(100)
	text := fmt.Sprintf(localize(lang, MsgRules),
		b.config.EntryFee.String(), b.config.WinThreshold, b.config.WinCredit.String(),
		b.config.ChallengeMinBet.String(), b.config.ChallengeMaxBet.String(), b.config.ChallengeBetStep.String(),
		b.config.ChallengeHouseFeeRate.Mul(hundred).String(), b.config.ChallengeInviterFeeRate.Mul(hundred).String())
	b.sendMessage(chatID, text, MainMenuKeyboard())
}

func (b *Bot) faq(chatID int64, lang string) {
	metrics.RecordBotCommand("faq", "success")
	b.sendMessage(chatID, localize(lang, MsgFAQ), MainMenuKeyboard())
}

// replyError relays the backend's message to the chat.
func (b *Bot) replyError(chatID int64, command string, err error) {
	code := errors.CodeOf(err)
	metrics.RecordBotCommand(command, code)

	if code == errors.ErrCodeNotFound {
		b.sendMessage(chatID, MsgNotRegistered, nil)
		return
	}
	if code == errors.ErrCodeRateLimitExceeded {
		b.sendMessage(chatID, MsgSlowDown, nil)
		return
	}

	logger.Warn("Backend call failed", "command", command, "chat_id", chatID, "error", err)
	b.sendMessage(chatID, fmt.Sprintf(MsgBackendError, html.EscapeString(errors.MessageOf(err))), MainMenuKeyboard())
}
