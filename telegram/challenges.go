package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mroshb/dice_game/internal/api"
	"github.com/mroshb/dice_game/internal/metrics"
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/pkg/errors"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/mroshb/dice_game/pkg/utils"
	"github.com/shopspring/decimal"
)

// askBet starts a challenge. Without an amount the next message is read as
// the stake.
func (b *Bot) askBet(ctx context.Context, chatID, userID int64, amount string) {
	if strings.TrimSpace(amount) != "" {
		b.openChallenge(ctx, chatID, userID, amount)
		return
	}

	metrics.RecordBotCommand("challenge", "prompt")
	b.setState(userID, StateAwaitingBet)
	b.sendMessage(chatID, fmt.Sprintf(MsgAskBet, b.config.ChallengeBetStep.String(),
		b.config.ChallengeMinBet.String(), b.config.ChallengeMaxBet.String()), nil)
}

func parseBet(text string) (decimal.Decimal, bool) {
	bet, err := decimal.NewFromString(strings.TrimSpace(utils.NormalizeDigits(text)))
	if err != nil || !bet.IsPositive() {
		return decimal.Zero, false
	}
	return bet, true
}

func (b *Bot) openChallenge(ctx context.Context, chatID, userID int64, amount string) {
	b.clearSession(userID)

	bet, ok := parseBet(amount)
	if !ok {
		metrics.RecordBotCommand("challenge", errors.ErrCodeValidation)
		b.sendMessage(chatID, MsgBadBet, MainMenuKeyboard())
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := b.game.OpenChallenge(callCtx, strconv.FormatInt(userID, 10), bet)
	if errors.HasCode(err, errors.ErrCodeInsufficientFunds) {
		metrics.RecordBotCommand("challenge", errors.ErrCodeInsufficientFunds)
		b.sendMessage(chatID, insufficientText(MsgStakeInsufficient, err, bet), MainMenuKeyboard())
		return
	}
	if err != nil {
		b.replyError(chatID, "challenge", err)
		return
	}

	metrics.RecordBotCommand("challenge", "opened")
	ch := resp.Challenge
	id := html.EscapeString(ch.ChallengeID)
	text := fmt.Sprintf(MsgChallengeOpened,
		formatDice(ch.CreatorDie1, ch.CreatorDie2, ch.CreatorDie3), ch.CreatorScore,
		ch.BetAmount.String(), resp.Balance.String(), b.challengeLink(ch.ChallengeID), id)
	b.sendMessage(chatID, text, MainMenuKeyboard())
}

// challengeLink is the deep link an opponent follows to accept.
func (b *Bot) challengeLink(challengeID string) string {
	if b.username == "" {
		return fmt.Sprintf("<code>/start %s</code>", html.EscapeString(challengeID))
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", b.username, html.EscapeString(challengeID))
}

// acceptChallenge plays the opponent's side. A player who is not registered
// yet is registered first and joins right after.
func (b *Bot) acceptChallenge(ctx context.Context, chatID, userID int64, lang, challengeID string) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := b.game.AcceptChallenge(callCtx, challengeID, strconv.FormatInt(userID, 10))
	switch {
	case err == nil:
	case errors.HasCode(err, errors.ErrCodeNotFound) && errors.MessageOf(err) != models.ChallengeNotFoundMessage:
		metrics.RecordBotCommand("accept", "unregistered")
		b.setState(userID, StateAwaitingReferral)
		b.setPendingChallenge(userID, challengeID)
		b.sendMessage(chatID, localize(lang, MsgRegisterToJoin), SkipKeyboard())
		return
	case errors.HasCode(err, errors.ErrCodeNotFound), errors.HasCode(err, errors.ErrCodeValidationFailed):
		metrics.RecordBotCommand("accept", errors.CodeOf(err))
		b.sendMessage(chatID, MsgChallengeGone, MainMenuKeyboard())
		return
	case errors.HasCode(err, errors.ErrCodeInsufficientFunds):
		metrics.RecordBotCommand("accept", errors.ErrCodeInsufficientFunds)
		b.sendMessage(chatID, insufficientText(MsgStakeInsufficient, err, decimal.Zero), MainMenuKeyboard())
		return
	default:
		b.replyError(chatID, "accept", err)
		return
	}

	metrics.RecordBotCommand("accept", "success")
	ch := resp.Challenge
	text := fmt.Sprintf(MsgChallengeAccepted, html.EscapeString(ch.ChallengeID),
		formatDice(ch.OpponentDie1, ch.OpponentDie2, ch.OpponentDie3), ch.OpponentScore,
		formatDice(ch.CreatorDie1, ch.CreatorDie2, ch.CreatorDie3), ch.CreatorScore,
		duelHeadline(&ch, ch.OpponentTelegramID), resp.Balance.String())
	b.sendMessage(chatID, text, MainMenuKeyboard())

	b.notifyCreator(&ch)
}

// notifyCreator tells the creator how their challenge ended. Private chat ids
// equal user ids.
func (b *Bot) notifyCreator(ch *api.Challenge) {
	creatorChat, err := strconv.ParseInt(ch.CreatorTelegramID, 10, 64)
	if err != nil {
		logger.Warn("Cannot notify challenge creator", "challenge_id", ch.ChallengeID, "creator", ch.CreatorTelegramID)
		return
	}

	text := fmt.Sprintf(MsgChallengeSettled, html.EscapeString(ch.ChallengeID),
		formatDice(ch.CreatorDie1, ch.CreatorDie2, ch.CreatorDie3), ch.CreatorScore,
		formatDice(ch.OpponentDie1, ch.OpponentDie2, ch.OpponentDie3), ch.OpponentScore,
		duelHeadline(ch, ch.CreatorTelegramID))
	b.sendMessage(creatorChat, text, nil)
}

func duelHeadline(ch *api.Challenge, viewer string) string {
	switch ch.WinnerTelegramID {
	case "":
		return MsgDuelTie
	case viewer:
		return fmt.Sprintf(MsgDuelWon, ch.Payout.String())
	default:
		return MsgDuelLost
	}
}

func (b *Bot) cancelChallenge(ctx context.Context, chatID, userID int64, challengeID string) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		b.sendMessage(chatID, MsgCancelUsage, MainMenuKeyboard())
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := b.game.CancelChallenge(callCtx, challengeID, strconv.FormatInt(userID, 10))
	if errors.HasCode(err, errors.ErrCodeValidationFailed) ||
		(errors.HasCode(err, errors.ErrCodeNotFound) && errors.MessageOf(err) == models.ChallengeNotFoundMessage) {
		metrics.RecordBotCommand("cancel", errors.CodeOf(err))
		b.sendMessage(chatID, fmt.Sprintf(MsgCannotCancel, html.EscapeString(errors.MessageOf(err))), MainMenuKeyboard())
		return
	}
	if err != nil {
		b.replyError(chatID, "cancel", err)
		return
	}

	metrics.RecordBotCommand("cancel", "success")
	b.sendMessage(chatID, fmt.Sprintf(MsgChallengeCancelled, resp.Balance.String()), MainMenuKeyboard())
}

// insufficientText reads the balance and the amount due from the backend
// error so no second call is needed.
func insufficientText(format string, err error, fallback decimal.Decimal) string {
	if detail, ok := errors.FundsOf(err); ok {
		return fmt.Sprintf(format, detail.Required.String(), detail.Balance.String())
	}
	if fallback.IsPositive() {
		return fmt.Sprintf(format, fallback.String(), "less")
	}
	return MsgNotEnoughCoins
}

func formatDice(dice ...int) string {
	faces := make([]string, len(dice))
	for i, d := range dice {
		faces[i] = strconv.Itoa(d)
	}
	return strings.Join(faces, " + ")
}
