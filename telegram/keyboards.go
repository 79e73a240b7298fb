package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MainMenuKeyboard creates the main menu keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	// Row 1 - Roll - Challenge
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnRoll),
		tgbotapi.NewKeyboardButton(BtnChallenge),
	))

	// Row 2 - Balance - History
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnBalance),
		tgbotapi.NewKeyboardButton(BtnHistory),
	))

	// Row 3 - Rooms - Referral
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnRooms),
		tgbotapi.NewKeyboardButton(BtnReferral),
	))

	// Row 4 - Rules - Help
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnRules),
		tgbotapi.NewKeyboardButton(BtnHelp),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// SkipKeyboard is shown while waiting for an optional referral code
func SkipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSkip)),
	)
	kb.ResizeKeyboard = true
	return kb
}
