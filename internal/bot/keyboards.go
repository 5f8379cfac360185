package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func createAdminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/unpaid"),
			tgbotapi.NewKeyboardButton("/attendance"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
