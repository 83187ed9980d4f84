package bot

import (
	"strconv"

	"feedyourmind-app/internal/calendar"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const daysPerRow = 7

func createMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonPayments),
			tgbotapi.NewKeyboardButton(buttonUnpaid),
		),
	)
}

// createDaysKeyboard shows one button per day that has entries in the mode.
func createDaysKeyboard(days []calendar.Day, mode calendar.ViewMode) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton

	for _, day := range days {
		if len(day.Entries(mode)) == 0 {
			continue
		}
		row = append(row, tgbotapi.NewKeyboardButton(strconv.Itoa(day.Date.Day())))
		if len(row) == daysPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(buttonPayments),
		tgbotapi.NewKeyboardButton(buttonUnpaid),
		tgbotapi.NewKeyboardButton(buttonBack),
	))

	return tgbotapi.NewReplyKeyboard(rows...)
}
