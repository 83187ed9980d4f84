package bot

import (
	"strings"

	"feedyourmind-app/internal/calendar"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

const (
	buttonPayments = "💶 Pagamenti"
	buttonUnpaid   = "⏳ Insoluti"
	buttonBack     = "◀️ Indietro"
)

// Обработка сообщения здесь
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	b.log.Debug("message", zap.String("from", message.From.UserName), zap.String("text", message.Text))

	chatID := message.Chat.ID

	if !b.isAdmin(int64(message.From.ID)) {
		b.log.Warn("rejected non-operator", zap.Int("user_id", message.From.ID))
		b.sendMessage(chatID, "⛔ Accesso riservato agli operatori")
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start", "help":
			b.handleStartCommand(chatID)
		case "pagamenti":
			b.showMonth(chatID, calendar.ModePayments, message.CommandArguments())
		case "insoluti":
			b.showMonth(chatID, calendar.ModeUnpaid, message.CommandArguments())
		case "annulla":
			b.resetSession(chatID)
			b.handleStartCommand(chatID)
		default:
			b.sendMessage(chatID, "Comando sconosciuto. Usa /pagamenti o /insoluti")
		}
		return
	}

	text := strings.TrimSpace(message.Text)
	switch text {
	case buttonPayments:
		b.showMonth(chatID, calendar.ModePayments, "")
		return
	case buttonUnpaid:
		b.showMonth(chatID, calendar.ModeUnpaid, "")
		return
	case buttonBack:
		b.resetSession(chatID)
		b.handleStartCommand(chatID)
		return
	}

	// Проверяем состояние пользователя
	session := b.getOrCreateSession(chatID)
	if session.State == StateSelectingDay {
		b.handleDaySelection(chatID, session, text)
		return
	}

	b.handleStartCommand(chatID)
}

func (b *Bot) handleStartCommand(chatID int64) {
	text := "📒 Calendario pagamenti\n\n" +
		"/pagamenti [AAAA-MM] pagamenti incassati nel mese\n" +
		"/insoluti [AAAA-MM] lezioni non pagate e pacchetti scaduti\n\n" +
		"Dopo il riepilogo scrivi il numero di un giorno per vederne il dettaglio."

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createMainKeyboard()
	b.send(msg)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.sender.Send(msg); err != nil {
		b.log.Error("send message", zap.Error(err))
	}
}
