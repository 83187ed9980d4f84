package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"feedyourmind-app/internal/calendar"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var monthNames = [...]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

var categoryNames = map[calendar.Category]string{
	calendar.CategoryLessonPayment:   "lezione",
	calendar.CategoryPackagePayment:  "pacchetto",
	calendar.CategoryUnpaidLesson:    "lezione non pagata",
	calendar.CategoryExpiredPackage:  "pacchetto scaduto",
	calendar.CategoryExpiringPackage: "pacchetto in scadenza",
}

func (b *Bot) showMonth(chatID int64, mode calendar.ViewMode, arg string) {
	month := time.Now()
	if arg = strings.TrimSpace(arg); arg != "" {
		parsed, err := time.ParseInLocation("2006-01", arg, time.Local)
		if err != nil {
			b.sendMessage(chatID, "❌ Mese non valido, usa il formato AAAA-MM (es. 2024-06)")
			return
		}
		month = parsed
	}

	ledger, err := b.CalendarService.Month(context.Background(), month)
	if err != nil {
		b.log.Error("build calendar", zap.Error(err))
		b.sendMessage(chatID, "❌ Impossibile caricare il calendario, riprova più tardi")
		return
	}

	b.setSession(chatID, &UserSession{State: StateSelectingDay, Mode: mode, Ledger: ledger})

	msg := tgbotapi.NewMessage(chatID, renderMonth(ledger, mode))
	msg.ReplyMarkup = createDaysKeyboard(ledger.Days(), mode)
	b.send(msg)
}

func (b *Bot) handleDaySelection(chatID int64, session *UserSession, text string) {
	month := session.Ledger.Month()
	lastDay := month.AddDate(0, 1, -1).Day()

	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > lastDay {
		b.sendMessage(chatID, fmt.Sprintf("❌ Giorno non valido, scrivi un numero da 1 a %d", lastDay))
		return
	}

	date := time.Date(month.Year(), month.Month(), n, 0, 0, 0, 0, time.Local)
	b.sendMessage(chatID, renderDay(session.Ledger.Day(date), session.Mode))
}

func renderMonth(ledger *calendar.Ledger, mode calendar.ViewMode) string {
	month := ledger.Month()

	var sb strings.Builder
	title := "💶 Pagamenti"
	if mode == calendar.ModeUnpaid {
		title = "⏳ Insoluti"
	}
	fmt.Fprintf(&sb, "%s di %s %d\n\n", title, monthNames[month.Month()-1], month.Year())

	shown := 0
	for _, day := range ledger.Days() {
		if len(day.Entries(mode)) == 0 {
			continue
		}
		shown++

		names := make([]string, 0)
		for _, label := range day.Labels(mode) {
			names = append(names, label.Name)
		}
		fmt.Fprintf(&sb, "%s · %s · %s\n   %s\n",
			day.Date.Format("02/01"), day.Caption(), formatAmount(day.Total(mode)), strings.Join(names, ", "))
	}

	if shown == 0 {
		if mode == calendar.ModeUnpaid {
			sb.WriteString("Nessun insoluto in questo mese.")
		} else {
			sb.WriteString("Nessun pagamento in questo mese.")
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nTotale: %s\n", formatAmount(ledger.Total(mode)))
	sb.WriteString("Scrivi il numero del giorno per il dettaglio.")
	return sb.String()
}

func renderDay(day calendar.Day, mode calendar.ViewMode) string {
	entries := day.Entries(mode)
	if len(entries) == 0 {
		return fmt.Sprintf("📌 %s\nNessuna voce in questo giorno.", day.Date.Format("02/01/2006"))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📌 %s · %s\n\n", day.Date.Format("02/01/2006"), day.Caption())
	for _, e := range entries {
		fmt.Fprintf(&sb, "• %s · %s %sh · %s", e.StudentName, categoryNames[e.Category], e.Hours.String(), formatAmount(e.Amount))
		if e.ProfessorName != "" {
			fmt.Fprintf(&sb, " · prof. %s", e.ProfessorName)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nTotale: %s", formatAmount(day.Total(mode)))
	return sb.String()
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}
