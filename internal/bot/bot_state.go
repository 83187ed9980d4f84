package bot

import (
	"feedyourmind-app/internal/calendar"
)

type BotState int

const (
	StateDefault BotState = iota
	// Месяц показан, ждем номер дня
	StateSelectingDay
)

type UserSession struct {
	State BotState
	Mode  calendar.ViewMode
	// Ledger is the month last shown; day selection reads from it without
	// querying again.
	Ledger *calendar.Ledger
}

func (b *Bot) getOrCreateSession(chatID int64) *UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.userSessions[chatID]; exists {
		return session
	}

	session := &UserSession{State: StateDefault}
	b.userSessions[chatID] = session
	return session
}

func (b *Bot) setSession(chatID int64, session *UserSession) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.userSessions[chatID] = session
}

func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.userSessions, chatID)
}
