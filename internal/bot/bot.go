package bot

import (
	"fmt"
	"sync"

	"feedyourmind-app/internal/models/config"
	"feedyourmind-app/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

// sender is the part of the Telegram API the handlers write to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api             *tgbotapi.BotAPI
	sender          sender
	CalendarService service.CalendarService

	admins       map[int64]bool
	log          *zap.Logger
	userSessions map[int64]*UserSession // chatID -> session
	mu           sync.RWMutex
}

func NewBot(cfg config.BotConfig, calendarService service.CalendarService, log *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	api.Debug = cfg.Debug

	b := newBot(api, calendarService, cfg.AdminIDs, log)
	b.api = api

	b.log.Info("bot initialized",
		zap.String("username", api.Self.UserName),
		zap.Bool("debug", cfg.Debug),
		zap.Int64s("admins", cfg.AdminIDs),
	)
	return b, nil
}

func newBot(s sender, calendarService service.CalendarService, adminIDs []int64, log *zap.Logger) *Bot {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}

	return &Bot{
		sender:          s,
		CalendarService: calendarService,
		admins:          admins,
		log:             log.Named("bot"),
		userSessions:    make(map[int64]*UserSession),
	}
}

// Start reads updates until Stop is called.
func (b *Bot) Start() error {
	b.log.Info("authorized", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.admins[userID]
}
