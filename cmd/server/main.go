package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"feedyourmind-app/internal/bot"
	"feedyourmind-app/internal/models/config"
	"feedyourmind-app/internal/repository"
	"feedyourmind-app/internal/repository/lesson"
	"feedyourmind-app/internal/repository/packages"
	"feedyourmind-app/internal/repository/professor"
	"feedyourmind-app/internal/repository/student"
	"feedyourmind-app/internal/service"
	calendar_service "feedyourmind-app/internal/service/calendar"
	lesson_service "feedyourmind-app/internal/service/lesson"
	"feedyourmind-app/internal/web"
	database "feedyourmind-app/pkg"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			database.NewPostgres,

			// Репозитории
			lesson.NewLessonRepository,
			packages.NewPackageRepository,
			student.NewStudentRepository,
			professor.NewProfessorRepository,
			repository.NewTransactor,

			// Сервисы
			lesson_service.NewLessonService,
			newCalendarService,

			web.NewHandler,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(runHTTPServer, runBot),
	).Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newCalendarService(
	cfg *config.Config,
	lessonRepo repository.LessonRepository,
	packageRepo repository.PackageRepository,
	studentRepo repository.StudentRepository,
	professorRepo repository.ProfessorRepository,
	log *zap.Logger,
) service.CalendarService {
	return calendar_service.NewCalendarService(lessonRepo, packageRepo, studentRepo, professorRepo, cfg.Billing.DefaultHourlyRate, log)
}

func runHTTPServer(lc fx.Lifecycle, cfg *config.Config, handler *web.Handler, log *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			log.Info("HTTP server started", zap.String("addr", server.Addr), zap.String("env", cfg.Environment))

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

// runBot starts the operator bot when a token is configured.
func runBot(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, calendarService service.CalendarService, log *zap.Logger) error {
	if cfg.Bot.Token == "" {
		log.Warn("BOT_TOKEN is empty, Telegram bot disabled")
		return nil
	}

	telegramBot, err := bot.NewBot(cfg.Bot, calendarService, log)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := telegramBot.Start(); err != nil {
					log.Error("bot stopped", zap.Error(err))
					shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			telegramBot.Stop()
			return nil
		},
	})
	return nil
}
