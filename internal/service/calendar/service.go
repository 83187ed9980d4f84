package calendar_service

import (
	"context"
	"fmt"
	"time"

	"feedyourmind-app/internal/calendar"
	"feedyourmind-app/internal/repository"
	"feedyourmind-app/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type calendarService struct {
	lessonRepo        repository.LessonRepository
	packageRepo       repository.PackageRepository
	studentRepo       repository.StudentRepository
	professorRepo     repository.ProfessorRepository
	defaultHourlyRate decimal.Decimal
	now               func() time.Time
	log               *zap.Logger
}

func NewCalendarService(
	lessonRepo repository.LessonRepository,
	packageRepo repository.PackageRepository,
	studentRepo repository.StudentRepository,
	professorRepo repository.ProfessorRepository,
	defaultHourlyRate decimal.Decimal,
	log *zap.Logger,
) service.CalendarService {
	return &calendarService{
		lessonRepo:        lessonRepo,
		packageRepo:       packageRepo,
		studentRepo:       studentRepo,
		professorRepo:     professorRepo,
		defaultHourlyRate: defaultHourlyRate,
		now:               time.Now,
		log:               log.Named("calendar"),
	}
}

func (s *calendarService) Month(ctx context.Context, month time.Time) (*calendar.Ledger, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)

	students, err := s.studentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	directory := make(calendar.Directory, len(students))
	for _, st := range students {
		directory[st.ID] = st.FullName()
	}

	professors, err := s.professorRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load professors: %w", err)
	}
	professorNames := make(calendar.Directory, len(professors))
	for _, p := range professors {
		professorNames[p.ID] = p.FullName()
	}

	lessons, err := s.lessonRepo.GetForPeriod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load lessons of %s: %w", start.Format("2006-01"), err)
	}

	packages, err := s.packageRepo.GetForPeriod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load packages of %s: %w", start.Format("2006-01"), err)
	}

	ledger := calendar.Build(lessons, packages, directory, start,
		calendar.WithDefaultHourlyRate(s.defaultHourlyRate),
		calendar.WithNow(s.now()),
		calendar.WithProfessors(professorNames))

	s.log.Debug("payment calendar built",
		zap.String("month", start.Format("2006-01")),
		zap.Int("lessons", len(lessons)),
		zap.Int("packages", len(packages)),
		zap.Int("days", len(ledger.Days())),
	)
	return ledger, nil
}
