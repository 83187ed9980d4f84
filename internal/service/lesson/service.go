package lesson_service

import (
	"context"
	"errors"
	"fmt"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"
	"feedyourmind-app/internal/scheduling"
	"feedyourmind-app/internal/service"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type lessonService struct {
	lessonRepo  repository.LessonRepository
	packageRepo repository.PackageRepository
	studentRepo repository.StudentRepository
	tx          repository.Transactor
	log         *zap.Logger
}

func NewLessonService(
	lessonRepo repository.LessonRepository,
	packageRepo repository.PackageRepository,
	studentRepo repository.StudentRepository,
	tx repository.Transactor,
	log *zap.Logger,
) service.LessonService {
	return &lessonService{
		lessonRepo:  lessonRepo,
		packageRepo: packageRepo,
		studentRepo: studentRepo,
		tx:          tx,
		log:         log.Named("lessons"),
	}
}

// repos bundles the repositories bound to one transaction.
type repos struct {
	lessons  repository.LessonRepository
	packages repository.PackageRepository
	students repository.StudentRepository
}

func (s *lessonService) bind(tx *sqlx.Tx) repos {
	return repos{
		lessons:  s.lessonRepo.WithTx(tx),
		packages: s.packageRepo.WithTx(tx),
		students: s.studentRepo.WithTx(tx),
	}
}

func (s *lessonService) CheckOverlap(ctx context.Context, candidate models.Lesson, excludeID int64) (scheduling.OverlapResult, error) {
	return s.checkOverlap(ctx, s.lessonRepo, candidate, excludeID)
}

func (s *lessonService) checkOverlap(ctx context.Context, lessons repository.LessonRepository, candidate models.Lesson, excludeID int64) (scheduling.OverlapResult, error) {
	if candidate.StudentID == 0 {
		return scheduling.OverlapResult{}, nil
	}

	existing, err := lessons.GetByStudentID(ctx, candidate.StudentID)
	if err != nil {
		return scheduling.OverlapResult{}, fmt.Errorf("load lessons of student %d: %w", candidate.StudentID, err)
	}

	return scheduling.DetectOverlap(candidate, existing, excludeID), nil
}

func (s *lessonService) PackageAvailability(ctx context.Context, packageID, originalLessonID int64) (scheduling.Availability, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if errors.Is(err, repository.ErrPackageNotFound) {
		return scheduling.Availability{}, nil
	}
	if err != nil {
		return scheduling.Availability{}, err
	}

	charged, err := s.lessonRepo.GetByPackageID(ctx, packageID)
	if err != nil {
		return scheduling.Availability{}, fmt.Errorf("load lessons of package %d: %w", packageID, err)
	}

	var original *models.Lesson
	if originalLessonID != 0 {
		if original, err = s.lessonRepo.GetByID(ctx, originalLessonID); err != nil {
			return scheduling.Availability{}, err
		}
	}

	return scheduling.ComputeAvailability(pkg.ID, pkg.TotalHours, charged, original), nil
}

// EvaluateOverflow is the read-only check behind the form; an unknown
// package has nothing to allocate.
func (s *lessonService) EvaluateOverflow(ctx context.Context, candidate models.Lesson) (scheduling.OverflowResult, error) {
	result, err := s.evaluateOverflow(ctx, repos{lessons: s.lessonRepo, packages: s.packageRepo}, candidate, false)
	if errors.Is(err, repository.ErrPackageNotFound) {
		return scheduling.OverflowResult{}, nil
	}
	return result, err
}

// evaluateOverflow loads a fresh snapshot of the package and its lessons.
// With lock set the package row stays locked until the transaction ends and
// the package must be able to take the lesson.
func (s *lessonService) evaluateOverflow(ctx context.Context, r repos, candidate models.Lesson, lock bool) (scheduling.OverflowResult, error) {
	if !candidate.IsPackage || candidate.PackageID == nil {
		return scheduling.OverflowResult{}, nil
	}
	packageID := *candidate.PackageID

	get := r.packages.GetByID
	if lock {
		get = r.packages.GetForUpdate
	}
	pkg, err := get(ctx, packageID)
	if err != nil {
		return scheduling.OverflowResult{}, err
	}

	charged, err := r.lessons.GetByPackageID(ctx, packageID)
	if err != nil {
		return scheduling.OverflowResult{}, fmt.Errorf("load lessons of package %d: %w", packageID, err)
	}

	var original *models.Lesson
	if candidate.ID != 0 {
		if original, err = r.lessons.GetByID(ctx, candidate.ID); err != nil {
			return scheduling.OverflowResult{}, err
		}
	}

	if lock {
		if err := checkPackage(candidate, pkg, original); err != nil {
			return scheduling.OverflowResult{}, err
		}
	}

	return scheduling.EvaluateOverflow(candidate, pkg, charged, original), nil
}

// checkPackage accepts packages listing the student. Only packages still in
// progress take new lessons; a lesson already charged to the package may be
// edited whatever its status.
func checkPackage(candidate models.Lesson, pkg *models.Package, original *models.Lesson) error {
	owned := false
	for _, id := range pkg.StudentIDs {
		if id == candidate.StudentID {
			owned = true
			break
		}
	}
	if !owned {
		return &service.PackageMismatchError{PackageID: pkg.ID, StudentID: candidate.StudentID, Reason: service.PackageNotOwned}
	}

	if original != nil && original.ChargedTo(pkg.ID) {
		return nil
	}
	if pkg.Status != "" && pkg.Status != models.PackageInProgress {
		return &service.PackageMismatchError{PackageID: pkg.ID, StudentID: candidate.StudentID, Reason: service.PackageNotActive}
	}
	return nil
}

func (s *lessonService) SaveLesson(ctx context.Context, lesson *models.Lesson) error {
	normalize(lesson)

	return s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		r := s.bind(tx)

		if err := s.guardOverlap(ctx, r, *lesson); err != nil {
			return err
		}

		result, err := s.evaluateOverflow(ctx, r, *lesson, true)
		if err != nil {
			return err
		}
		if result.Overflow {
			s.log.Info("package overflow, waiting for operator",
				zap.Int64("package_id", *lesson.PackageID),
				zap.Stringer("requested", result.TotalRequestedHours),
				zap.Stringer("chargeable", result.ChargeableHours),
			)
			return &service.OverflowError{
				PackageID:  *lesson.PackageID,
				Result:     result,
				Strategies: scheduling.Strategies(),
			}
		}

		return s.persist(ctx, r.lessons, lesson)
	})
}

func (s *lessonService) ResolveOverflow(ctx context.Context, lesson models.Lesson, strategy scheduling.Strategy) (*service.OverflowOutcome, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", scheduling.ErrUnknownStrategy, strategy)
	}
	normalize(&lesson)

	var outcome *service.OverflowOutcome
	err := s.tx.InTx(ctx, func(tx *sqlx.Tx) error {
		r := s.bind(tx)

		if err := s.guardOverlap(ctx, r, lesson); err != nil {
			return err
		}

		result, err := s.evaluateOverflow(ctx, r, lesson, true)
		if err != nil {
			return err
		}

		if !result.Overflow {
			// the package gained room since the operator was asked
			if err := s.persist(ctx, r.lessons, &lesson); err != nil {
				return err
			}
			outcome = &service.OverflowOutcome{Lesson: &lesson}
			return nil
		}

		resolution, err := scheduling.ResolveOverflow(lesson, result, strategy)
		if err != nil {
			return err
		}

		outcome, err = s.commitResolution(ctx, r, resolution)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("package overflow resolved",
		zap.String("strategy", string(outcome.Strategy)),
		zap.Int64("lesson_id", outcome.Lesson.ID),
	)
	return outcome, nil
}

func (s *lessonService) commitResolution(ctx context.Context, r repos, resolution scheduling.Resolution) (*service.OverflowOutcome, error) {
	capped := resolution.CappedLesson
	if err := s.persist(ctx, r.lessons, &capped); err != nil {
		return nil, fmt.Errorf("save capped lesson: %w", err)
	}

	outcome := &service.OverflowOutcome{Strategy: resolution.Strategy, Lesson: &capped}

	switch resolution.Strategy {
	case scheduling.StrategyUsePackage:
		overflow := *resolution.OverflowLesson
		if err := s.guardRemainder(ctx, r, overflow); err != nil {
			return nil, err
		}
		if err := r.lessons.Create(ctx, &overflow); err != nil {
			return nil, fmt.Errorf("save overflow lesson: %w", err)
		}
		outcome.OverflowLesson = &overflow

	case scheduling.StrategyCreateNewPackage:
		if err := s.guardRemainder(ctx, r, *resolution.PendingLesson); err != nil {
			return nil, err
		}
		pkg, err := r.packages.Create(ctx, resolution.NewPackage)
		if err != nil {
			return nil, fmt.Errorf("create overflow package: %w", err)
		}

		pending := *resolution.PendingLesson
		pending.PackageID = &pkg.ID
		if err := r.lessons.Create(ctx, &pending); err != nil {
			return nil, fmt.Errorf("save lesson of package %d: %w", pkg.ID, err)
		}
		outcome.NewPackage = pkg
		outcome.PendingLesson = &pending
	}

	return outcome, nil
}

// guardRemainder checks the shifted remainder against the student's lessons,
// the capped one included, before it is written.
func (s *lessonService) guardRemainder(ctx context.Context, r repos, remainder models.Lesson) error {
	overlap, err := s.checkOverlap(ctx, r.lessons, remainder, 0)
	if err != nil {
		return err
	}
	if overlap.Overlap {
		s.log.Info("overflow remainder collides with another lesson",
			zap.Int64("student_id", remainder.StudentID),
			zap.Int64("conflicting_lesson_id", overlap.ConflictingLesson.ID),
		)
		return &service.OverlapError{Result: overlap}
	}
	return nil
}

// guardOverlap locks the student and checks the candidate against the
// student's current lessons.
func (s *lessonService) guardOverlap(ctx context.Context, r repos, lesson models.Lesson) error {
	if err := r.students.Lock(ctx, lesson.StudentID); err != nil {
		return err
	}

	overlap, err := s.checkOverlap(ctx, r.lessons, lesson, lesson.ID)
	if err != nil {
		return err
	}
	if overlap.Overlap {
		return &service.OverlapError{Result: overlap}
	}
	return nil
}

func (s *lessonService) persist(ctx context.Context, lessons repository.LessonRepository, lesson *models.Lesson) error {
	if lesson.ID == 0 {
		return lessons.Create(ctx, lesson)
	}
	return lessons.Update(ctx, lesson)
}

// normalize derives the stored amounts: total_payment always follows the
// hourly rate and package lessons are never billed individually.
func normalize(lesson *models.Lesson) {
	lesson.TotalPayment = lesson.Duration.Mul(lesson.HourlyRate)
	if lesson.IsPackage {
		lesson.IsPaid = false
		lesson.PaymentDate = nil
	} else {
		lesson.PackageID = nil
	}
}
