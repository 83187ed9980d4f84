package service

import (
	"context"
	"fmt"
	"time"

	"feedyourmind-app/internal/calendar"
	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/scheduling"
)

// LessonService guards lesson writes with the overlap and package-hour rules.
type LessonService interface {
	CheckOverlap(ctx context.Context, candidate models.Lesson, excludeID int64) (scheduling.OverlapResult, error)
	PackageAvailability(ctx context.Context, packageID, originalLessonID int64) (scheduling.Availability, error)
	EvaluateOverflow(ctx context.Context, candidate models.Lesson) (scheduling.OverflowResult, error)

	// SaveLesson creates the lesson (ID 0) or updates it. It fails with
	// *OverlapError, *OverflowError or *PackageMismatchError when a rule
	// blocks the save.
	SaveLesson(ctx context.Context, lesson *models.Lesson) error
	// ResolveOverflow commits a capped lesson and its follow-up records
	// atomically, following the operator's strategy.
	ResolveOverflow(ctx context.Context, lesson models.Lesson, strategy scheduling.Strategy) (*OverflowOutcome, error)
}

// CalendarService builds the payment calendar of a month.
type CalendarService interface {
	Month(ctx context.Context, month time.Time) (*calendar.Ledger, error)
}

// OverlapError blocks a save that would double-book a student.
type OverlapError struct {
	Result scheduling.OverlapResult
}

func (e *OverlapError) Error() string {
	conflict := e.Result.ConflictingLesson
	if conflict == nil {
		return "lesson overlaps another lesson of the same student"
	}
	return fmt.Sprintf("lesson overlaps lesson %d of student %d on %s",
		conflict.ID, conflict.StudentID, conflict.LessonDate.Format("2006-01-02"))
}

// OverflowError blocks a save that would over-draw a package until the
// operator picks one of Strategies.
type OverflowError struct {
	PackageID  int64
	Result     scheduling.OverflowResult
	Strategies []scheduling.Strategy
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("lesson of %s hours exceeds package %d: %s chargeable, %s overflowing",
		e.Result.TotalRequestedHours, e.PackageID, e.Result.ChargeableHours, e.Result.OverflowHours)
}

// PackageMismatchError rejects a package lesson whose package cannot take it.
type PackageMismatchError struct {
	PackageID int64
	StudentID int64
	Reason    PackageMismatchReason
}

type PackageMismatchReason string

const (
	// PackageNotOwned: the package does not list the lesson's student.
	PackageNotOwned PackageMismatchReason = "not_owned"
	// PackageNotActive: the package is expired or completed.
	PackageNotActive PackageMismatchReason = "not_active"
)

func (e *PackageMismatchError) Error() string {
	if e.Reason == PackageNotActive {
		return fmt.Sprintf("package %d is not active", e.PackageID)
	}
	return fmt.Sprintf("package %d does not belong to student %d", e.PackageID, e.StudentID)
}

// OverflowOutcome lists what ResolveOverflow persisted. Strategy is empty
// when the fresh check found no overflow and the lesson was saved as is.
type OverflowOutcome struct {
	Strategy       scheduling.Strategy `json:"strategy,omitempty"`
	Lesson         *models.Lesson      `json:"lesson"`
	OverflowLesson *models.Lesson      `json:"overflow_lesson,omitempty"`
	NewPackage     *models.Package     `json:"new_package,omitempty"`
	PendingLesson  *models.Lesson      `json:"pending_lesson,omitempty"`
}
