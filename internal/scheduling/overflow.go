package scheduling

import (
	"errors"
	"fmt"

	"feedyourmind-app/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrNoOverflow      = errors.New("scheduling: lesson fits in the package, nothing to resolve")
	ErrUnknownStrategy = errors.New("scheduling: unknown overflow strategy")
	// ErrOverflowPastMidnight means the overflowing hours would start on the
	// next day, outside the lesson's date.
	ErrOverflowPastMidnight = errors.New("scheduling: overflowing hours would start after midnight")
)

// Strategy is the operator's choice for hours that do not fit in a package.
type Strategy string

const (
	// StrategyUsePackage bills the overflowing hours as a standalone lesson.
	StrategyUsePackage Strategy = "use_package"
	// StrategyCreateNewPackage moves the overflowing hours into a new package.
	StrategyCreateNewPackage Strategy = "create_new_package"
)

// Strategies lists the resolutions offered to the operator, in display order.
func Strategies() []Strategy {
	return []Strategy{StrategyUsePackage, StrategyCreateNewPackage}
}

func (s Strategy) Valid() bool {
	return s == StrategyUsePackage || s == StrategyCreateNewPackage
}

// OverflowResult tells whether a package lesson exceeds the hours left.
// ChargeableHours + OverflowHours == TotalRequestedHours when Overflow is set.
type OverflowResult struct {
	Overflow            bool            `json:"overflow"`
	ChargeableHours     decimal.Decimal `json:"chargeable_hours"`
	OverflowHours       decimal.Decimal `json:"overflow_hours"`
	TotalRequestedHours decimal.Decimal `json:"total_requested_hours"`
}

// EvaluateOverflow compares the candidate's duration with the hours left in
// pkg. original is the stored version of the lesson in edit mode and nil when
// creating; in edit mode its own hours are re-credited first. An over-drawn
// package has nothing left to charge.
func EvaluateOverflow(candidate models.Lesson, pkg *models.Package, charged []models.Lesson, original *models.Lesson) OverflowResult {
	if !candidate.IsPackage || candidate.PackageID == nil || pkg == nil {
		return OverflowResult{}
	}

	availability := ComputeAvailability(*candidate.PackageID, pkg.TotalHours, charged, original)

	availableToCheck := availability.AvailableHours
	if original != nil {
		availableToCheck = availability.TotalAvailable
	}
	if availableToCheck.IsNegative() {
		availableToCheck = decimal.Zero
	}

	if !candidate.Duration.GreaterThan(availableToCheck) {
		return OverflowResult{}
	}

	return OverflowResult{
		Overflow:            true,
		ChargeableHours:     availableToCheck,
		OverflowHours:       candidate.Duration.Sub(availableToCheck),
		TotalRequestedHours: candidate.Duration,
	}
}

// Resolution holds the records to persist for the chosen strategy.
// CappedLesson is always set. use_package fills OverflowLesson;
// create_new_package fills NewPackage and PendingLesson, whose PackageID is
// assigned once the package exists.
type Resolution struct {
	Strategy       Strategy                  `json:"strategy"`
	CappedLesson   models.Lesson             `json:"capped_lesson"`
	OverflowLesson *models.Lesson            `json:"overflow_lesson,omitempty"`
	NewPackage     *models.NewPackageRequest `json:"new_package,omitempty"`
	PendingLesson  *models.Lesson            `json:"pending_lesson,omitempty"`
}

// ResolveOverflow builds the records of a strategy. The remainder lesson
// starts when the capped one ends, on the same date; a lesson without a start
// time counts from midnight. An exhausted package still produces a zero-hour
// capped lesson.
func ResolveOverflow(candidate models.Lesson, result OverflowResult, strategy Strategy) (Resolution, error) {
	if !result.Overflow {
		return Resolution{}, ErrNoOverflow
	}
	if !strategy.Valid() {
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	capped := candidate
	capped.Duration = result.ChargeableHours
	capped.TotalPayment = result.ChargeableHours.Mul(candidate.HourlyRate)

	// the remainder continues where the capped lesson ends so the student
	// is never double-booked
	cappedEnd := LessonInterval(capped).End
	if !SameDay(cappedEnd, candidate.LessonDate) {
		return Resolution{}, fmt.Errorf("%w: capped lesson ends at %s", ErrOverflowPastMidnight, cappedEnd.Format("2006-01-02 15:04"))
	}
	resumeAt := cappedEnd.Format("15:04:05")

	remainder := candidate
	remainder.ID = 0
	remainder.StartTime = &resumeAt
	remainder.Duration = result.OverflowHours
	remainder.TotalPayment = result.OverflowHours.Mul(candidate.HourlyRate)
	remainder.IsPaid = false
	remainder.PaymentDate = nil

	resolution := Resolution{Strategy: strategy, CappedLesson: capped}

	switch strategy {
	case StrategyUsePackage:
		remainder.IsPackage = false
		remainder.PackageID = nil
		remainder.Price = remainder.TotalPayment
		resolution.OverflowLesson = &remainder

	case StrategyCreateNewPackage:
		remainder.IsPackage = true
		remainder.PackageID = nil
		remainder.Price = decimal.Zero
		resolution.PendingLesson = &remainder
		resolution.NewPackage = &models.NewPackageRequest{
			StudentIDs:  []int64{candidate.StudentID},
			StartDate:   candidate.LessonDate,
			TotalHours:  result.OverflowHours,
			PackageCost: decimal.Zero,
			Status:      models.PackageInProgress,
			IsPaid:      false,
		}
	}

	return resolution, nil
}
