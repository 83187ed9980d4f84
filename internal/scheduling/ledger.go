package scheduling

import (
	"feedyourmind-app/internal/models"

	"github.com/shopspring/decimal"
)

// Availability describes how many hours of a package are consumed and left.
// TotalAvailable re-credits the hours of the lesson being edited when it was
// already charged to the same package.
type Availability struct {
	UsedHours      decimal.Decimal `json:"used_hours"`
	AvailableHours decimal.Decimal `json:"available_hours"`
	TotalAvailable decimal.Decimal `json:"total_available"`
}

// ComputeAvailability sums the lessons charged to packageID. Lessons that are
// not package lessons of packageID are ignored. A zero package id or a
// non-positive capacity yields an all-zero result.
func ComputeAvailability(packageID int64, totalHours decimal.Decimal, charged []models.Lesson, original *models.Lesson) Availability {
	if packageID == 0 || !totalHours.IsPositive() {
		return Availability{}
	}

	used := decimal.Zero
	for _, lesson := range charged {
		if lesson.ChargedTo(packageID) {
			used = used.Add(lesson.Duration)
		}
	}

	available := totalHours.Sub(used)

	recredit := decimal.Zero
	if original != nil && original.ChargedTo(packageID) {
		recredit = original.Duration
	}

	return Availability{
		UsedHours:      used,
		AvailableHours: available,
		TotalAvailable: available.Add(recredit),
	}
}
