package scheduling

import (
	"time"

	"feedyourmind-app/internal/models"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func hours(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func clock(s string) *string {
	return &s
}

func id(v int64) *int64 {
	return &v
}

func lessonAt(lessonID, studentID int64, date, start, duration string) models.Lesson {
	return models.Lesson{
		ID:          lessonID,
		StudentID:   studentID,
		ProfessorID: 1,
		LessonDate:  day(date),
		StartTime:   clock(start),
		Duration:    hours(duration),
	}
}

func packageLesson(lessonID, packageID int64, duration string) models.Lesson {
	return models.Lesson{
		ID:         lessonID,
		StudentID:  7,
		LessonDate: day("2024-05-10"),
		Duration:   hours(duration),
		IsPackage:  true,
		PackageID:  id(packageID),
		HourlyRate: hours("25"),
	}
}
