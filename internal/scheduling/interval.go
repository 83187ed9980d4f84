package scheduling

import (
	"strconv"
	"strings"
	"time"

	"feedyourmind-app/internal/models"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// TimeInterval is the half-open span [Start, End) a lesson occupies.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two intervals share any instant. Touching
// intervals (one ends where the other starts) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// NewTimeInterval anchors a lesson on its calendar day. A nil or unparsable
// start time means midnight.
func NewTimeInterval(date time.Time, startTime *string, duration decimal.Decimal) TimeInterval {
	hour, minute := 0, 0
	if startTime != nil {
		hour, minute = ParseClock(*startTime)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.Local)
	hours, minutes := SplitDuration(duration)

	return TimeInterval{
		Start: start,
		End:   start.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute),
	}
}

func LessonInterval(lesson models.Lesson) TimeInterval {
	return NewTimeInterval(lesson.LessonDate, lesson.StartTime, lesson.Duration)
}

// SplitDuration splits fractional hours into whole hours and rounded minutes:
// 1.5 -> (1, 30).
func SplitDuration(duration decimal.Decimal) (hours, minutes int64) {
	whole := duration.Floor()
	return whole.IntPart(), duration.Sub(whole).Mul(sixty).Round(0).IntPart()
}

// ParseHours parses a duration typed by a user. Non-numeric input is zero.
func ParseHours(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseClock extracts hour and minute from "15:30", "15:30:00" or
// "0000-01-01T15:30:00Z". Missing or malformed parts read as zero.
func ParseClock(s string) (hour, minute int) {
	if idx := strings.Index(s, "T"); idx != -1 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")

	parts := strings.Split(s, ":")
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return hour, minute
}

// SameDay compares calendar dates, ignoring the time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
