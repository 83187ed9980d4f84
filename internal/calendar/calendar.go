// Package calendar groups paid and owed lessons and packages of a month into
// per-day entries for the payment calendar.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"feedyourmind-app/internal/models"

	"github.com/shopspring/decimal"
)

// ViewMode selects which entries a day exposes.
type ViewMode string

const (
	ModePayments ViewMode = "payments"
	ModeUnpaid   ViewMode = "unpaid"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ModePayments, "":
		return ModePayments, nil
	case ModeUnpaid:
		return ModeUnpaid, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Category is the source of an entry; it drives the label colour.
type Category string

const (
	CategoryLessonPayment   Category = "lesson"
	CategoryPackagePayment  Category = "package"
	CategoryUnpaidLesson    Category = "unpaid"
	CategoryExpiredPackage  Category = "expired-package"
	CategoryExpiringPackage Category = "expiring-package"
)

// Entry is one lesson or package on a calendar day.
type Entry struct {
	ID            string          `json:"id"`
	Category      Category        `json:"category"`
	SourceID      int64           `json:"source_id"`
	Date          time.Time       `json:"date"`
	StudentID     int64           `json:"student_id"`
	StudentName   string          `json:"student_name"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	Hours         decimal.Decimal `json:"hours"`
	ProfessorID   int64           `json:"professor_id,omitempty"`
	ProfessorName string          `json:"professor_name,omitempty"`
}

// StudentDirectory resolves student display names.
type StudentDirectory interface {
	StudentName(id int64) (string, bool)
}

// Directory is a StudentDirectory backed by a map of full names.
type Directory map[int64]string

func (d Directory) StudentName(id int64) (string, bool) {
	name, ok := d[id]
	return name, ok && strings.TrimSpace(name) != ""
}

type options struct {
	defaultHourlyRate decimal.Decimal
	now               time.Time
	professors        Directory
}

type Option func(*options)

// WithDefaultHourlyRate sets the rate used to price unpaid lessons stored
// without a price.
func WithDefaultHourlyRate(rate decimal.Decimal) Option {
	return func(o *options) {
		o.defaultHourlyRate = rate
	}
}

// WithNow sets the reference time of the expiring-package window.
func WithNow(now time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithProfessors names the professors of lesson entries. Unknown professors
// get a placeholder.
func WithProfessors(professors Directory) Option {
	return func(o *options) {
		o.professors = professors
	}
}

func (o options) professorName(id int64) string {
	if id == 0 {
		return ""
	}
	if name := strings.TrimSpace(o.professors[id]); name != "" {
		return name
	}
	return fmt.Sprintf("Professore #%d", id)
}

// DefaultHourlyRate is used when no WithDefaultHourlyRate option is given.
var DefaultHourlyRate = decimal.NewFromInt(20)

// Ledger is the per-day view of a month. It is immutable once built.
type Ledger struct {
	month time.Time
	days  map[dayKey]*Day
	order []dayKey
	stats Stats
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

func (k dayKey) time() time.Time {
	return time.Date(k.year, k.month, k.day, 0, 0, 0, 0, time.Local)
}

// Build categorizes the lessons and packages of the month. Records outside the
// month or matching no category are skipped; missing names and amounts
// degrade to placeholders and zero. An unpaid package still in progress is
// listed as expiring when its expiry date falls in the current week.
func Build(lessons []models.Lesson, packages []models.Package, directory StudentDirectory, month time.Time, opts ...Option) *Ledger {
	o := options{defaultHourlyRate: DefaultHourlyRate, now: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}
	if directory == nil {
		directory = Directory{}
	}

	l := &Ledger{
		month: time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local),
		days:  make(map[dayKey]*Day),
	}

	for _, lesson := range lessons {
		if lesson.IsPackage {
			continue
		}

		switch {
		case lesson.IsPaid && lesson.PaymentDate != nil && l.contains(*lesson.PaymentDate):
			entry := newEntry(CategoryLessonPayment, lesson.ID, *lesson.PaymentDate, lesson.StudentID, directory,
				lesson.Price, lesson.Duration, lesson.ProfessorID)
			entry.ProfessorName = o.professorName(lesson.ProfessorID)
			l.add(entry)

		case !lesson.IsPaid && l.contains(lesson.LessonDate):
			amount := lesson.Price
			if !amount.IsPositive() {
				amount = lesson.Duration.Mul(o.defaultHourlyRate)
			}
			entry := newEntry(CategoryUnpaidLesson, lesson.ID, lesson.LessonDate, lesson.StudentID, directory,
				amount, lesson.Duration, lesson.ProfessorID)
			entry.ProfessorName = o.professorName(lesson.ProfessorID)
			l.add(entry)
		}
	}

	for _, pkg := range packages {
		switch {
		case pkg.IsPaid && pkg.PaymentDate != nil && l.contains(*pkg.PaymentDate):
			l.add(newEntry(CategoryPackagePayment, pkg.ID, *pkg.PaymentDate, pkg.PrimaryStudentID(), directory,
				pkg.PackageCost, pkg.TotalHours, 0))

		case !pkg.IsPaid && pkg.Status == models.PackageExpired && pkg.ExpiryDate != nil && l.contains(*pkg.ExpiryDate):
			l.add(newEntry(CategoryExpiredPackage, pkg.ID, *pkg.ExpiryDate, pkg.PrimaryStudentID(), directory,
				pkg.PackageCost, pkg.TotalHours, 0))

		case !pkg.IsPaid && pkg.Status == models.PackageInProgress && pkg.ExpiryDate != nil &&
			l.contains(*pkg.ExpiryDate) && expiresThisWeek(*pkg.ExpiryDate, o.now):
			l.add(newEntry(CategoryExpiringPackage, pkg.ID, *pkg.ExpiryDate, pkg.PrimaryStudentID(), directory,
				pkg.PackageCost, pkg.TotalHours, 0))
		}
	}

	sort.Slice(l.order, func(i, j int) bool {
		return l.order[i].time().Before(l.order[j].time())
	})

	return l
}

func newEntry(category Category, sourceID int64, date time.Time, studentID int64, directory StudentDirectory,
	amount, hours decimal.Decimal, professorID int64) Entry {
	name, ok := directory.StudentName(studentID)
	label := FormatStudentLabel(name)
	if !ok {
		name = placeholderName(studentID)
		label = name
	}

	return Entry{
		ID:          fmt.Sprintf("%s-%d", category, sourceID),
		Category:    category,
		SourceID:    sourceID,
		Date:        keyOf(date).time(),
		StudentID:   studentID,
		StudentName: name,
		Label:       label,
		Amount:      amount,
		Hours:       hours,
		ProfessorID: professorID,
	}
}

// expiresThisWeek reports whether expiry is after Monday 00:00 of now's week
// and no later than the following Monday 00:00.
func expiresThisWeek(expiry, now time.Time) bool {
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, time.Local)
	nextMonday := monday.AddDate(0, 0, 7)

	expiryDay := keyOf(expiry).time()
	return expiryDay.After(monday) && !expiryDay.After(nextMonday)
}

func placeholderName(studentID int64) string {
	return fmt.Sprintf("Student #%d", studentID)
}

// FormatStudentLabel shortens a full name to first name and last-name
// initial: "Anna Bianchi" -> "Anna B.".
func FormatStudentLabel(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	initial := []rune(parts[1])[0]
	return fmt.Sprintf("%s %c.", parts[0], initial)
}

func (l *Ledger) contains(t time.Time) bool {
	return t.Year() == l.month.Year() && t.Month() == l.month.Month()
}

func (l *Ledger) add(e Entry) {
	k := keyOf(e.Date)
	day, ok := l.days[k]
	if !ok {
		day = &Day{Date: k.time()}
		l.days[k] = day
		l.order = append(l.order, k)
	}

	switch e.Category {
	case CategoryLessonPayment:
		day.Payments = append(day.Payments, e)
		l.stats.LessonPaymentsCount++
		l.stats.LessonPaymentsTotal = l.stats.LessonPaymentsTotal.Add(e.Amount)
		l.stats.LessonHours = l.stats.LessonHours.Add(e.Hours)
	case CategoryPackagePayment:
		day.Payments = append(day.Payments, e)
		l.stats.PackagePaymentsCount++
		l.stats.PackagePaymentsTotal = l.stats.PackagePaymentsTotal.Add(e.Amount)
	case CategoryUnpaidLesson:
		day.UnpaidLessons = append(day.UnpaidLessons, e)
		l.stats.UnpaidLessonsCount++
		l.stats.UnpaidLessonsTotal = l.stats.UnpaidLessonsTotal.Add(e.Amount)
	case CategoryExpiredPackage:
		day.ExpiredPackages = append(day.ExpiredPackages, e)
		l.stats.ExpiredPackagesCount++
		l.stats.ExpiredPackagesTotal = l.stats.ExpiredPackagesTotal.Add(e.Amount)
	case CategoryExpiringPackage:
		day.ExpiringPackages = append(day.ExpiringPackages, e)
		l.stats.ExpiringPackagesCount++
		l.stats.ExpiringPackagesTotal = l.stats.ExpiringPackagesTotal.Add(e.Amount)
	}
}

// Month returns the first day of the ledger's month.
func (l *Ledger) Month() time.Time {
	return l.month
}

// Days returns the days holding at least one entry, in calendar order.
func (l *Ledger) Days() []Day {
	days := make([]Day, 0, len(l.order))
	for _, k := range l.order {
		days = append(days, *l.days[k])
	}
	return days
}

// Day selects the already computed entries of a date. Dates without entries
// return an empty Day.
func (l *Ledger) Day(date time.Time) Day {
	if day, ok := l.days[keyOf(date)]; ok {
		return *day
	}
	return Day{Date: keyOf(date).time()}
}

// Total sums the day totals of the month for a mode.
func (l *Ledger) Total(mode ViewMode) decimal.Decimal {
	total := decimal.Zero
	for _, k := range l.order {
		total = total.Add(l.days[k].Total(mode))
	}
	return total
}

func (l *Ledger) Stats() Stats {
	return l.stats
}
