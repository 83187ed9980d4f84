package calendar

import "github.com/shopspring/decimal"

// Stats are the month totals per category, computed while building.
type Stats struct {
	LessonPaymentsCount   int             `json:"lesson_payments_count"`
	LessonPaymentsTotal   decimal.Decimal `json:"lesson_payments_total"`
	LessonHours           decimal.Decimal `json:"lesson_hours"`
	PackagePaymentsCount  int             `json:"package_payments_count"`
	PackagePaymentsTotal  decimal.Decimal `json:"package_payments_total"`
	UnpaidLessonsCount    int             `json:"unpaid_lessons_count"`
	UnpaidLessonsTotal    decimal.Decimal `json:"unpaid_lessons_total"`
	ExpiredPackagesCount  int             `json:"expired_packages_count"`
	ExpiredPackagesTotal  decimal.Decimal `json:"expired_packages_total"`
	ExpiringPackagesCount int             `json:"expiring_packages_count"`
	ExpiringPackagesTotal decimal.Decimal `json:"expiring_packages_total"`
}

func (s Stats) PaidTotal() decimal.Decimal {
	return s.LessonPaymentsTotal.Add(s.PackagePaymentsTotal)
}

func (s Stats) OwedTotal() decimal.Decimal {
	return s.UnpaidLessonsTotal.Add(s.ExpiredPackagesTotal).Add(s.ExpiringPackagesTotal)
}
