package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lesson - a single lesson between a professor and a student.
// Package lessons consume hours of PackageID, the others are billed
// individually through Price/IsPaid/PaymentDate.
type Lesson struct {
	ID           int64           `db:"id" json:"id"`
	ProfessorID  int64           `db:"professor_id" json:"professor_id"`
	StudentID    int64           `db:"student_id" json:"student_id"`
	LessonDate   time.Time       `db:"lesson_date" json:"lesson_date"`
	StartTime    *string         `db:"start_time" json:"start_time,omitempty"` // "15:30:00"
	Duration     decimal.Decimal `db:"duration" json:"duration"`
	IsPackage    bool            `db:"is_package" json:"is_package"`
	PackageID    *int64          `db:"package_id" json:"package_id,omitempty"`
	HourlyRate   decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	TotalPayment decimal.Decimal `db:"total_payment" json:"total_payment"`
	Price        decimal.Decimal `db:"price" json:"price"`
	IsPaid       bool            `db:"is_paid" json:"is_paid"`
	PaymentDate  *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// ChargedTo reports whether the lesson consumes hours of the given package.
func (l Lesson) ChargedTo(packageID int64) bool {
	return l.IsPackage && l.PackageID != nil && *l.PackageID == packageID
}

// CREATE TABLE tutoring.lessons (
//     id SERIAL PRIMARY KEY,
//     professor_id BIGINT REFERENCES tutoring.professors(id) ON DELETE CASCADE,
//     student_id BIGINT REFERENCES tutoring.students(id) ON DELETE CASCADE,
//     lesson_date DATE NOT NULL,
//     start_time TIME,
//     duration NUMERIC(5,2) NOT NULL,
//     is_package BOOLEAN DEFAULT FALSE,
//     package_id BIGINT REFERENCES tutoring.packages(id) ON DELETE SET NULL,
//     hourly_rate NUMERIC(10,2) NOT NULL,
//     total_payment NUMERIC(10,2) NOT NULL,
//     price NUMERIC(10,2) DEFAULT 0,
//     is_paid BOOLEAN DEFAULT FALSE,
//     payment_date DATE,
//     created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
// );
