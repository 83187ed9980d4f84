package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PackageStatus string

const (
	PackageInProgress PackageStatus = "in_progress"
	PackageExpired    PackageStatus = "expired"
	PackageCompleted  PackageStatus = "completed"
)

// Package - hours bought in advance, possibly shared by several students.
// Status is maintained by the persistence layer and only read here.
type Package struct {
	ID          int64           `db:"id" json:"id"`
	StudentIDs  pq.Int64Array   `db:"student_ids" json:"student_ids"`
	StartDate   time.Time       `db:"start_date" json:"start_date"`
	TotalHours  decimal.Decimal `db:"total_hours" json:"total_hours"`
	PackageCost decimal.Decimal `db:"package_cost" json:"package_cost"`
	Status      PackageStatus   `db:"status" json:"status"`
	IsPaid      bool            `db:"is_paid" json:"is_paid"`
	PaymentDate *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	ExpiryDate  *time.Time      `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// PrimaryStudentID returns the student the package is attributed to in the
// payment calendar, 0 when the package has no students.
func (p Package) PrimaryStudentID() int64 {
	if len(p.StudentIDs) == 0 {
		return 0
	}
	return p.StudentIDs[0]
}

// NewPackageRequest is a package proposed to absorb overflowing hours.
type NewPackageRequest struct {
	StudentIDs  []int64         `json:"student_ids"`
	StartDate   time.Time       `json:"start_date"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	PackageCost decimal.Decimal `json:"package_cost"`
	Status      PackageStatus   `json:"status"`
	IsPaid      bool            `json:"is_paid"`
}

// CREATE TABLE tutoring.packages (
//     id SERIAL PRIMARY KEY,
//     student_ids BIGINT[] NOT NULL,
//     start_date DATE NOT NULL,
//     total_hours NUMERIC(5,2) NOT NULL,
//     package_cost NUMERIC(10,2) NOT NULL,
//     status VARCHAR(20) DEFAULT 'in_progress',
//     is_paid BOOLEAN DEFAULT FALSE,
//     payment_date DATE,
//     expiry_date DATE,
//     created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
// );
