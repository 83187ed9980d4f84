package repository

import (
	"context"
	"errors"
	"time"

	"feedyourmind-app/internal/models"

	"github.com/jmoiron/sqlx"
)

var (
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrPackageNotFound = errors.New("package not found")
	ErrStudentNotFound = errors.New("student not found")
)

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type Executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type LessonRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]models.Lesson, error)
	GetByPackageID(ctx context.Context, packageID int64) ([]models.Lesson, error)
	// GetForPeriod returns lessons held or paid between start and end, inclusive.
	GetForPeriod(ctx context.Context, start, end time.Time) ([]models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error

	WithTx(tx *sqlx.Tx) LessonRepository
}

type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Package, error)
	// GetForUpdate locks the package row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Package, error)
	// GetForPeriod returns packages paid or expiring between start and end, inclusive.
	GetForPeriod(ctx context.Context, start, end time.Time) ([]models.Package, error)
	Create(ctx context.Context, req *models.NewPackageRequest) (*models.Package, error)

	WithTx(tx *sqlx.Tx) PackageRepository
}

type StudentRepository interface {
	GetAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	// Lock serializes writes touching the student's schedule.
	Lock(ctx context.Context, id int64) error

	WithTx(tx *sqlx.Tx) StudentRepository
}

type ProfessorRepository interface {
	GetAll(ctx context.Context) ([]models.Professor, error)
}

// Transactor runs fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}
