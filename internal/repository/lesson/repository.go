package lesson

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"

	"github.com/jmoiron/sqlx"
)

const selectColumns = `
	SELECT id, professor_id, student_id, lesson_date,
		to_char(start_time, 'HH24:MI:SS') AS start_time,
		duration, is_package, package_id, hourly_rate, total_payment,
		price, is_paid, payment_date, created_at
	FROM tutoring.lessons`

type lessonRepository struct {
	db repository.Executor
}

func NewLessonRepository(db *sqlx.DB) repository.LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) WithTx(tx *sqlx.Tx) repository.LessonRepository {
	return &lessonRepository{db: tx}
}

func (r *lessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.GetContext(ctx, &lesson, selectColumns+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", repository.ErrLessonNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) GetByStudentID(ctx context.Context, studentID int64) ([]models.Lesson, error) {
	var lessons []models.Lesson
	query := selectColumns + ` WHERE student_id = $1 ORDER BY lesson_date, start_time`
	if err := r.db.SelectContext(ctx, &lessons, query, studentID); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) GetByPackageID(ctx context.Context, packageID int64) ([]models.Lesson, error) {
	var lessons []models.Lesson
	query := selectColumns + ` WHERE package_id = $1 AND is_package = TRUE ORDER BY lesson_date, start_time`
	if err := r.db.SelectContext(ctx, &lessons, query, packageID); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) GetForPeriod(ctx context.Context, start, end time.Time) ([]models.Lesson, error) {
	var lessons []models.Lesson
	query := selectColumns + `
		WHERE lesson_date BETWEEN $1 AND $2
		OR payment_date BETWEEN $1 AND $2
		ORDER BY lesson_date, start_time`
	if err := r.db.SelectContext(ctx, &lessons, query, start, end); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO tutoring.lessons
		(professor_id, student_id, lesson_date, start_time, duration, is_package, package_id,
		 hourly_rate, total_payment, price, is_paid, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		lesson.ProfessorID,
		lesson.StudentID,
		lesson.LessonDate,
		lesson.StartTime,
		lesson.Duration,
		lesson.IsPackage,
		lesson.PackageID,
		lesson.HourlyRate,
		lesson.TotalPayment,
		lesson.Price,
		lesson.IsPaid,
		lesson.PaymentDate,
	).Scan(&lesson.ID, &lesson.CreatedAt)
}

func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE tutoring.lessons
		SET professor_id = $1, student_id = $2, lesson_date = $3, start_time = $4,
			duration = $5, is_package = $6, package_id = $7, hourly_rate = $8,
			total_payment = $9, price = $10, is_paid = $11, payment_date = $12
		WHERE id = $13
	`
	result, err := r.db.ExecContext(ctx, query,
		lesson.ProfessorID,
		lesson.StudentID,
		lesson.LessonDate,
		lesson.StartTime,
		lesson.Duration,
		lesson.IsPackage,
		lesson.PackageID,
		lesson.HourlyRate,
		lesson.TotalPayment,
		lesson.Price,
		lesson.IsPaid,
		lesson.PaymentDate,
		lesson.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", repository.ErrLessonNotFound, lesson.ID)
	}
	return nil
}
