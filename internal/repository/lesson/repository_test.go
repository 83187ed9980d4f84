package lesson

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lessonColumns = []string{
	"id", "professor_id", "student_id", "lesson_date", "start_time", "duration", "is_package",
	"package_id", "hourly_rate", "total_payment", "price", "is_paid", "payment_date", "created_at",
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)
	lessonDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM tutoring.lessons WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(lessonColumns).AddRow(
			int64(3), int64(1), int64(5), lessonDate, "09:00:00", "1.5", true,
			int64(10), "25", "37.5", "0", false, nil, lessonDate,
		))

	lesson, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, int64(5), lesson.StudentID)
	assert.Equal(t, "09:00:00", *lesson.StartTime)
	assert.Equal(t, "1.5", lesson.Duration.String())
	assert.True(t, lesson.ChargedTo(10))
	assert.Nil(t, lesson.PaymentDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)

	mock.ExpectQuery(`FROM tutoring.lessons WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
}

func TestGetByPackageID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)
	lessonDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE package_id = \$1 AND is_package = TRUE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(lessonColumns).
			AddRow(int64(1), int64(1), int64(5), lessonDate, nil, "3", true, int64(10), "25", "75", "0", false, nil, lessonDate).
			AddRow(int64(2), int64(1), int64(5), lessonDate, "15:00:00", "4", true, int64(10), "25", "100", "0", false, nil, lessonDate))

	lessons, err := repo.GetByPackageID(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Nil(t, lessons[0].StartTime)
	assert.Equal(t, "4", lessons[1].Duration.String())
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)
	createdAt := time.Now()

	lesson := &models.Lesson{
		ProfessorID: 1,
		StudentID:   5,
		LessonDate:  time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Duration:    decimal.NewFromInt(2),
		HourlyRate:  decimal.NewFromInt(25),
	}

	mock.ExpectQuery(`INSERT INTO tutoring.lessons`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), createdAt))

	require.NoError(t, repo.Create(context.Background(), lesson))
	assert.Equal(t, int64(12), lesson.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)

	mock.ExpectExec(`UPDATE tutoring.lessons`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Lesson{ID: 4})
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
}

func TestWithTxUsesTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tutoring.lessons`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repository.NewTransactor(db).InTx(context.Background(), func(tx *sqlx.Tx) error {
		return repo.WithTx(tx).Update(context.Background(), &models.Lesson{ID: 4})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
