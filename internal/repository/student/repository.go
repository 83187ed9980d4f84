package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"

	"github.com/jmoiron/sqlx"
)

type studentRepository struct {
	db repository.Executor
}

func NewStudentRepository(db *sqlx.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) WithTx(tx *sqlx.Tx) repository.StudentRepository {
	return &studentRepository{db: tx}
}

func (r *studentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	query := `SELECT id, first_name, last_name, email, phone, created_at FROM tutoring.students ORDER BY last_name, first_name`
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	query := `SELECT id, first_name, last_name, email, phone, created_at FROM tutoring.students WHERE id = $1`
	err := r.db.GetContext(ctx, &student, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", repository.ErrStudentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Lock(ctx context.Context, id int64) error {
	var locked int64
	err := r.db.GetContext(ctx, &locked, `SELECT id FROM tutoring.students WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", repository.ErrStudentNotFound, id)
	}
	return err
}
