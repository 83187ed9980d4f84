package professor

import (
	"context"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"

	"github.com/jmoiron/sqlx"
)

type professorRepository struct {
	db repository.Executor
}

func NewProfessorRepository(db *sqlx.DB) repository.ProfessorRepository {
	return &professorRepository{db: db}
}

func (r *professorRepository) GetAll(ctx context.Context) ([]models.Professor, error) {
	var professors []models.Professor
	query := `SELECT id, first_name, last_name, email, phone, created_at FROM tutoring.professors ORDER BY last_name, first_name`
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, err
	}
	return professors, nil
}
