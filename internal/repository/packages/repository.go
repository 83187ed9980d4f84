package packages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const selectColumns = `
	SELECT id, student_ids, start_date, total_hours, package_cost, status,
		is_paid, payment_date, expiry_date, created_at
	FROM tutoring.packages`

type packageRepository struct {
	db repository.Executor
}

func NewPackageRepository(db *sqlx.DB) repository.PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) WithTx(tx *sqlx.Tx) repository.PackageRepository {
	return &packageRepository{db: tx}
}

func (r *packageRepository) GetByID(ctx context.Context, id int64) (*models.Package, error) {
	return r.get(ctx, selectColumns+` WHERE id = $1`, id)
}

func (r *packageRepository) GetForUpdate(ctx context.Context, id int64) (*models.Package, error) {
	return r.get(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *packageRepository) get(ctx context.Context, query string, id int64) (*models.Package, error) {
	var pkg models.Package
	err := r.db.GetContext(ctx, &pkg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", repository.ErrPackageNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) GetForPeriod(ctx context.Context, start, end time.Time) ([]models.Package, error) {
	var packages []models.Package
	query := selectColumns + `
		WHERE payment_date BETWEEN $1 AND $2
		OR expiry_date BETWEEN $1 AND $2
		ORDER BY start_date`
	if err := r.db.SelectContext(ctx, &packages, query, start, end); err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepository) Create(ctx context.Context, req *models.NewPackageRequest) (*models.Package, error) {
	query := `
		INSERT INTO tutoring.packages
		(student_ids, start_date, total_hours, package_cost, status, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	pkg := &models.Package{
		StudentIDs:  pq.Int64Array(req.StudentIDs),
		StartDate:   req.StartDate,
		TotalHours:  req.TotalHours,
		PackageCost: req.PackageCost,
		Status:      req.Status,
		IsPaid:      req.IsPaid,
	}

	err := r.db.QueryRowxContext(ctx, query,
		pkg.StudentIDs,
		pkg.StartDate,
		pkg.TotalHours,
		pkg.PackageCost,
		pkg.Status,
		pkg.IsPaid,
	).Scan(&pkg.ID, &pkg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}
