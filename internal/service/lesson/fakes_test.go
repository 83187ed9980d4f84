package lesson_service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"

	"github.com/jmoiron/sqlx"
)

// memStore is an in-memory database whose transactions restore the
// previous state on failure.
type memStore struct {
	lessons  map[int64]models.Lesson
	packages map[int64]models.Package
	students map[int64]models.Student
	nextID   int64
	locks    []string

	// lessonCreatesLeft limits successful lesson inserts; -1 is unlimited.
	lessonCreatesLeft int
	failPackageCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		lessons:  map[int64]models.Lesson{},
		packages: map[int64]models.Package{},
		students: map[int64]models.Student{},
		nextID:   100,

		lessonCreatesLeft: -1,
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	lessons := make(map[int64]models.Lesson, len(m.lessons))
	for k, v := range m.lessons {
		lessons[k] = v
	}
	packages := make(map[int64]models.Package, len(m.packages))
	for k, v := range m.packages {
		packages[k] = v
	}

	if err := fn(nil); err != nil {
		m.lessons, m.packages = lessons, packages
		return err
	}
	return nil
}

func (m *memStore) sortedLessons(keep func(models.Lesson) bool) []models.Lesson {
	var out []models.Lesson
	for _, l := range m.lessons {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type lessonRepo struct{ *memStore }

func (r lessonRepo) WithTx(*sqlx.Tx) repository.LessonRepository { return r }

func (r lessonRepo) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", repository.ErrLessonNotFound, id)
	}
	return &l, nil
}

func (r lessonRepo) GetByStudentID(ctx context.Context, studentID int64) ([]models.Lesson, error) {
	return r.sortedLessons(func(l models.Lesson) bool { return l.StudentID == studentID }), nil
}

func (r lessonRepo) GetByPackageID(ctx context.Context, packageID int64) ([]models.Lesson, error) {
	return r.sortedLessons(func(l models.Lesson) bool { return l.ChargedTo(packageID) }), nil
}

func (r lessonRepo) GetForPeriod(ctx context.Context, start, end time.Time) ([]models.Lesson, error) {
	return r.sortedLessons(func(models.Lesson) bool { return true }), nil
}

func (r lessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	if r.lessonCreatesLeft == 0 {
		return fmt.Errorf("disk full")
	}
	if r.lessonCreatesLeft > 0 {
		r.lessonCreatesLeft--
	}
	r.nextID++
	lesson.ID = r.nextID
	r.lessons[lesson.ID] = *lesson
	return nil
}

func (r lessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	if _, ok := r.lessons[lesson.ID]; !ok {
		return fmt.Errorf("%w: id %d", repository.ErrLessonNotFound, lesson.ID)
	}
	r.lessons[lesson.ID] = *lesson
	return nil
}

type packageRepo struct{ *memStore }

func (r packageRepo) WithTx(*sqlx.Tx) repository.PackageRepository { return r }

func (r packageRepo) GetByID(ctx context.Context, id int64) (*models.Package, error) {
	p, ok := r.packages[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", repository.ErrPackageNotFound, id)
	}
	return &p, nil
}

func (r packageRepo) GetForUpdate(ctx context.Context, id int64) (*models.Package, error) {
	r.locks = append(r.locks, fmt.Sprintf("package:%d", id))
	return r.GetByID(ctx, id)
}

func (r packageRepo) GetForPeriod(ctx context.Context, start, end time.Time) ([]models.Package, error) {
	var out []models.Package
	for _, p := range r.packages {
		out = append(out, p)
	}
	return out, nil
}

func (r packageRepo) Create(ctx context.Context, req *models.NewPackageRequest) (*models.Package, error) {
	if r.failPackageCreate {
		return nil, fmt.Errorf("disk full")
	}
	r.nextID++
	pkg := models.Package{
		ID:          r.nextID,
		StudentIDs:  req.StudentIDs,
		StartDate:   req.StartDate,
		TotalHours:  req.TotalHours,
		PackageCost: req.PackageCost,
		Status:      req.Status,
		IsPaid:      req.IsPaid,
	}
	r.packages[pkg.ID] = pkg
	return &pkg, nil
}

type studentRepo struct{ *memStore }

func (r studentRepo) WithTx(*sqlx.Tx) repository.StudentRepository { return r }

func (r studentRepo) GetAll(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r studentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", repository.ErrStudentNotFound, id)
	}
	return &s, nil
}

func (r studentRepo) Lock(ctx context.Context, id int64) error {
	if _, ok := r.students[id]; !ok {
		return fmt.Errorf("%w: id %d", repository.ErrStudentNotFound, id)
	}
	r.locks = append(r.locks, fmt.Sprintf("student:%d", id))
	return nil
}
