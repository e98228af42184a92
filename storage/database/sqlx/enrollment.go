package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/enrollment"
)

const (
	enrollmentTable = "student_course"
	termTable       = "school_term"
)

var (
	enrollmentColumns = []string{"id", "student_id", "course_id", "school_term_id", "remark", "no_take"}
	termColumns       = []string{"id", "name"}

	enrollmentOrdering = map[string]string{
		"studentId": "student_id", "courseId": "course_id", "schoolTermId": "school_term_id", "remark": "remark", "noTake": "no_take",
	}
)

type enrollmentRow struct {
	ID           int    `db:"id"`
	StudentID    int    `db:"student_id"`
	CourseID     int    `db:"course_id"`
	SchoolTermID int    `db:"school_term_id"`
	Remark       string `db:"remark"`
	NoTake       bool   `db:"no_take"`
}

type termRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

// CreateStudentCourses creates all enrollments, or none.
func (repo *enrollmentRepository) CreateStudentCourses(ctx context.Context, scs ...enrollment.StudentCourse) ([]enrollment.StudentCourse, error) {
	created := make([]enrollment.StudentCourse, 0, len(scs))
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		for _, sc := range scs {
			id, err := insert(ctx, tx, enrollmentTable, enrollmentColumns, enrollmentRow(sc))
			if err != nil {
				return err
			}
			sc.ID = id
			created = append(created, sc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (repo *enrollmentRepository) QueryStudentCourses(ctx context.Context, ordering []core.DBOrdering) ([]enrollment.StudentCourse, error) {
	query, args := build(qm.Select(enrollmentColumns...), qm.From(enrollmentTable), orderBy(ordering, enrollmentOrdering))
	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	scs := make([]enrollment.StudentCourse, 0, len(rows))
	for _, row := range rows {
		scs = append(scs, enrollment.StudentCourse(row))
	}
	return scs, nil
}

func (repo *enrollmentRepository) GetStudentCourse(ctx context.Context, id int) (enrollment.StudentCourse, error) {
	var row enrollmentRow
	if err := getByID(ctx, repo.db, &row, enrollmentTable, enrollmentColumns, id, enrollment.ErrNotFound); err != nil {
		return enrollment.StudentCourse{}, err
	}
	return enrollment.StudentCourse(row), nil
}

func (repo *enrollmentRepository) UpdateStudentCourse(ctx context.Context, sc enrollment.StudentCourse) (enrollment.StudentCourse, error) {
	if err := update(ctx, repo.db, enrollmentTable, enrollmentColumns, enrollmentRow(sc), enrollment.ErrNotFound); err != nil {
		return enrollment.StudentCourse{}, err
	}
	return sc, nil
}

func (repo *enrollmentRepository) DeleteStudentCourse(ctx context.Context, id int) error {
	return deleteByID(ctx, repo.db, enrollmentTable, id, enrollment.ErrNotFound)
}

func (repo *enrollmentRepository) StudentExists(ctx context.Context, id int) (bool, error) {
	query, args := build(qm.Select("id"), qm.From(studentTable), qm.Where(`"id" = ?`, id), qm.Limit(1))
	var found int
	if err := repo.db.GetContext(ctx, &found, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.Wrap(err, "finding student")
	}
	return true, nil
}

func (repo *enrollmentRepository) CreateSchoolTerm(ctx context.Context, term enrollment.SchoolTerm) (enrollment.SchoolTerm, error) {
	id, err := insert(ctx, repo.db, termTable, termColumns, termRow(term))
	if err != nil {
		return enrollment.SchoolTerm{}, err
	}
	term.ID = id
	return term, nil
}

func (repo *enrollmentRepository) QuerySchoolTerms(ctx context.Context) ([]enrollment.SchoolTerm, error) {
	query, args := build(qm.Select(termColumns...), qm.From(termTable), orderBy(nil, nil))
	var rows []termRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying school terms")
	}
	terms := make([]enrollment.SchoolTerm, 0, len(rows))
	for _, row := range rows {
		terms = append(terms, enrollment.SchoolTerm(row))
	}
	return terms, nil
}

func (repo *enrollmentRepository) GetSchoolTerm(ctx context.Context, id int) (enrollment.SchoolTerm, error) {
	var row termRow
	if err := getByID(ctx, repo.db, &row, termTable, termColumns, id, enrollment.ErrTermNotFound); err != nil {
		return enrollment.SchoolTerm{}, err
	}
	return enrollment.SchoolTerm(row), nil
}
