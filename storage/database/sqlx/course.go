package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
)

const courseTable = "course"

var (
	courseColumns  = []string{"id", "subject", "description", "units", "year", "sem", "curriculum_id", "program_id"}
	courseOrdering = map[string]string{
		"subject": "subject", "description": "description", "units": "units", "year": "year", "sem": "sem",
		"curriculumId": "curriculum_id", "programId": "program_id",
	}
)

type courseRow struct {
	ID           int      `db:"id"`
	Subject      string   `db:"subject"`
	Description  string   `db:"description"`
	Units        int      `db:"units"`
	Year         string   `db:"year"`
	Sem          int      `db:"sem"`
	CurriculumID null.Int `db:"curriculum_id"`
	ProgramID    null.Int `db:"program_id"`
}

func boilCourse(crs course.Course) courseRow {
	return courseRow{
		ID:           crs.ID,
		Subject:      crs.Subject,
		Description:  crs.Description,
		Units:        crs.Units,
		Year:         crs.Year,
		Sem:          crs.Sem,
		CurriculumID: null.NewInt(crs.CurriculumID, crs.CurriculumID != 0),
		ProgramID:    null.NewInt(crs.ProgramID, crs.ProgramID != 0),
	}
}

func (row courseRow) unboil() course.Course {
	return course.Course{
		ID:           row.ID,
		Subject:      row.Subject,
		Description:  row.Description,
		Units:        row.Units,
		Year:         row.Year,
		Sem:          row.Sem,
		CurriculumID: row.CurriculumID.Int,
		ProgramID:    row.ProgramID.Int,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

// CreateCourses creates all courses, or none.
func (repo *courseRepository) CreateCourses(ctx context.Context, courses ...course.Course) ([]course.Course, error) {
	created := make([]course.Course, 0, len(courses))
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		for _, crs := range courses {
			id, err := insert(ctx, tx, courseTable, courseColumns, boilCourse(crs))
			if err != nil {
				return err
			}
			crs.ID = id
			created = append(created, crs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]course.Course, error) {
	query, args := build(qm.Select(courseColumns...), qm.From(courseTable), orderBy(ordering, courseOrdering))
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.unboil())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id int) (course.Course, error) {
	var row courseRow
	if err := getByID(ctx, repo.db, &row, courseTable, courseColumns, id, course.ErrNotFound); err != nil {
		return course.Course{}, err
	}
	return row.unboil(), nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	if err := update(ctx, repo.db, courseTable, courseColumns, boilCourse(crs), course.ErrNotFound); err != nil {
		return course.Course{}, err
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id int) error {
	return deleteByID(ctx, repo.db, courseTable, id, course.ErrNotFound)
}
