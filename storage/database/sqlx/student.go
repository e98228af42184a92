package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/student"
)

const (
	studentTable = "student"
	formTable    = "advising_form"
)

var (
	studentColumns = []string{"id", "student_id", "first_name", "last_name", "email", "address", "username", "year_level", "program_id"}
	formColumns    = []string{"id", "student_id", "recommendation", "created_at"}

	studentOrdering = map[string]string{
		"studentId": "student_id", "firstName": "first_name", "lastName": "last_name", "email": "email",
		"username": "username", "yearLevel": "year_level", "programId": "program_id",
	}
)

type studentRow struct {
	ID        int      `db:"id"`
	StudentID string   `db:"student_id"`
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
	Email     string   `db:"email"`
	Address   string   `db:"address"`
	Username  string   `db:"username"`
	YearLevel string   `db:"year_level"`
	ProgramID null.Int `db:"program_id"`
}

func boilStudent(stu student.Student) studentRow {
	return studentRow{
		ID:        stu.ID,
		StudentID: stu.StudentID,
		FirstName: stu.FirstName,
		LastName:  stu.LastName,
		Email:     stu.Email,
		Address:   stu.Address,
		Username:  stu.Username,
		YearLevel: stu.YearLevel,
		ProgramID: null.NewInt(stu.ProgramID, stu.ProgramID != 0),
	}
}

func (row studentRow) unboil() student.Student {
	return student.Student{
		ID:        row.ID,
		StudentID: row.StudentID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Address:   row.Address,
		Username:  row.Username,
		YearLevel: row.YearLevel,
		ProgramID: row.ProgramID.Int,
	}
}

type formRow struct {
	ID             int       `db:"id"`
	StudentID      int       `db:"student_id"`
	Recommendation string    `db:"recommendation"`
	CreatedAt      time.Time `db:"created_at"`
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

// CreateStudents creates all students, or none.
func (repo *studentRepository) CreateStudents(ctx context.Context, students ...student.Student) ([]student.Student, error) {
	created := make([]student.Student, 0, len(students))
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		for _, stu := range students {
			id, err := insert(ctx, tx, studentTable, studentColumns, boilStudent(stu))
			if err != nil {
				return err
			}
			stu.ID = id
			created = append(created, stu)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, ordering []core.DBOrdering) ([]student.Student, error) {
	query, args := build(qm.Select(studentColumns...), qm.From(studentTable), orderBy(ordering, studentOrdering))
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unboil())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	var row studentRow
	if err := getByID(ctx, repo.db, &row, studentTable, studentColumns, id, student.ErrNotFound); err != nil {
		return student.Student{}, err
	}
	return row.unboil(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	if err := update(ctx, repo.db, studentTable, studentColumns, boilStudent(stu), student.ErrNotFound); err != nil {
		return student.Student{}, err
	}
	return stu, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int) error {
	return deleteByID(ctx, repo.db, studentTable, id, student.ErrNotFound)
}

func (repo *studentRepository) CreateAdvisingForm(ctx context.Context, form student.AdvisingForm) (student.AdvisingForm, error) {
	id, err := insert(ctx, repo.db, formTable, formColumns, formRow(form))
	if err != nil {
		return student.AdvisingForm{}, err
	}
	form.ID = id
	return form, nil
}

func (repo *studentRepository) QueryAdvisingForms(ctx context.Context) ([]student.AdvisingForm, error) {
	query, args := build(qm.Select(formColumns...), qm.From(formTable), orderBy(nil, nil))
	var rows []formRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying advising forms")
	}
	forms := make([]student.AdvisingForm, 0, len(rows))
	for _, row := range rows {
		f := student.AdvisingForm(row)
		f.CreatedAt = f.CreatedAt.UTC()
		forms = append(forms, f)
	}
	return forms, nil
}
