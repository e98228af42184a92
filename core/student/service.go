package student

import (
	"context"
	"fmt"
	"sort"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/record"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
)

type (
	Repository interface {
		CreateStudents(ctx context.Context, students ...Student) ([]Student, error)
		QueryStudents(ctx context.Context, ordering []core.DBOrdering) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		UpdateStudent(ctx context.Context, stu Student) (Student, error)
		DeleteStudent(ctx context.Context, id int) error

		CreateAdvisingForm(ctx context.Context, form AdvisingForm) (AdvisingForm, error)
		QueryAdvisingForms(ctx context.Context) ([]AdvisingForm, error)
	}

	// EnrollmentRepository is the part of enrollment.Repository students depend on.
	EnrollmentRepository interface {
		QueryStudentCourses(ctx context.Context, ordering []core.DBOrdering) ([]enrollment.StudentCourse, error)
	}

	Service struct {
		repo        Repository
		enrollments EnrollmentRepository
	}
)

func NewService(repo Repository, enrollments EnrollmentRepository) *Service {
	return &Service{repo: repo, enrollments: enrollments}
}

// checkStudentIDs returns the field errors of the student IDs already taken, or repeated in students.
func (svc *Service) checkStudentIDs(ctx context.Context, students []Student, prefix func(int) string) ([]core.FieldError, error) {
	existing, err := svc.repo.QueryStudents(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	taken := make(map[string]bool, len(existing)+len(students))
	for _, stu := range existing {
		taken[stu.StudentID] = true
	}

	var fldErrs []core.FieldError
	for i, stu := range students {
		if taken[stu.StudentID] {
			fldErrs = append(fldErrs, core.FieldError{Field: prefix(i) + "studentId", Error: ErrStudentIDExists.Error()})
		}
		taken[stu.StudentID] = true
	}
	return fldErrs, nil
}

func (svc *Service) create(ctx context.Context, students []Student, prefix func(int) string) ([]Student, error) {
	fldErrs, err := svc.checkStudentIDs(ctx, students, prefix)
	if err != nil {
		return nil, err
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(ErrStudentIDExists, fldErrs...)
	}
	return svc.repo.CreateStudents(ctx, students...)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	students, err := svc.create(ctx, []Student{ns.student()}, func(int) string { return "" })
	if err != nil {
		return Student{}, err
	}
	return students[0], nil
}

// BulkCreate validates all students first and creates them only if they are all valid.
// Field errors are reported as "<row>.<field>", rows starting at 1.
func (svc *Service) BulkCreate(
	ctx context.Context,
	validate *validator.Validate,
	translator ut.Translator,
	nss []NewStudent,
) ([]Student, error) {
	prefix := func(i int) string { return fmt.Sprintf("%d.", i+1) }

	var fldErrs []core.FieldError
	students := make([]Student, 0, len(nss))
	for i := range nss {
		if err := nss[i].Validate(validate); err != nil {
			rowErrs, ok := core.TranslateFieldErrors(err, translator, prefix(i))
			if !ok {
				return nil, errors.Wrap(err, "validating student")
			}
			fldErrs = append(fldErrs, rowErrs...)
			continue
		}
		students = append(students, nss[i].student())
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errors.New("invalid students"), fldErrs...)
	}
	if len(students) == 0 {
		return []Student{}, nil
	}
	return svc.create(ctx, students, prefix)
}

func (svc *Service) Get(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	if filter.IsEmpty() {
		return students, nil
	}

	idx, err := record.Keep(students, filter.Specs()...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}

	var inTerm map[int]bool
	if filter.SchoolTermID != "" {
		if inTerm, err = svc.enrolledDuring(ctx, filter.SchoolTermID); err != nil {
			return nil, err
		}
	}

	filtered := make([]Student, 0, len(idx))
	for _, i := range idx {
		if inTerm != nil && !inTerm[students[i].ID] {
			continue
		}
		filtered = append(filtered, students[i])
	}
	return filtered, nil
}

// enrolledDuring returns the IDs of the students with at least one enrollment during the school term.
func (svc *Service) enrolledDuring(ctx context.Context, schoolTermID string) (map[int]bool, error) {
	scs, err := svc.enrollments.QueryStudentCourses(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	idx, err := record.Keep(scs, record.Field("schoolTermId", record.Equals(schoolTermID)))
	if err != nil {
		return nil, errors.Wrap(err, "filtering student courses")
	}
	ids := make(map[int]bool, len(idx))
	for _, i := range idx {
		ids[scs[i].StudentID] = true
	}
	return ids, nil
}

func (svc *Service) Update(ctx context.Context, orig Student, us UpdateStudent) (Student, error) {
	return svc.repo.UpdateStudent(ctx, us.apply(orig))
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudent(ctx, id)
}

func (svc *Service) SubmitAdvisingForm(ctx context.Context, naf NewAdvisingForm) (AdvisingForm, error) {
	if _, err := svc.repo.GetStudent(ctx, naf.StudentID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return AdvisingForm{}, core.NewValidationError(err, core.FieldError{Field: "studentId", Error: err.Error()})
		}
		return AdvisingForm{}, errors.Wrap(err, "finding student")
	}
	return svc.repo.CreateAdvisingForm(ctx, AdvisingForm{
		StudentID:      naf.StudentID,
		Recommendation: naf.Recommendation,
		CreatedAt:      time.Now().UTC(),
	})
}

// QueryAdvisingForms returns the advising forms, most recent first; those of a student if studentID is not empty.
func (svc *Service) QueryAdvisingForms(ctx context.Context, studentID string) ([]AdvisingForm, error) {
	forms, err := svc.repo.QueryAdvisingForms(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying advising forms")
	}
	idx, err := record.Keep(forms, record.Field("studentId", record.EqualsOrAny(core.CleanChoice(studentID))))
	if err != nil {
		return nil, errors.Wrap(err, "filtering advising forms")
	}
	filtered := make([]AdvisingForm, 0, len(idx))
	for _, i := range idx {
		filtered = append(filtered, forms[i])
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	return filtered, nil
}
