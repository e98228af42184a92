package enrollment

import (
	"context"
	"fmt"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/record"
)

var (
	// errors
	ErrNotFound        = errors.New("student course not found")
	ErrTermNotFound    = errors.New("school term not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course for this school term")
)

type (
	Repository interface {
		CreateStudentCourses(ctx context.Context, scs ...StudentCourse) ([]StudentCourse, error)
		QueryStudentCourses(ctx context.Context, ordering []core.DBOrdering) ([]StudentCourse, error)
		GetStudentCourse(ctx context.Context, id int) (StudentCourse, error)
		UpdateStudentCourse(ctx context.Context, sc StudentCourse) (StudentCourse, error)
		DeleteStudentCourse(ctx context.Context, id int) error

		StudentExists(ctx context.Context, id int) (bool, error)

		CreateSchoolTerm(ctx context.Context, term SchoolTerm) (SchoolTerm, error)
		QuerySchoolTerms(ctx context.Context) ([]SchoolTerm, error)
		GetSchoolTerm(ctx context.Context, id int) (SchoolTerm, error)
	}

	// CourseRepository is the part of course.Repository enrollments depend on.
	CourseRepository interface {
		QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]course.Course, error)
		GetCourse(ctx context.Context, id int) (course.Course, error)
	}

	Service struct {
		repo    Repository
		courses CourseRepository
	}
)

func NewService(repo Repository, courses CourseRepository) *Service {
	return &Service{repo: repo, courses: courses}
}

// checkRefs returns the field errors of sc's dangling references, fields prefixed with prefix.
func (svc *Service) checkRefs(ctx context.Context, sc StudentCourse, prefix string) ([]core.FieldError, error) {
	var fldErrs []core.FieldError

	ok, err := svc.repo.StudentExists(ctx, sc.StudentID)
	if err != nil {
		return nil, errors.Wrap(err, "finding student")
	}
	if !ok {
		fldErrs = append(fldErrs, core.FieldError{Field: prefix + "studentId", Error: ErrStudentNotFound.Error()})
	}

	if _, err := svc.courses.GetCourse(ctx, sc.CourseID); err != nil {
		if errors.Cause(err) != course.ErrNotFound {
			return nil, errors.Wrap(err, "finding course")
		}
		fldErrs = append(fldErrs, core.FieldError{Field: prefix + "courseId", Error: err.Error()})
	}

	if _, err := svc.repo.GetSchoolTerm(ctx, sc.SchoolTermID); err != nil {
		if errors.Cause(err) != ErrTermNotFound {
			return nil, errors.Wrap(err, "finding school term")
		}
		fldErrs = append(fldErrs, core.FieldError{Field: prefix + "schoolTermId", Error: err.Error()})
	}
	return fldErrs, nil
}

// enrolled indexes the existing enrollments by student, course & school term.
func (svc *Service) enrolled(ctx context.Context) (map[[3]int]bool, error) {
	scs, err := svc.repo.QueryStudentCourses(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	idx := make(map[[3]int]bool, len(scs))
	for _, sc := range scs {
		idx[enrollmentKey(sc)] = true
	}
	return idx, nil
}

func enrollmentKey(sc StudentCourse) [3]int {
	return [3]int{sc.StudentID, sc.CourseID, sc.SchoolTermID}
}

// Enroll enrolls a student in a course for a school term.
func (svc *Service) Enroll(ctx context.Context, nsc NewStudentCourse) (StudentCourse, error) {
	scs, err := svc.bulkCreate(ctx, []StudentCourse{nsc.studentCourse()}, func(int) string { return "" })
	if err != nil {
		return StudentCourse{}, err
	}
	return scs[0], nil
}

// BulkCreate validates all enrollments first and creates them only if they are all valid.
// Field errors are reported as "<row>.<field>", rows starting at 1.
func (svc *Service) BulkCreate(
	ctx context.Context,
	validate *validator.Validate,
	translator ut.Translator,
	nscs []NewStudentCourse,
) ([]StudentCourse, error) {
	var fldErrs []core.FieldError
	scs := make([]StudentCourse, 0, len(nscs))
	for i := range nscs {
		if err := nscs[i].Validate(validate); err != nil {
			rowErrs, ok := core.TranslateFieldErrors(err, translator, rowPrefix(i))
			if !ok {
				return nil, errors.Wrap(err, "validating student course")
			}
			fldErrs = append(fldErrs, rowErrs...)
			continue
		}
		scs = append(scs, nscs[i].studentCourse())
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errors.New("invalid student courses"), fldErrs...)
	}
	if len(scs) == 0 {
		return []StudentCourse{}, nil
	}
	return svc.bulkCreate(ctx, scs, rowPrefix)
}

func rowPrefix(i int) string { return fmt.Sprintf("%d.", i+1) }

func (svc *Service) bulkCreate(ctx context.Context, scs []StudentCourse, prefix func(int) string) ([]StudentCourse, error) {
	enrolled, err := svc.enrolled(ctx)
	if err != nil {
		return nil, err
	}

	var fldErrs []core.FieldError
	for i, sc := range scs {
		refErrs, err := svc.checkRefs(ctx, sc, prefix(i))
		if err != nil {
			return nil, err
		}
		fldErrs = append(fldErrs, refErrs...)

		key := enrollmentKey(sc)
		if enrolled[key] {
			fldErrs = append(fldErrs, core.FieldError{Field: prefix(i) + "courseId", Error: ErrAlreadyEnrolled.Error()})
		}
		enrolled[key] = true
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errors.New("invalid student courses"), fldErrs...)
	}
	return svc.repo.CreateStudentCourses(ctx, scs...)
}

func (svc *Service) Get(ctx context.Context, id int) (StudentCourse, error) {
	return svc.repo.GetStudentCourse(ctx, id)
}

// GetDetail returns the enrollment with its course.
func (svc *Service) GetDetail(ctx context.Context, id int) (Detail, error) {
	sc, err := svc.repo.GetStudentCourse(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	det := Detail{StudentCourse: sc}
	crs, err := svc.courses.GetCourse(ctx, sc.CourseID)
	switch {
	case err == nil:
		det.Course = &crs
	case errors.Cause(err) != course.ErrNotFound:
		return Detail{}, errors.Wrap(err, "finding course")
	}
	return det, nil
}

// List returns all enrollments, unfiltered.
func (svc *Service) List(ctx context.Context) ([]StudentCourse, error) {
	scs, err := svc.repo.QueryStudentCourses(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	return scs, nil
}

// Query returns the enrollments matching filter.
func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]StudentCourse, error) {
	dets, err := svc.Detailed(ctx, filter, ordering)
	if err != nil {
		return nil, err
	}
	scs := make([]StudentCourse, 0, len(dets))
	for _, det := range dets {
		scs = append(scs, det.StudentCourse)
	}
	return scs, nil
}

// Detailed returns the enrollments, with their course, matching filter.
func (svc *Service) Detailed(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Detail, error) {
	scs, err := svc.repo.QueryStudentCourses(ctx, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	courses, err := svc.courses.QueryCourses(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	byID := make(map[int]course.Course, len(courses))
	for _, crs := range courses {
		byID[crs.ID] = crs
	}
	dets := make([]Detail, 0, len(scs))
	for _, sc := range scs {
		det := Detail{StudentCourse: sc}
		if crs, ok := byID[sc.CourseID]; ok {
			det.Course = &crs
		}
		dets = append(dets, det)
	}
	if filter.IsEmpty() {
		return dets, nil
	}

	idx, err := record.Keep(dets, filter.Specs()...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering student courses")
	}
	filtered := make([]Detail, 0, len(idx))
	for _, i := range idx {
		filtered = append(filtered, dets[i])
	}
	return filtered, nil
}

// StudentCourses returns a student's enrollments, with their course, as the student sees them:
// courses on hold have no remark yet.
func (svc *Service) StudentCourses(ctx context.Context, studentID int) ([]Detail, error) {
	dets, err := svc.Detailed(ctx, QueryFilter{StudentID: strconv.Itoa(studentID)}, nil)
	if err != nil {
		return nil, err
	}
	for i := range dets {
		if dets[i].Remark == RemarkOnHold {
			dets[i].Remark = HiddenRemark
		}
	}
	return dets, nil
}

// UpdateRemark sets the remark of an enrollment.
func (svc *Service) UpdateRemark(ctx context.Context, orig StudentCourse, usc UpdateStudentCourse) (StudentCourse, error) {
	sc := orig
	if usc.Remark != "" {
		sc.Remark = usc.Remark
	}
	if usc.NoTake != nil {
		sc.NoTake = *usc.NoTake
	}
	return svc.repo.UpdateStudentCourse(ctx, sc)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudentCourse(ctx, id)
}

func (svc *Service) CreateTerm(ctx context.Context, nst NewSchoolTerm) (SchoolTerm, error) {
	return svc.repo.CreateSchoolTerm(ctx, SchoolTerm{Name: nst.Name})
}

func (svc *Service) GetTerm(ctx context.Context, id int) (SchoolTerm, error) {
	return svc.repo.GetSchoolTerm(ctx, id)
}

func (svc *Service) QueryTerms(ctx context.Context, filter TermFilter) ([]SchoolTerm, error) {
	terms, err := svc.repo.QuerySchoolTerms(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying school terms")
	}
	idx, err := record.Keep(terms, record.Field("name", record.Contains(filter.Search)))
	if err != nil {
		return nil, errors.Wrap(err, "filtering school terms")
	}
	filtered := make([]SchoolTerm, 0, len(idx))
	for _, i := range idx {
		filtered = append(filtered, terms[i])
	}
	return filtered, nil
}
