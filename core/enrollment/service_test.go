package enrollment_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/storage"
	"github.com/trezcool/rekodi/testutil"
)

type fixture struct {
	repos *storage.Repositories
	svc   *enrollment.Service
	calc  course.Course
	phys  course.Course
	algo  course.Course
	awe   student.Student
	king  student.Student
	term  enrollment.SchoolTerm
	term2 enrollment.SchoolTerm
}

func setup(t *testing.T) fixture {
	repos := testutil.OpenRepos(t)
	return fixture{
		repos: repos,
		svc:   enrollment.NewService(repos.Enrollment, repos.Course),
		calc:  testutil.CreateCourse(t, repos.Course, "Calculus I", "Limits and derivatives", core.YearFirst, 1),
		phys:  testutil.CreateCourse(t, repos.Course, "Physics I", "Mechanics", core.YearFirst, 2),
		algo:  testutil.CreateCourse(t, repos.Course, "Algorithms", "Sorting and calculations", core.YearSecond, 1),
		awe:   testutil.CreateStudent(t, repos.Student, "2021-0001", "Awe", "Some", "awe", core.YearFirst),
		king:  testutil.CreateStudent(t, repos.Student, "2021-0002", "King", "Kong", "king", core.YearSecond),
		term:  testutil.CreateTerm(t, repos.Enrollment, "2021-2022 1st sem"),
		term2: testutil.CreateTerm(t, repos.Enrollment, "2021-2022 2nd sem"),
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "not a validation error: %v", err)
	flds := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		flds[f.Field] = f.Error
	}
	return flds
}

func TestService_Enroll(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sc, err := f.svc.Enroll(ctx, enrollment.NewStudentCourse{StudentID: f.awe.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID, Remark: enrollment.RemarkInProgress})
	require.NoError(t, err)
	assert.NotZero(t, sc.ID)
	assert.Equal(t, enrollment.RemarkInProgress, sc.Remark)

	_, err = f.svc.Enroll(ctx, enrollment.NewStudentCourse{StudentID: f.awe.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID})
	assert.Equal(t, map[string]string{"courseId": enrollment.ErrAlreadyEnrolled.Error()}, fieldErrors(t, err))

	_, err = f.svc.Enroll(ctx, enrollment.NewStudentCourse{StudentID: 404, CourseID: 404, SchoolTermID: 404})
	assert.Equal(t, map[string]string{
		"studentId":    enrollment.ErrStudentNotFound.Error(),
		"courseId":     course.ErrNotFound.Error(),
		"schoolTermId": enrollment.ErrTermNotFound.Error(),
	}, fieldErrors(t, err))
}

func TestService_BulkCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	validate, translator := testutil.NewValidator(testutil.NewConfig())

	t.Run("invalid rows", func(t *testing.T) {
		_, err := f.svc.BulkCreate(ctx, validate, translator, []enrollment.NewStudentCourse{
			{StudentID: f.awe.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID},
			{CourseID: f.calc.ID, SchoolTermID: f.term.ID, Remark: "LOL"},
		})
		flds := fieldErrors(t, err)
		assert.Contains(t, flds, "2.studentId")
		assert.Contains(t, flds, "2.remark")
		assert.NotContains(t, flds, "1.studentId")
	})

	t.Run("duplicates within the batch", func(t *testing.T) {
		_, err := f.svc.BulkCreate(ctx, validate, translator, []enrollment.NewStudentCourse{
			{StudentID: f.awe.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID},
			{StudentID: f.awe.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID},
			{StudentID: f.awe.ID, CourseID: 404, SchoolTermID: f.term.ID},
		})
		assert.Equal(t, map[string]string{
			"2.courseId": enrollment.ErrAlreadyEnrolled.Error(),
			"3.courseId": course.ErrNotFound.Error(),
		}, fieldErrors(t, err))

		scs, err := f.svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, scs, "nothing is created when a row is invalid")
	})

	t.Run("created", func(t *testing.T) {
		scs, err := f.svc.BulkCreate(ctx, validate, translator, []enrollment.NewStudentCourse{
			{StudentID: f.awe.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID},
			{StudentID: f.king.ID, CourseID: f.calc.ID, SchoolTermID: f.term.ID, Remark: enrollment.RemarkPassed, NoTake: true},
		})
		require.NoError(t, err)
		require.Len(t, scs, 2)
		assert.Equal(t, enrollment.RemarkInProgress, scs[0].Remark)
		assert.Equal(t, enrollment.RemarkPassed, scs[1].Remark)
		assert.True(t, scs[1].NoTake)
	})

	t.Run("empty", func(t *testing.T) {
		scs, err := f.svc.BulkCreate(ctx, validate, translator, nil)
		require.NoError(t, err)
		assert.Empty(t, scs)
	})
}

func TestService_Detailed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sc1 := testutil.Enroll(t, f.repos.Enrollment, f.awe.ID, f.calc.ID, f.term.ID, enrollment.RemarkPassed)
	sc2 := testutil.Enroll(t, f.repos.Enrollment, f.awe.ID, f.phys.ID, f.term2.ID, enrollment.RemarkOnHold)
	sc3 := testutil.Enroll(t, f.repos.Enrollment, f.king.ID, f.algo.ID, f.term.ID, enrollment.RemarkFailed)
	sc4 := testutil.Enroll(t, f.repos.Enrollment, f.king.ID, f.calc.ID, f.term2.ID, enrollment.RemarkInProgress)
	orphan := testutil.Enroll(t, f.repos.Enrollment, f.king.ID, 404, f.term2.ID, enrollment.RemarkInProgress)

	id := func(i int) string { return strconv.Itoa(i) }
	tests := []struct {
		name    string
		filter  enrollment.QueryFilter
		wantIDs []int
	}{
		{name: "all", wantIDs: []int{sc1.ID, sc2.ID, sc3.ID, sc4.ID, orphan.ID}},
		{name: "student", filter: enrollment.QueryFilter{StudentID: id(f.king.ID)}, wantIDs: []int{sc3.ID, sc4.ID, orphan.ID}},
		{name: "course", filter: enrollment.QueryFilter{CourseID: id(f.calc.ID)}, wantIDs: []int{sc1.ID, sc4.ID}},
		{name: "school term", filter: enrollment.QueryFilter{SchoolTermID: id(f.term.ID)}, wantIDs: []int{sc1.ID, sc3.ID}},
		{name: "remark", filter: enrollment.QueryFilter{Remark: enrollment.RemarkOnHold}, wantIDs: []int{sc2.ID}},
		{name: "course year", filter: enrollment.QueryFilter{Year: core.YearFirst}, wantIDs: []int{sc1.ID, sc2.ID, sc4.ID}},
		{name: "course year & sem", filter: enrollment.QueryFilter{Year: core.YearFirst, Sem: "2"}, wantIDs: []int{sc2.ID}},
		{name: "course search", filter: enrollment.QueryFilter{Search: "CALC"}, wantIDs: []int{sc1.ID, sc3.ID, sc4.ID}},
		{name: "combined", filter: enrollment.QueryFilter{Search: "calc", SchoolTermID: id(f.term2.ID)}, wantIDs: []int{sc4.ID}},
		{name: "no match", filter: enrollment.QueryFilter{Remark: "lol"}, wantIDs: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dets, err := f.svc.Detailed(ctx, tt.filter, nil)
			require.NoError(t, err)
			ids := make([]int, 0, len(dets))
			for _, det := range dets {
				ids = append(ids, det.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	dets, err := f.svc.Detailed(ctx, enrollment.QueryFilter{CourseID: id(f.calc.ID)}, []core.DBOrdering{{Field: "id", Ascending: false}})
	require.NoError(t, err)
	require.Len(t, dets, 2)
	assert.Equal(t, sc4.ID, dets[0].ID)
	require.NotNil(t, dets[0].Course)
	assert.Equal(t, f.calc, *dets[0].Course)

	det, err := f.svc.GetDetail(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, det.Course)

	scs, err := f.svc.Query(ctx, enrollment.QueryFilter{Remark: enrollment.RemarkFailed}, nil)
	require.NoError(t, err)
	assert.Equal(t, []enrollment.StudentCourse{sc3}, scs)
}

func TestService_StudentCourses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	testutil.Enroll(t, f.repos.Enrollment, f.awe.ID, f.calc.ID, f.term.ID, enrollment.RemarkPassed)
	testutil.Enroll(t, f.repos.Enrollment, f.awe.ID, f.phys.ID, f.term.ID, enrollment.RemarkOnHold)
	testutil.Enroll(t, f.repos.Enrollment, f.king.ID, f.phys.ID, f.term.ID, enrollment.RemarkOnHold)

	dets, err := f.svc.StudentCourses(ctx, f.awe.ID)
	require.NoError(t, err)
	require.Len(t, dets, 2)
	assert.Equal(t, enrollment.RemarkPassed, dets[0].Remark)
	assert.Equal(t, enrollment.HiddenRemark, dets[1].Remark)

	// stored remarks are untouched
	scs, err := f.svc.Query(ctx, enrollment.QueryFilter{Remark: enrollment.RemarkOnHold}, nil)
	require.NoError(t, err)
	assert.Len(t, scs, 2)
}

func TestService_UpdateRemark(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	validate, _ := testutil.NewValidator(testutil.NewConfig())

	sc := testutil.Enroll(t, f.repos.Enrollment, f.awe.ID, f.calc.ID, f.term.ID, enrollment.RemarkInProgress)

	usc := enrollment.UpdateStudentCourse{Remark: "lol"}
	assert.Error(t, usc.Validate(validate))

	noTake := true
	usc = enrollment.UpdateStudentCourse{Remark: enrollment.RemarkPassed}
	require.NoError(t, usc.Validate(validate))
	updated, err := f.svc.UpdateRemark(ctx, sc, usc)
	require.NoError(t, err)
	assert.Equal(t, enrollment.RemarkPassed, updated.Remark)
	assert.False(t, updated.NoTake)

	updated, err = f.svc.UpdateRemark(ctx, updated, enrollment.UpdateStudentCourse{NoTake: &noTake})
	require.NoError(t, err)
	assert.Equal(t, enrollment.RemarkPassed, updated.Remark)
	assert.True(t, updated.NoTake)

	got, err := f.svc.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, f.svc.Delete(ctx, sc.ID))
	_, err = f.svc.Get(ctx, sc.ID)
	assert.Equal(t, enrollment.ErrNotFound, errors.Cause(err))
}

func TestService_terms(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	term, err := f.svc.CreateTerm(ctx, enrollment.NewSchoolTerm{Name: "2022-2023 1st sem"})
	require.NoError(t, err)

	got, err := f.svc.GetTerm(ctx, term.ID)
	require.NoError(t, err)
	assert.Equal(t, term, got)

	_, err = f.svc.GetTerm(ctx, 404)
	assert.Equal(t, enrollment.ErrTermNotFound, errors.Cause(err))

	terms, err := f.svc.QueryTerms(ctx, enrollment.TermFilter{})
	require.NoError(t, err)
	assert.Equal(t, []enrollment.SchoolTerm{f.term, f.term2, term}, terms)

	terms, err = f.svc.QueryTerms(ctx, enrollment.TermFilter{Search: "2ND"})
	require.NoError(t, err)
	assert.Equal(t, []enrollment.SchoolTerm{f.term2}, terms)
}
