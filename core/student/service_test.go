package student_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/storage"
	"github.com/trezcool/rekodi/testutil"
)

func setup(t *testing.T) (*storage.Repositories, *student.Service) {
	repos := testutil.OpenRepos(t)
	return repos, student.NewService(repos.Student, repos.Enrollment)
}

func TestService_Create(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	validate, _ := testutil.NewValidator(testutil.NewConfig())

	ns := student.NewStudent{
		StudentID: " 2021-0001 ",
		FirstName: "Awe",
		LastName:  "Some",
		Email:     "AWE@test.cd",
		Username:  "Awe",
		YearLevel: core.YearFirst,
	}
	require.NoError(t, ns.Validate(validate))
	stu, err := svc.Create(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, "2021-0001", stu.StudentID)
	assert.Equal(t, "awe@test.cd", stu.Email)
	assert.Equal(t, "Awe Some", stu.FullName())

	_, err = svc.Create(ctx, ns)
	require.True(t, core.IsValidationError(err))
	assert.True(t, errors.Is(err, student.ErrStudentIDExists))
	assert.Equal(t, []core.FieldError{{Field: "studentId", Error: student.ErrStudentIDExists.Error()}}, err.(*core.ValidationError).Fields)

	invalid := student.NewStudent{StudentID: "2021-0002", YearLevel: "FIFTH"}
	assert.Error(t, invalid.Validate(validate))
}

func TestService_BulkCreate(t *testing.T) {
	repos, svc := setup(t)
	ctx := context.Background()
	validate, translator := testutil.NewValidator(testutil.NewConfig())
	testutil.CreateStudent(t, repos.Student, "2021-0001", "Awe", "Some", "", core.YearFirst)

	_, err := svc.BulkCreate(ctx, validate, translator, []student.NewStudent{
		{StudentID: "2021-0002", FirstName: "King", LastName: "Kong", YearLevel: core.YearSecond},
		{StudentID: "2021-0003", LastName: "Hero", YearLevel: "lol"},
	})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	fields := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"2.firstName", "2.yearLevel"}, fields)

	_, err = svc.BulkCreate(ctx, validate, translator, []student.NewStudent{
		{StudentID: "2021-0001", FirstName: "King", LastName: "Kong", YearLevel: core.YearSecond},
		{StudentID: "2021-0004", FirstName: "Hero", LastName: "Zero", YearLevel: core.YearThird},
		{StudentID: "2021-0004", FirstName: "Dup", LastName: "Licate", YearLevel: core.YearThird},
	})
	vErr, ok = errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, []core.FieldError{
		{Field: "1.studentId", Error: student.ErrStudentIDExists.Error()},
		{Field: "3.studentId", Error: student.ErrStudentIDExists.Error()},
	}, vErr.Fields)

	created, err := svc.BulkCreate(ctx, validate, translator, []student.NewStudent{
		{StudentID: "2021-0002", FirstName: "King", LastName: "Kong", YearLevel: core.YearSecond},
		{StudentID: "2021-0003", FirstName: "Hero", LastName: "Zero", YearLevel: core.YearThird},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	all, err := svc.Query(ctx, student.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_Query(t *testing.T) {
	repos, svc := setup(t)
	ctx := context.Background()

	awe := testutil.CreateStudent(t, repos.Student, "2021-0001", "Awe", "Some", "awe", core.YearFirst)
	king := testutil.CreateStudent(t, repos.Student, "2021-0002", "King", "Kong", "king", core.YearSecond)
	hero := testutil.CreateStudent(t, repos.Student, "2020-0003", "Hero", "Zero", "", core.YearSecond)
	crs := testutil.CreateCourse(t, repos.Course, "CS101", "", core.YearFirst, 1)
	term := testutil.CreateTerm(t, repos.Enrollment, "2021-2022 1st sem")
	term2 := testutil.CreateTerm(t, repos.Enrollment, "2021-2022 2nd sem")
	testutil.Enroll(t, repos.Enrollment, awe.ID, crs.ID, term.ID, enrollment.RemarkPassed)
	testutil.Enroll(t, repos.Enrollment, hero.ID, crs.ID, term.ID, enrollment.RemarkFailed)
	testutil.Enroll(t, repos.Enrollment, king.ID, crs.ID, term2.ID, enrollment.RemarkInProgress)

	tests := []struct {
		name     string
		filter   student.QueryFilter
		ordering []core.DBOrdering
		want     []student.Student
	}{
		{name: "all", want: []student.Student{awe, king, hero}},
		{name: "search", filter: student.QueryFilter{Search: "KON"}, want: []student.Student{king}},
		{name: "search student ID", filter: student.QueryFilter{Search: "2021-"}, want: []student.Student{awe, king}},
		{name: "year level", filter: student.QueryFilter{YearLevel: core.YearSecond}, want: []student.Student{king, hero}},
		{name: "school term", filter: student.QueryFilter{SchoolTermID: strconv.Itoa(term.ID)}, want: []student.Student{awe, hero}},
		{
			name:   "school term & year level",
			filter: student.QueryFilter{SchoolTermID: strconv.Itoa(term.ID), YearLevel: core.YearSecond},
			want:   []student.Student{hero},
		},
		{name: "unknown school term", filter: student.QueryFilter{SchoolTermID: "404"}, want: []student.Student{}},
		{
			name:     "ordering",
			ordering: []core.DBOrdering{{Field: "lastName", Ascending: false}},
			want:     []student.Student{hero, awe, king},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	repos, svc := setup(t)
	ctx := context.Background()
	validate, _ := testutil.NewValidator(testutil.NewConfig())
	awe := testutil.CreateStudent(t, repos.Student, "2021-0001", "Awe", "Some", "awe", core.YearFirst)

	programID := 2
	us := student.UpdateStudent{LastName: " Someone ", YearLevel: core.YearSecond, ProgramID: &programID}
	require.NoError(t, us.Validate(validate))
	updated, err := svc.Update(ctx, awe, us)
	require.NoError(t, err)
	assert.Equal(t, "Awe", updated.FirstName)
	assert.Equal(t, "Someone", updated.LastName)
	assert.Equal(t, core.YearSecond, updated.YearLevel)
	assert.Equal(t, 2, updated.ProgramID)

	require.NoError(t, svc.Delete(ctx, awe.ID))
	_, err = svc.Get(ctx, awe.ID)
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
}

func TestService_AdvisingForms(t *testing.T) {
	repos, svc := setup(t)
	ctx := context.Background()
	awe := testutil.CreateStudent(t, repos.Student, "2021-0001", "Awe", "Some", "awe", core.YearFirst)
	king := testutil.CreateStudent(t, repos.Student, "2021-0002", "King", "Kong", "king", core.YearSecond)

	_, err := svc.SubmitAdvisingForm(ctx, student.NewAdvisingForm{StudentID: 404, Recommendation: "lol"})
	assert.True(t, core.IsValidationError(err))

	f1, err := svc.SubmitAdvisingForm(ctx, student.NewAdvisingForm{StudentID: awe.ID, Recommendation: "Take CS102"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	f2, err := svc.SubmitAdvisingForm(ctx, student.NewAdvisingForm{StudentID: king.ID, Recommendation: "Retake CS101"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	f3, err := svc.SubmitAdvisingForm(ctx, student.NewAdvisingForm{StudentID: awe.ID, Recommendation: "Take CS201"})
	require.NoError(t, err)

	forms, err := svc.QueryAdvisingForms(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []student.AdvisingForm{f3, f2, f1}, forms)

	forms, err = svc.QueryAdvisingForms(ctx, strconv.Itoa(awe.ID))
	require.NoError(t, err)
	assert.Equal(t, []student.AdvisingForm{f3, f1}, forms)
}
