package course_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/testutil"
)

func TestService_Query(t *testing.T) {
	repos := testutil.OpenRepos(t)
	svc := course.NewService(repos.Course)
	ctx := context.Background()

	calc := testutil.CreateCourse(t, repos.Course, "Calculus I", "Limits and derivatives", core.YearFirst, 1)
	phys := testutil.CreateCourse(t, repos.Course, "Physics I", "Mechanics", core.YearFirst, 2)
	algo := testutil.CreateCourse(t, repos.Course, "Algorithms", "Sorting and calculations", core.YearSecond, 1)
	disc := testutil.CreateCourse(t, repos.Course, "Discrete Math", "", core.YearSecond, 2)

	tests := []struct {
		name     string
		filter   course.QueryFilter
		ordering []core.DBOrdering
		want     []course.Course
	}{
		{name: "all", want: []course.Course{calc, phys, algo, disc}},
		{name: "year", filter: course.QueryFilter{Year: core.YearFirst}, want: []course.Course{calc, phys}},
		{name: "sem", filter: course.QueryFilter{Sem: "1"}, want: []course.Course{calc, algo}},
		{name: "year & sem", filter: course.QueryFilter{Year: core.YearSecond, Sem: "2"}, want: []course.Course{disc}},
		{name: "search subject", filter: course.QueryFilter{Search: "MATH"}, want: []course.Course{disc}},
		{name: "search subject or description", filter: course.QueryFilter{Search: "calc"}, want: []course.Course{calc, algo}},
		{name: "year is exact", filter: course.QueryFilter{Year: "first"}, want: []course.Course{}},
		{name: "no match", filter: course.QueryFilter{Search: "lol"}, want: []course.Course{}},
		{
			name:     "ordering",
			ordering: []core.DBOrdering{{Field: "sem", Ascending: false}, {Field: "subject", Ascending: true}},
			want:     []course.Course{disc, phys, algo, calc},
		},
		{
			name:     "filtering & ordering",
			filter:   course.QueryFilter{Sem: "1"},
			ordering: []core.DBOrdering{{Field: "subject", Ascending: true}},
			want:     []course.Course{algo, calc},
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

func TestService_CRUD(t *testing.T) {
	repos := testutil.OpenRepos(t)
	svc := course.NewService(repos.Course)
	ctx := context.Background()
	validate, translator := testutil.NewValidator(testutil.NewConfig())

	nc := course.NewCourse{Subject: " CS101 ", Description: "Intro", Units: 3, Year: core.YearFirst, Sem: 1}
	require.NoError(t, nc.Validate(validate))
	crs, err := svc.Create(ctx, nc)
	require.NoError(t, err)
	assert.Equal(t, "CS101", crs.Subject)

	got, err := svc.Get(ctx, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, crs, got)

	units := 0
	uc := course.UpdateCourse{Description: "Introduction to Programming", Units: &units, Sem: 2}
	require.NoError(t, uc.Validate(validate))
	crs, err = svc.Update(ctx, crs, uc)
	require.NoError(t, err)
	assert.Equal(t, "CS101", crs.Subject)
	assert.Equal(t, "Introduction to Programming", crs.Description)
	assert.Equal(t, 0, crs.Units)
	assert.Equal(t, 2, crs.Sem)

	_, err = svc.BulkCreate(ctx, validate, translator, []course.NewCourse{
		{Subject: "CS102", Year: core.YearFirst, Sem: 2},
		{Subject: "CS103", Year: "lol", Sem: 4},
	})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	fields := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"2.year", "2.sem"}, fields)

	created, err := svc.BulkCreate(ctx, validate, translator, []course.NewCourse{
		{Subject: "CS102", Year: core.YearFirst, Sem: 2},
		{Subject: "CS201", Year: core.YearSecond, Sem: 1},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	require.NoError(t, svc.Delete(ctx, crs.ID))
	_, err = svc.Get(ctx, crs.ID)
	assert.Equal(t, course.ErrNotFound, errors.Cause(err))
	assert.Equal(t, course.ErrNotFound, errors.Cause(svc.Delete(ctx, crs.ID)))
}
