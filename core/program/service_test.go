package program_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/program"
	"github.com/trezcool/rekodi/testutil"
)

func TestService(t *testing.T) {
	repos := testutil.OpenRepos(t)
	svc := program.NewService(repos.Program)
	ctx := context.Background()
	validate, _ := testutil.NewValidator(testutil.NewConfig())

	create := func(code, name string) program.Program {
		np := program.NewProgram{Code: code, Name: name}
		require.NoError(t, np.Validate(validate, svc))
		prog, err := svc.Create(ctx, np)
		require.NoError(t, err)
		return prog
	}
	bscs := create("BSCS", "BS Computer Science")
	bsit := create(" BSIT ", "BS Information Technology")
	assert.Equal(t, "BSIT", bsit.Code)

	t.Run("code uniqueness", func(t *testing.T) {
		np := program.NewProgram{Code: "BSCS", Name: "Duplicate"}
		assert.True(t, core.IsValidationError(np.Validate(validate, svc)))

		up := program.UpdateProgram{Code: "BSIT"}
		assert.True(t, core.IsValidationError(up.Validate(bscs, validate, svc)))

		up = program.UpdateProgram{Name: "Bachelor of Science in Computer Science"}
		require.NoError(t, up.Validate(bscs, validate, svc))
		prog, err := svc.Update(ctx, bscs.ID, up)
		require.NoError(t, err)
		assert.Equal(t, "BSCS", prog.Code)
		bscs = prog
	})

	t.Run("query", func(t *testing.T) {
		progs, err := svc.Query(ctx, program.QueryFilter{Search: "inform"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []program.Program{bsit}, progs)

		progs, err = svc.Query(ctx, program.QueryFilter{}, []core.DBOrdering{{Field: "code", Ascending: false}})
		require.NoError(t, err)
		assert.Equal(t, []program.Program{bsit, bscs}, progs)
	})

	t.Run("curriculums", func(t *testing.T) {
		nc := program.NewCurriculum{Code: "CS-2018", Rev: 1, CMOName: "CMO 25 s2015", ProgramID: 404}
		assert.True(t, core.IsValidationError(nc.Validate(validate, svc)))

		nc.ProgramID = bscs.ID
		require.NoError(t, nc.Validate(validate, svc))
		curr, err := svc.CreateCurriculum(ctx, nc)
		require.NoError(t, err)
		other, err := svc.CreateCurriculum(ctx, program.NewCurriculum{Code: "IT-2018", ProgramID: bsit.ID})
		require.NoError(t, err)

		currs, err := svc.QueryCurriculums(ctx, program.CurriculumFilter{ProgramID: strconv.Itoa(bscs.ID)}, nil)
		require.NoError(t, err)
		assert.Equal(t, []program.Curriculum{curr}, currs)

		currs, err = svc.QueryCurriculums(ctx, program.CurriculumFilter{Search: "cmo 25"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []program.Curriculum{curr}, currs)

		// deleting a program deletes its curriculums
		require.NoError(t, svc.Delete(ctx, bscs.ID))
		currs, err = svc.QueryCurriculums(ctx, program.CurriculumFilter{}, nil)
		require.NoError(t, err)
		assert.Equal(t, []program.Curriculum{other}, currs)

		_, err = svc.Get(ctx, bscs.ID)
		assert.Equal(t, program.ErrNotFound, errors.Cause(err))
	})
}
