package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/program"
)

const (
	programTable    = "program"
	curriculumTable = "curriculum"
)

var (
	programColumns    = []string{"id", "code", "name"}
	curriculumColumns = []string{"id", "code", "rev", "cmo_name", "effectivity", "description", "program_id"}

	programOrdering    = map[string]string{"code": "code", "name": "name"}
	curriculumOrdering = map[string]string{
		"code": "code", "rev": "rev", "cmoName": "cmo_name", "effectivity": "effectivity", "programId": "program_id",
	}
)

type programRow struct {
	ID   int    `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

type curriculumRow struct {
	ID          int    `db:"id"`
	Code        string `db:"code"`
	Rev         int    `db:"rev"`
	CMOName     string `db:"cmo_name"`
	Effectivity string `db:"effectivity"`
	Description string `db:"description"`
	ProgramID   int    `db:"program_id"`
}

type programRepository struct {
	db *sqlx.DB
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *sqlx.DB) program.Repository {
	return &programRepository{db: db}
}

func (repo *programRepository) CreateProgram(ctx context.Context, prog program.Program) (program.Program, error) {
	id, err := insert(ctx, repo.db, programTable, programColumns, programRow(prog))
	if err != nil {
		return program.Program{}, err
	}
	prog.ID = id
	return prog, nil
}

func (repo *programRepository) QueryPrograms(ctx context.Context, ordering []core.DBOrdering) ([]program.Program, error) {
	query, args := build(qm.Select(programColumns...), qm.From(programTable), orderBy(ordering, programOrdering))
	var rows []programRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	progs := make([]program.Program, 0, len(rows))
	for _, row := range rows {
		progs = append(progs, program.Program(row))
	}
	return progs, nil
}

func (repo *programRepository) GetProgram(ctx context.Context, id int) (program.Program, error) {
	var row programRow
	if err := getByID(ctx, repo.db, &row, programTable, programColumns, id, program.ErrNotFound); err != nil {
		return program.Program{}, err
	}
	return program.Program(row), nil
}

func (repo *programRepository) GetProgramByCode(ctx context.Context, code string) (program.Program, error) {
	query, args := build(qm.Select(programColumns...), qm.From(programTable), qm.Where(`"code" = ?`, code), qm.Limit(1))
	var row programRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return program.Program{}, trapNoRowsErr(err, program.ErrNotFound, "finding program by code")
	}
	return program.Program(row), nil
}

func (repo *programRepository) UpdateProgram(ctx context.Context, prog program.Program) (program.Program, error) {
	if err := update(ctx, repo.db, programTable, programColumns, programRow(prog), program.ErrNotFound); err != nil {
		return program.Program{}, err
	}
	return prog, nil
}

func (repo *programRepository) DeleteProgram(ctx context.Context, id int) error {
	return deleteByID(ctx, repo.db, programTable, id, program.ErrNotFound)
}

func (repo *programRepository) CreateCurriculum(ctx context.Context, curr program.Curriculum) (program.Curriculum, error) {
	id, err := insert(ctx, repo.db, curriculumTable, curriculumColumns, curriculumRow(curr))
	if err != nil {
		return program.Curriculum{}, err
	}
	curr.ID = id
	return curr, nil
}

func (repo *programRepository) QueryCurriculums(ctx context.Context, ordering []core.DBOrdering) ([]program.Curriculum, error) {
	query, args := build(qm.Select(curriculumColumns...), qm.From(curriculumTable), orderBy(ordering, curriculumOrdering))
	var rows []curriculumRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying curriculums")
	}
	currs := make([]program.Curriculum, 0, len(rows))
	for _, row := range rows {
		currs = append(currs, program.Curriculum(row))
	}
	return currs, nil
}
