package dummydb

import (
	"context"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/program"
)

type programRepository struct {
	progs *programTable
	currs *curriculumTable
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *DB) program.Repository {
	return &programRepository{progs: db.program, currs: db.curriculum}
}

func (repo *programRepository) CreateProgram(_ context.Context, prog program.Program) (program.Program, error) {
	repo.progs.Lock()
	defer repo.progs.Unlock()

	prog.ID = repo.progs.next()
	repo.progs.table[prog.ID] = &prog
	return prog, nil
}

func (repo *programRepository) QueryPrograms(_ context.Context, ordering []core.DBOrdering) ([]program.Program, error) {
	repo.progs.RLock()
	defer repo.progs.RUnlock()

	progs := make([]program.Program, 0, len(repo.progs.table))
	for _, p := range repo.progs.table {
		progs = append(progs, *p)
	}
	idx, err := sortIndex(progs, ordering)
	if err != nil {
		return nil, err
	}
	sorted := make([]program.Program, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, progs[i])
	}
	return sorted, nil
}

func (repo *programRepository) GetProgram(_ context.Context, id int) (program.Program, error) {
	repo.progs.RLock()
	defer repo.progs.RUnlock()

	if prog, ok := repo.progs.table[id]; ok {
		return *prog, nil
	}
	return program.Program{}, program.ErrNotFound
}

func (repo *programRepository) GetProgramByCode(_ context.Context, code string) (program.Program, error) {
	repo.progs.RLock()
	defer repo.progs.RUnlock()

	for _, prog := range repo.progs.table {
		if prog.Code == code {
			return *prog, nil
		}
	}
	return program.Program{}, program.ErrNotFound
}

func (repo *programRepository) UpdateProgram(_ context.Context, prog program.Program) (program.Program, error) {
	repo.progs.Lock()
	defer repo.progs.Unlock()

	if _, ok := repo.progs.table[prog.ID]; !ok {
		return program.Program{}, program.ErrNotFound
	}
	repo.progs.table[prog.ID] = &prog
	return prog, nil
}

func (repo *programRepository) DeleteProgram(_ context.Context, id int) error {
	repo.progs.Lock()
	defer repo.progs.Unlock()

	if _, ok := repo.progs.table[id]; !ok {
		return program.ErrNotFound
	}
	delete(repo.progs.table, id)

	// ON DELETE CASCADE
	repo.currs.Lock()
	defer repo.currs.Unlock()
	for cid, curr := range repo.currs.table {
		if curr.ProgramID == id {
			delete(repo.currs.table, cid)
		}
	}
	return nil
}

func (repo *programRepository) CreateCurriculum(_ context.Context, curr program.Curriculum) (program.Curriculum, error) {
	repo.currs.Lock()
	defer repo.currs.Unlock()

	curr.ID = repo.currs.next()
	repo.currs.table[curr.ID] = &curr
	return curr, nil
}

func (repo *programRepository) QueryCurriculums(_ context.Context, ordering []core.DBOrdering) ([]program.Curriculum, error) {
	repo.currs.RLock()
	defer repo.currs.RUnlock()

	currs := make([]program.Curriculum, 0, len(repo.currs.table))
	for _, c := range repo.currs.table {
		currs = append(currs, *c)
	}
	idx, err := sortIndex(currs, ordering)
	if err != nil {
		return nil, err
	}
	sorted := make([]program.Curriculum, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, currs[i])
	}
	return sorted, nil
}
