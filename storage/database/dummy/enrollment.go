package dummydb

import (
	"context"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/enrollment"
)

type enrollmentRepository struct {
	scs      *enrollmentTable
	terms    *termTable
	students *studentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{scs: db.enrollment, terms: db.term, students: db.student}
}

func (repo *enrollmentRepository) CreateStudentCourses(_ context.Context, scs ...enrollment.StudentCourse) ([]enrollment.StudentCourse, error) {
	repo.scs.Lock()
	defer repo.scs.Unlock()

	created := make([]enrollment.StudentCourse, 0, len(scs))
	for _, sc := range scs {
		sc.ID = repo.scs.next()
		c := sc
		repo.scs.table[c.ID] = &c
		created = append(created, c)
	}
	return created, nil
}

func (repo *enrollmentRepository) QueryStudentCourses(_ context.Context, ordering []core.DBOrdering) ([]enrollment.StudentCourse, error) {
	repo.scs.RLock()
	defer repo.scs.RUnlock()

	scs := make([]enrollment.StudentCourse, 0, len(repo.scs.table))
	for _, sc := range repo.scs.table {
		scs = append(scs, *sc)
	}
	idx, err := sortIndex(scs, ordering)
	if err != nil {
		return nil, err
	}
	sorted := make([]enrollment.StudentCourse, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, scs[i])
	}
	return sorted, nil
}

func (repo *enrollmentRepository) GetStudentCourse(_ context.Context, id int) (enrollment.StudentCourse, error) {
	repo.scs.RLock()
	defer repo.scs.RUnlock()

	if sc, ok := repo.scs.table[id]; ok {
		return *sc, nil
	}
	return enrollment.StudentCourse{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) UpdateStudentCourse(_ context.Context, sc enrollment.StudentCourse) (enrollment.StudentCourse, error) {
	repo.scs.Lock()
	defer repo.scs.Unlock()

	if _, ok := repo.scs.table[sc.ID]; !ok {
		return enrollment.StudentCourse{}, enrollment.ErrNotFound
	}
	repo.scs.table[sc.ID] = &sc
	return sc, nil
}

func (repo *enrollmentRepository) DeleteStudentCourse(_ context.Context, id int) error {
	repo.scs.Lock()
	defer repo.scs.Unlock()

	if _, ok := repo.scs.table[id]; !ok {
		return enrollment.ErrNotFound
	}
	delete(repo.scs.table, id)
	return nil
}

func (repo *enrollmentRepository) StudentExists(_ context.Context, id int) (bool, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	_, ok := repo.students.table[id]
	return ok, nil
}

func (repo *enrollmentRepository) CreateSchoolTerm(_ context.Context, term enrollment.SchoolTerm) (enrollment.SchoolTerm, error) {
	repo.terms.Lock()
	defer repo.terms.Unlock()

	term.ID = repo.terms.next()
	repo.terms.table[term.ID] = &term
	return term, nil
}

func (repo *enrollmentRepository) QuerySchoolTerms(_ context.Context) ([]enrollment.SchoolTerm, error) {
	repo.terms.RLock()
	defer repo.terms.RUnlock()

	terms := make([]enrollment.SchoolTerm, 0, len(repo.terms.table))
	for _, t := range repo.terms.table {
		terms = append(terms, *t)
	}
	idx, err := sortIndex(terms, nil)
	if err != nil {
		return nil, err
	}
	sorted := make([]enrollment.SchoolTerm, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, terms[i])
	}
	return sorted, nil
}

func (repo *enrollmentRepository) GetSchoolTerm(_ context.Context, id int) (enrollment.SchoolTerm, error) {
	repo.terms.RLock()
	defer repo.terms.RUnlock()

	if term, ok := repo.terms.table[id]; ok {
		return *term, nil
	}
	return enrollment.SchoolTerm{}, enrollment.ErrTermNotFound
}
