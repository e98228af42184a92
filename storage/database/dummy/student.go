package dummydb

import (
	"context"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/student"
)

type studentRepository struct {
	students *studentTable
	forms    *formTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{students: db.student, forms: db.form}
}

func (repo *studentRepository) CreateStudents(_ context.Context, students ...student.Student) ([]student.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	created := make([]student.Student, 0, len(students))
	for _, stu := range students {
		stu.ID = repo.students.next()
		s := stu
		repo.students.table[s.ID] = &s
		created = append(created, s)
	}
	return created, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	students := make([]student.Student, 0, len(repo.students.table))
	for _, s := range repo.students.table {
		students = append(students, *s)
	}
	idx, err := sortIndex(students, ordering)
	if err != nil {
		return nil, err
	}
	sorted := make([]student.Student, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, students[i])
	}
	return sorted, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id int) (student.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if stu, ok := repo.students.table[id]; ok {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	if _, ok := repo.students.table[stu.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.students.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id int) error {
	repo.students.Lock()
	defer repo.students.Unlock()

	if _, ok := repo.students.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.students.table, id)

	// ON DELETE CASCADE
	repo.forms.Lock()
	defer repo.forms.Unlock()
	for fid, form := range repo.forms.table {
		if form.StudentID == id {
			delete(repo.forms.table, fid)
		}
	}
	return nil
}

func (repo *studentRepository) CreateAdvisingForm(_ context.Context, form student.AdvisingForm) (student.AdvisingForm, error) {
	repo.forms.Lock()
	defer repo.forms.Unlock()

	form.ID = repo.forms.next()
	repo.forms.table[form.ID] = &form
	return form, nil
}

func (repo *studentRepository) QueryAdvisingForms(_ context.Context) ([]student.AdvisingForm, error) {
	repo.forms.RLock()
	defer repo.forms.RUnlock()

	forms := make([]student.AdvisingForm, 0, len(repo.forms.table))
	for _, f := range repo.forms.table {
		forms = append(forms, *f)
	}
	idx, err := sortIndex(forms, nil)
	if err != nil {
		return nil, err
	}
	sorted := make([]student.AdvisingForm, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, forms[i])
	}
	return sorted, nil
}
