package dummydb

import (
	"context"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

// CreateCourses creates all courses, or none.
func (repo *courseRepository) CreateCourses(_ context.Context, courses ...course.Course) ([]course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := make([]course.Course, 0, len(courses))
	for _, crs := range courses {
		crs.ID = repo.db.next()
		c := crs
		repo.db.table[c.ID] = &c
		created = append(created, c)
	}
	return created, nil
}

func (repo *courseRepository) QueryCourses(_ context.Context, ordering []core.DBOrdering) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}
	idx, err := sortIndex(courses, ordering)
	if err != nil {
		return nil, err
	}
	sorted := make([]course.Course, 0, len(idx))
	for _, i := range idx {
		sorted = append(sorted, courses[i])
	}
	return sorted, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id int) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
