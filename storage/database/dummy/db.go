// Package dummydb implements the repositories in memory, for tests and the "memory" database engine.
package dummydb

import (
	"sync"

	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/program"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/core/user"
)

type (
	DB struct {
		user       *userTable
		program    *programTable
		curriculum *curriculumTable
		course     *courseTable
		student    *studentTable
		form       *formTable
		term       *termTable
		enrollment *enrollmentTable
	}

	// seq generates a table's primary keys.
	seq struct {
		last int
	}

	userTable struct {
		sync.RWMutex
		seq
		table map[int]*user.User
	}

	programTable struct {
		sync.RWMutex
		seq
		table map[int]*program.Program
	}

	curriculumTable struct {
		sync.RWMutex
		seq
		table map[int]*program.Curriculum
	}

	courseTable struct {
		sync.RWMutex
		seq
		table map[int]*course.Course
	}

	studentTable struct {
		sync.RWMutex
		seq
		table map[int]*student.Student
	}

	formTable struct {
		sync.RWMutex
		seq
		table map[int]*student.AdvisingForm
	}

	termTable struct {
		sync.RWMutex
		seq
		table map[int]*enrollment.SchoolTerm
	}

	enrollmentTable struct {
		sync.RWMutex
		seq
		table map[int]*enrollment.StudentCourse
	}
)

func (s *seq) next() int {
	s.last++
	return s.last
}

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		program:    &programTable{table: make(map[int]*program.Program)},
		curriculum: &curriculumTable{table: make(map[int]*program.Curriculum)},
		course:     &courseTable{table: make(map[int]*course.Course)},
		student:    &studentTable{table: make(map[int]*student.Student)},
		form:       &formTable{table: make(map[int]*student.AdvisingForm)},
		term:       &termTable{table: make(map[int]*enrollment.SchoolTerm)},
		enrollment: &enrollmentTable{table: make(map[int]*enrollment.StudentCourse)},
	}
	return db, nil
}
