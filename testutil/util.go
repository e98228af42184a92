// Package testutil creates the fixtures shared by the tests, in the memory database.
package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/core/user"
	"github.com/trezcool/rekodi/storage"
)

// NewConfig returns the test configuration, with the default outcome categories.
func NewConfig() *core.Config {
	conf := core.NewTestConfig()
	conf.Report.Categories = []string{enrollment.RemarkPassed, enrollment.RemarkFailed, enrollment.RemarkInProgress}
	return conf
}

// OpenRepos returns fresh memory repositories.
func OpenRepos(t *testing.T) *storage.Repositories {
	t.Helper()
	repos, err := storage.Open(NewConfig(), false)
	if err != nil {
		t.Fatalf("OpenRepos() failed: %v", err)
	}
	return repos
}

// NewValidator returns a validator with all the app validators registered.
func NewValidator(conf *core.Config) (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator, conf.WorkDir)
	enrollment.RegisterValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo course.Repository, subject, descr, year string, sem int) course.Course {
	t.Helper()
	courses, err := repo.CreateCourses(context.Background(), course.Course{
		Subject:     subject,
		Description: descr,
		Units:       3,
		Year:        year,
		Sem:         sem,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return courses[0]
}

func CreateStudent(t *testing.T, repo student.Repository, studentID, firstName, lastName, uname, yearLevel string) student.Student {
	t.Helper()
	students, err := repo.CreateStudents(context.Background(), student.Student{
		StudentID: studentID,
		FirstName: firstName,
		LastName:  lastName,
		Username:  uname,
		YearLevel: yearLevel,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return students[0]
}

func CreateTerm(t *testing.T, repo enrollment.Repository, name string) enrollment.SchoolTerm {
	t.Helper()
	term, err := repo.CreateSchoolTerm(context.Background(), enrollment.SchoolTerm{Name: name})
	if err != nil {
		t.Fatalf("CreateTerm() failed: %v", err)
	}
	return term
}

func Enroll(t *testing.T, repo enrollment.Repository, studentID, courseID, termID int, remark string) enrollment.StudentCourse {
	t.Helper()
	scs, err := repo.CreateStudentCourses(context.Background(), enrollment.StudentCourse{
		StudentID:    studentID,
		CourseID:     courseID,
		SchoolTermID: termID,
		Remark:       remark,
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return scs[0]
}
