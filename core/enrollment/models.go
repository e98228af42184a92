package enrollment

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/record"
)

// Remarks
const (
	RemarkPassed     = "PASSED"
	RemarkFailed     = "FAILED"
	RemarkInProgress = "IP"
	RemarkOnHold     = "HOLD"
)

// HiddenRemark replaces RemarkOnHold in the courses shown to students.
const HiddenRemark = "_"

var Remarks = []string{RemarkPassed, RemarkFailed, RemarkInProgress, RemarkOnHold}

func IsRemark(s string) bool {
	for _, r := range Remarks {
		if s == r {
			return true
		}
	}
	return false
}

// StudentCourse is the enrollment of a student in a course, during a school term.
type StudentCourse struct {
	ID           int    `json:"id"`
	StudentID    int    `json:"studentId"`
	CourseID     int    `json:"courseId"`
	SchoolTermID int    `json:"schoolTermId"`
	Remark       string `json:"remark"`
	NoTake       bool   `json:"noTake"`
}

// Detail is a StudentCourse with its course, nil if the course no longer exists.
type Detail struct {
	StudentCourse
	Course *course.Course `json:"course"`
}

type SchoolTerm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewStudentCourse contains information needed to enroll a student.
type NewStudentCourse struct {
	StudentID    int    `json:"studentId" validate:"required"`
	CourseID     int    `json:"courseId" validate:"required"`
	SchoolTermID int    `json:"schoolTermId" validate:"required"`
	Remark       string `json:"remark" validate:"omitempty,remark"`
	NoTake       bool   `json:"noTake"`
}

func (nsc *NewStudentCourse) Clean() {
	nsc.Remark = core.CleanString(nsc.Remark)
	if nsc.Remark == "" {
		nsc.Remark = RemarkInProgress
	}
}

func (nsc *NewStudentCourse) Validate(validate *validator.Validate) error {
	nsc.Clean()
	return validate.Struct(nsc)
}

func (nsc NewStudentCourse) studentCourse() StudentCourse {
	return StudentCourse{
		StudentID:    nsc.StudentID,
		CourseID:     nsc.CourseID,
		SchoolTermID: nsc.SchoolTermID,
		Remark:       nsc.Remark,
		NoTake:       nsc.NoTake,
	}
}

// UpdateStudentCourse defines what may be changed on an enrollment: its grade remark.
type UpdateStudentCourse struct {
	Remark string `json:"remark" validate:"omitempty,remark"`
	NoTake *bool  `json:"noTake"`
}

func (usc *UpdateStudentCourse) Validate(validate *validator.Validate) error {
	usc.Remark = core.CleanString(usc.Remark)
	return validate.Struct(usc)
}

type NewSchoolTerm struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (nst *NewSchoolTerm) Validate(validate *validator.Validate) error {
	nst.Name = core.CleanString(nst.Name)
	return validate.Struct(nst)
}

// QueryFilter filters enrollments on their own fields and on their course ("course." fields).
type QueryFilter struct {
	StudentID    string `query:"studentId"`
	CourseID     string `query:"courseId"`
	SchoolTermID string `query:"schoolTermId"`
	Remark       string `query:"remark"`
	Year         string `query:"year"` // course year
	Sem          string `query:"sem"`  // course sem
	Search       string `query:"search"` // course subject or description
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.CourseID == "" && qf.SchoolTermID == "" && qf.Remark == "" &&
		qf.Year == "" && qf.Sem == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanChoice(qf.StudentID)
	qf.CourseID = core.CleanChoice(qf.CourseID)
	qf.SchoolTermID = core.CleanChoice(qf.SchoolTermID)
	qf.Remark = core.CleanChoice(qf.Remark)
	qf.Year = core.CleanChoice(qf.Year)
	qf.Sem = core.CleanChoice(qf.Sem)
	qf.Search = core.CleanString(qf.Search)
}

func (qf QueryFilter) Specs() []record.FilterSpec {
	return []record.FilterSpec{
		record.Field("studentId", record.EqualsOrAny(qf.StudentID)),
		record.Field("courseId", record.EqualsOrAny(qf.CourseID)),
		record.Field("schoolTermId", record.EqualsOrAny(qf.SchoolTermID)),
		record.Field("remark", record.EqualsOrAny(qf.Remark)),
		record.Field("course.year", record.EqualsOrAny(qf.Year)),
		record.Field("course.sem", record.EqualsOrAny(qf.Sem)),
		record.AnyField(record.Contains(qf.Search), "course.subject", "course.description"),
	}
}

type TermFilter struct {
	Search string `query:"search"`
}

func (tf *TermFilter) Clean() { tf.Search = core.CleanString(tf.Search) }
