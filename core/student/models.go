package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

type Student struct {
	ID        int    `json:"id"`
	StudentID string `json:"studentId"` // school-issued number
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Username  string `json:"username"`
	YearLevel string `json:"yearLevel"` // one of core.YearLevels
	ProgramID int    `json:"programId"`
}

func (s Student) FullName() string {
	return core.CleanString(s.FirstName + " " + s.LastName)
}

// AdvisingForm is an adviser's recommendation for a student.
type AdvisingForm struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"studentId"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"createdAt"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	StudentID string `json:"studentId" validate:"required,max=32"`
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"required,max=64"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address" validate:"max=255"`
	Username  string `json:"username" validate:"omitempty,max=64,alphanum_"`
	YearLevel string `json:"yearLevel" validate:"required,yearlevel"`
	ProgramID int    `json:"programId" validate:"gte=0"`
}

func (ns *NewStudent) Clean() {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Address = core.CleanString(ns.Address)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.YearLevel = core.CleanString(ns.YearLevel)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

func (ns NewStudent) student() Student {
	return Student{
		StudentID: ns.StudentID,
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		Address:   ns.Address,
		Username:  ns.Username,
		YearLevel: ns.YearLevel,
		ProgramID: ns.ProgramID,
	}
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	FirstName string `json:"firstName" validate:"omitempty,max=64"`
	LastName  string `json:"lastName" validate:"omitempty,max=64"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address" validate:"omitempty,max=255"`
	YearLevel string `json:"yearLevel" validate:"omitempty,yearlevel"`
	ProgramID *int   `json:"programId" validate:"omitempty,gte=0"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.FirstName = core.CleanString(us.FirstName)
	us.LastName = core.CleanString(us.LastName)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Address = core.CleanString(us.Address)
	us.YearLevel = core.CleanString(us.YearLevel)
	return validate.Struct(us)
}

func (us UpdateStudent) apply(orig Student) Student {
	stu := orig
	if us.FirstName != "" {
		stu.FirstName = us.FirstName
	}
	if us.LastName != "" {
		stu.LastName = us.LastName
	}
	if us.Email != "" {
		stu.Email = us.Email
	}
	if us.Address != "" {
		stu.Address = us.Address
	}
	if us.YearLevel != "" {
		stu.YearLevel = us.YearLevel
	}
	if us.ProgramID != nil {
		stu.ProgramID = *us.ProgramID
	}
	return stu
}

type NewAdvisingForm struct {
	StudentID      int    `json:"studentId" validate:"required"`
	Recommendation string `json:"recommendation" validate:"required,max=2000"`
}

func (naf *NewAdvisingForm) Validate(validate *validator.Validate) error {
	naf.Recommendation = core.CleanString(naf.Recommendation)
	return validate.Struct(naf)
}

type QueryFilter struct {
	Search       string `query:"search"` // first name, last name, student ID or email
	YearLevel    string `query:"yearLevel"`
	ProgramID    string `query:"programId"`
	SchoolTermID string `query:"schoolTermId"` // enrolled during that term

	// names used by the web client, merged by Clean
	Q                  string `query:"q"`
	FilterByYearLevel  string `query:"filterByYearLevel"`
	FilterByProgram    string `query:"filterByProgram"`
	FilterBySchoolTerm string `query:"filterBySchoolTerm"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.YearLevel == "" && qf.ProgramID == "" && qf.SchoolTermID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(firstNonEmpty(qf.Search, qf.Q))
	qf.YearLevel = core.CleanChoice(firstNonEmpty(qf.YearLevel, qf.FilterByYearLevel))
	qf.ProgramID = core.CleanChoice(firstNonEmpty(qf.ProgramID, qf.FilterByProgram))
	qf.SchoolTermID = core.CleanChoice(firstNonEmpty(qf.SchoolTermID, qf.FilterBySchoolTerm))
	qf.Q, qf.FilterByYearLevel, qf.FilterByProgram, qf.FilterBySchoolTerm = "", "", "", ""
}

func firstNonEmpty(vals ...string) string {
	for _, val := range vals {
		if core.CleanString(val) != "" {
			return val
		}
	}
	return ""
}

// Specs returns the filters applying to the students themselves; the school term is resolved by the Service.
func (qf QueryFilter) Specs() []record.FilterSpec {
	return []record.FilterSpec{
		record.Field("yearLevel", record.EqualsOrAny(qf.YearLevel)),
		record.Field("programId", record.EqualsOrAny(qf.ProgramID)),
		record.AnyField(record.Contains(qf.Search), "firstName", "lastName", "studentId", "email"),
	}
}
