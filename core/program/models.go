package program

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

type Program struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Curriculum struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Rev         int    `json:"rev"`
	CMOName     string `json:"cmoName"`
	Effectivity string `json:"effectivity"`
	Description string `json:"description"`
	ProgramID   int    `json:"programId"`
}

// NewProgram contains information needed to create a new Program.
type NewProgram struct {
	Code string `json:"code" validate:"required,max=32,alphanum_"`
	Name string `json:"name" validate:"required,max=255"`
}

func (np *NewProgram) Validate(validate *validator.Validate, svc *Service) error {
	np.Code = core.CleanString(np.Code)
	np.Name = core.CleanString(np.Name)

	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.checkCodeUniqueness(np.Code)
}

// UpdateProgram defines what information may be provided to modify an existing Program.
type UpdateProgram struct {
	Code string `json:"code" validate:"omitempty,max=32,alphanum_"`
	Name string `json:"name" validate:"omitempty,max=255"`
}

func (up *UpdateProgram) Validate(orig Program, validate *validator.Validate, svc *Service) error {
	if code := core.CleanString(up.Code); code != "" {
		up.Code = code
	} else {
		up.Code = orig.Code
	}
	if name := core.CleanString(up.Name); name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}

	if err := validate.Struct(up); err != nil {
		return err
	}
	return svc.checkCodeUniqueness(up.Code, orig)
}

// NewCurriculum contains information needed to create a new Curriculum.
type NewCurriculum struct {
	Code        string `json:"code" validate:"required,max=32"`
	Rev         int    `json:"rev" validate:"gte=0"`
	CMOName     string `json:"cmoName" validate:"max=255"`
	Effectivity string `json:"effectivity" validate:"max=64"`
	Description string `json:"description"`
	ProgramID   int    `json:"programId" validate:"required"`
}

func (nc *NewCurriculum) Validate(validate *validator.Validate, svc *Service) error {
	nc.Code = core.CleanString(nc.Code)
	nc.CMOName = core.CleanString(nc.CMOName)
	nc.Effectivity = core.CleanString(nc.Effectivity)
	nc.Description = core.CleanString(nc.Description)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkProgramExists(nc.ProgramID)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool { return qf.Search == "" }

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Specs returns the record filters of the query: search matches code or name.
func (qf QueryFilter) Specs() []record.FilterSpec {
	return []record.FilterSpec{
		record.AnyField(record.Contains(qf.Search), "code", "name"),
	}
}

type CurriculumFilter struct {
	Search    string `query:"search"`
	ProgramID string `query:"programId"`
}

func (cf *CurriculumFilter) IsEmpty() bool { return cf.Search == "" && cf.ProgramID == "" }

func (cf *CurriculumFilter) Clean() {
	cf.Search = core.CleanString(cf.Search)
	cf.ProgramID = core.CleanChoice(cf.ProgramID)
}

func (cf CurriculumFilter) Specs() []record.FilterSpec {
	return []record.FilterSpec{
		record.Field("programId", record.EqualsOrAny(cf.ProgramID)),
		record.AnyField(record.Contains(cf.Search), "code", "cmoName", "description"),
	}
}
