package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

type Course struct {
	ID           int    `json:"id"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	Units        int    `json:"units"`
	Year         string `json:"year"` // one of core.YearLevels
	Sem          int    `json:"sem"`
	CurriculumID int    `json:"curriculumId"`
	ProgramID    int    `json:"programId"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Subject      string `json:"subject" validate:"required,max=64"`
	Description  string `json:"description" validate:"max=255"`
	Units        int    `json:"units" validate:"gte=0,lte=12"`
	Year         string `json:"year" validate:"required,yearlevel"`
	Sem          int    `json:"sem" validate:"required,min=1,max=3"`
	CurriculumID int    `json:"curriculumId" validate:"gte=0"`
	ProgramID    int    `json:"programId" validate:"gte=0"`
}

func (nc *NewCourse) Clean() {
	nc.Subject = core.CleanString(nc.Subject)
	nc.Description = core.CleanString(nc.Description)
	nc.Year = core.CleanString(nc.Year)
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Clean()
	return validate.Struct(nc)
}

func (nc NewCourse) course() Course {
	return Course{
		Subject:      nc.Subject,
		Description:  nc.Description,
		Units:        nc.Units,
		Year:         nc.Year,
		Sem:          nc.Sem,
		CurriculumID: nc.CurriculumID,
		ProgramID:    nc.ProgramID,
	}
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Subject      string `json:"subject" validate:"omitempty,max=64"`
	Description  string `json:"description" validate:"omitempty,max=255"`
	Units        *int   `json:"units" validate:"omitempty,gte=0,lte=12"`
	Year         string `json:"year" validate:"omitempty,yearlevel"`
	Sem          int    `json:"sem" validate:"omitempty,min=1,max=3"`
	CurriculumID *int   `json:"curriculumId" validate:"omitempty,gte=0"`
	ProgramID    *int   `json:"programId" validate:"omitempty,gte=0"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Subject = core.CleanString(uc.Subject)
	uc.Description = core.CleanString(uc.Description)
	uc.Year = core.CleanString(uc.Year)
	return validate.Struct(uc)
}

// apply returns orig with the provided fields set.
func (uc UpdateCourse) apply(orig Course) Course {
	crs := orig
	if uc.Subject != "" {
		crs.Subject = uc.Subject
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	if uc.Units != nil {
		crs.Units = *uc.Units
	}
	if uc.Year != "" {
		crs.Year = uc.Year
	}
	if uc.Sem != 0 {
		crs.Sem = uc.Sem
	}
	if uc.CurriculumID != nil {
		crs.CurriculumID = *uc.CurriculumID
	}
	if uc.ProgramID != nil {
		crs.ProgramID = *uc.ProgramID
	}
	return crs
}

type QueryFilter struct {
	Search       string `query:"search"` // subject or description
	CurriculumID string `query:"curriculumId"`
	ProgramID    string `query:"programId"`
	Year         string `query:"year"`
	Sem          string `query:"sem"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CurriculumID == "" && qf.ProgramID == "" && qf.Year == "" && qf.Sem == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CurriculumID = core.CleanChoice(qf.CurriculumID)
	qf.ProgramID = core.CleanChoice(qf.ProgramID)
	qf.Year = core.CleanChoice(qf.Year)
	qf.Sem = core.CleanChoice(qf.Sem)
}

func (qf QueryFilter) Specs() []record.FilterSpec {
	return []record.FilterSpec{
		record.Field("curriculumId", record.EqualsOrAny(qf.CurriculumID)),
		record.Field("programId", record.EqualsOrAny(qf.ProgramID)),
		record.Field("year", record.EqualsOrAny(qf.Year)),
		record.Field("sem", record.EqualsOrAny(qf.Sem)),
		record.AnyField(record.Contains(qf.Search), "subject", "description"),
	}
}
