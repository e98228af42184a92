package program

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

var (
	// errors
	ErrNotFound           = errors.New("program not found")
	ErrCurriculumNotFound = errors.New("curriculum not found")
	ErrCodeExists         = errors.New("a program with this code already exists")
)

type (
	Repository interface {
		CreateProgram(ctx context.Context, prog Program) (Program, error)
		QueryPrograms(ctx context.Context, ordering []core.DBOrdering) ([]Program, error)
		GetProgram(ctx context.Context, id int) (Program, error)
		GetProgramByCode(ctx context.Context, code string) (Program, error)
		UpdateProgram(ctx context.Context, prog Program) (Program, error)
		DeleteProgram(ctx context.Context, id int) error

		CreateCurriculum(ctx context.Context, curr Curriculum) (Curriculum, error)
		QueryCurriculums(ctx context.Context, ordering []core.DBOrdering) ([]Curriculum, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkCodeUniqueness(code string, exclProgs ...Program) error {
	prog, err := svc.repo.GetProgramByCode(context.Background(), code)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return errors.Wrap(err, "finding program by code")
	}
	for _, excl := range exclProgs {
		if prog.ID == excl.ID {
			return nil
		}
	}
	return core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
}

func (svc *Service) checkProgramExists(id int) error {
	if _, err := svc.repo.GetProgram(context.Background(), id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "programId", Error: err.Error()})
		}
		return errors.Wrap(err, "finding program")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewProgram) (Program, error) {
	return svc.repo.CreateProgram(ctx, Program{Code: np.Code, Name: np.Name})
}

func (svc *Service) Get(ctx context.Context, id int) (Program, error) {
	return svc.repo.GetProgram(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Program, error) {
	progs, err := svc.repo.QueryPrograms(ctx, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	if filter.IsEmpty() {
		return progs, nil
	}

	idx, err := record.Keep(progs, filter.Specs()...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering programs")
	}
	filtered := make([]Program, 0, len(idx))
	for _, i := range idx {
		filtered = append(filtered, progs[i])
	}
	return filtered, nil
}

func (svc *Service) Update(ctx context.Context, id int, up UpdateProgram) (Program, error) {
	return svc.repo.UpdateProgram(ctx, Program{ID: id, Code: up.Code, Name: up.Name})
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteProgram(ctx, id)
}

func (svc *Service) CreateCurriculum(ctx context.Context, nc NewCurriculum) (Curriculum, error) {
	return svc.repo.CreateCurriculum(ctx, Curriculum{
		Code:        nc.Code,
		Rev:         nc.Rev,
		CMOName:     nc.CMOName,
		Effectivity: nc.Effectivity,
		Description: nc.Description,
		ProgramID:   nc.ProgramID,
	})
}

func (svc *Service) QueryCurriculums(ctx context.Context, filter CurriculumFilter, ordering []core.DBOrdering) ([]Curriculum, error) {
	currs, err := svc.repo.QueryCurriculums(ctx, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying curriculums")
	}
	if filter.IsEmpty() {
		return currs, nil
	}

	idx, err := record.Keep(currs, filter.Specs()...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering curriculums")
	}
	filtered := make([]Curriculum, 0, len(idx))
	for _, i := range idx {
		filtered = append(filtered, currs[i])
	}
	return filtered, nil
}
