package course

import (
	"context"
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CreateCourses(ctx context.Context, courses ...Course) ([]Course, error)
		QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]Course, error)
		GetCourse(ctx context.Context, id int) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	courses, err := svc.repo.CreateCourses(ctx, nc.course())
	if err != nil {
		return Course{}, err
	}
	return courses[0], nil
}

// BulkCreate validates all courses first and creates them only if they are all valid.
// Field errors are reported as "<row>.<field>", rows starting at 1.
func (svc *Service) BulkCreate(
	ctx context.Context,
	validate *validator.Validate,
	translator ut.Translator,
	ncs []NewCourse,
) ([]Course, error) {
	var fldErrs []core.FieldError
	courses := make([]Course, 0, len(ncs))
	for i := range ncs {
		if err := ncs[i].Validate(validate); err != nil {
			rowErrs, ok := core.TranslateFieldErrors(err, translator, fmt.Sprintf("%d.", i+1))
			if !ok {
				return nil, errors.Wrap(err, "validating course")
			}
			fldErrs = append(fldErrs, rowErrs...)
			continue
		}
		courses = append(courses, ncs[i].course())
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errors.New("invalid courses"), fldErrs...)
	}
	if len(courses) == 0 {
		return []Course{}, nil
	}
	return svc.repo.CreateCourses(ctx, courses...)
}

func (svc *Service) Get(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	courses, err := svc.repo.QueryCourses(ctx, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	if filter.IsEmpty() {
		return courses, nil
	}

	idx, err := record.Keep(courses, filter.Specs()...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	filtered := make([]Course, 0, len(idx))
	for _, i := range idx {
		filtered = append(filtered, courses[i])
	}
	return filtered, nil
}

func (svc *Service) Update(ctx context.Context, orig Course, uc UpdateCourse) (Course, error) {
	return svc.repo.UpdateCourse(ctx, uc.apply(orig))
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteCourse(ctx, id)
}
