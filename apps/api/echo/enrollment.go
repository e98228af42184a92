package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core/enrollment"
)

type enrollmentApi struct {
	svc        *enrollment.Service
	validate   *validator.Validate
	translator ut.Translator
	upload     *csvUpload
}

func registerEnrollmentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *enrollment.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := enrollmentApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
		upload:     mustCSVUpload("student_course", []string{"studentId", "courseId", "schoolTermId"}, []string{"noTake"}),
	}

	// "/student-course" is the path of the web client
	for _, path := range []string{"/student-courses", "/student-course"} {
		eg := g.Group(path, jwt, staffMiddleware())
		eg.GET("", api.query)
		eg.POST("", api.create)
		eg.POST("/upload", api.bulkCreate)
		eg.GET("/:id", api.retrieve)
		eg.PATCH("/:id", api.update)
		eg.DELETE("/:id", api.destroy, adminMiddleware())
	}

	tg := g.Group("/school-terms", jwt)
	tg.GET("", api.queryTerms)
	tg.POST("", api.createTerm, adminMiddleware())
	tg.GET("/:id", api.retrieveTerm)
}

// Handlers

func (api *enrollmentApi) query(ctx echo.Context) error {
	filter := new(enrollment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []enrollment.Detail{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	dets, err := api.svc.Detailed(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	return ctx.JSON(http.StatusOK, dets)
}

func (api *enrollmentApi) create(ctx echo.Context) error {
	var data enrollment.NewStudentCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudentCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sc, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, sc)
}

func (api *enrollmentApi) bulkCreate(ctx echo.Context) error {
	var data []enrollment.NewStudentCourse
	if err := api.upload.bind(ctx, &data); err != nil {
		return err
	}

	scs, err := api.svc.BulkCreate(ctx.Request().Context(), api.validate, api.translator, data)
	if err != nil {
		return errors.Wrap(err, "enrolling students")
	}
	return uploaded(ctx, scs, len(scs))
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	det, err := api.svc.GetDetail(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student course")
	}
	return ctx.JSON(http.StatusOK, det)
}

func (api *enrollmentApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	sc, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student course")
	}

	var data enrollment.UpdateStudentCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudentCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sc, err = api.svc.UpdateRemark(ctx.Request().Context(), sc, data)
	if err != nil {
		return errors.Wrap(err, "updating student course")
	}
	return ctx.JSON(http.StatusOK, sc)
}

func (api *enrollmentApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *enrollmentApi) queryTerms(ctx echo.Context) error {
	filter := new(enrollment.TermFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []enrollment.SchoolTerm{})
	}
	filter.Clean()

	terms, err := api.svc.QueryTerms(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying school terms")
	}
	return ctx.JSON(http.StatusOK, terms)
}

func (api *enrollmentApi) createTerm(ctx echo.Context) error {
	var data enrollment.NewSchoolTerm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchoolTerm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	term, err := api.svc.CreateTerm(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school term")
	}
	return ctx.JSON(http.StatusCreated, term)
}

func (api *enrollmentApi) retrieveTerm(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	term, err := api.svc.GetTerm(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding school term")
	}
	return ctx.JSON(http.StatusOK, term)
}
