package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/core/user"
)

type studentApi struct {
	svc         *student.Service
	enrollments *enrollment.Service
	users       *user.Service
	validate    *validator.Validate
	translator  ut.Translator
	upload      *csvUpload
}

func registerStudentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *student.Service,
	enrollments *enrollment.Service,
	users *user.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := studentApi{
		svc:         svc,
		enrollments: enrollments,
		users:       users,
		validate:    validate,
		translator:  translator,
		upload:      mustCSVUpload("student", []string{"programId"}, nil),
	}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query, staffMiddleware())
	sg.POST("", api.create, adminMiddleware())
	sg.POST("/upload", api.bulkCreate, adminMiddleware())
	sg.GET("/:id", api.retrieve)
	sg.PATCH("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
	sg.GET("/:id/courses", api.courses)

	// "/acadforms" is the path of the web client
	for _, path := range []string{"/advising-forms", "/acadforms"} {
		fg := g.Group(path, jwt, staffMiddleware())
		fg.GET("", api.queryAdvisingForms)
		fg.POST("", api.submitAdvisingForm)
	}
}

// studentDetail is a student with its enrollments, as read by the web client.
type studentDetail struct {
	student.Student
	StudentCourse []enrollment.Detail `json:"studentCourse"`
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stu, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) bulkCreate(ctx echo.Context) error {
	var data []student.NewStudent
	if err := api.upload.bind(ctx, &data); err != nil {
		return err
	}

	students, err := api.svc.BulkCreate(ctx.Request().Context(), api.validate, api.translator, data)
	if err != nil {
		return errors.Wrap(err, "creating students")
	}
	return uploaded(ctx, students, len(students))
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	stu, err := api.accessibleStudent(ctx)
	if err != nil {
		return err
	}
	dets, err := api.enrollments.StudentCourses(ctx.Request().Context(), stu.ID)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	if dets == nil {
		dets = []enrollment.Detail{}
	}
	return ctx.JSON(http.StatusOK, studentDetail{Student: stu, StudentCourse: dets})
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	stu, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stu, err = api.svc.Update(ctx.Request().Context(), stu, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// accessibleStudent finds the student of the id param, if visible to the staff or to the student (by username).
func (api *studentApi) accessibleStudent(ctx echo.Context) (student.Student, error) {
	id, err := paramID(ctx)
	if err != nil {
		return student.Student{}, err
	}
	stu, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding student")
	}

	if !contextHasAnyRole(ctx, []string{user.RoleAdmin, user.RoleCoach}) {
		usr, err := getContextUser(ctx, api.users)
		if err != nil {
			return student.Student{}, err
		}
		if stu.Username == "" || usr.Username != stu.Username {
			return student.Student{}, errHttpForbidden
		}
	}
	return stu, nil
}

// courses lists the enrollments of a student.
func (api *studentApi) courses(ctx echo.Context) error {
	stu, err := api.accessibleStudent(ctx)
	if err != nil {
		return err
	}

	dets, err := api.enrollments.StudentCourses(ctx.Request().Context(), stu.ID)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	return ctx.JSON(http.StatusOK, dets)
}

func (api *studentApi) queryAdvisingForms(ctx echo.Context) error {
	forms, err := api.svc.QueryAdvisingForms(ctx.Request().Context(), ctx.QueryParam("studentId"))
	if err != nil {
		return errors.Wrap(err, "querying advising forms")
	}
	return ctx.JSON(http.StatusOK, forms)
}

func (api *studentApi) submitAdvisingForm(ctx echo.Context) error {
	var data student.NewAdvisingForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdvisingForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	form, err := api.svc.SubmitAdvisingForm(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting advising form")
	}
	return ctx.JSON(http.StatusCreated, form)
}
