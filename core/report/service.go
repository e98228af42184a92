package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/mail"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/record"
)

var (
	// errors
	ErrNoRecipients = errors.New("no recipients")
)

const summaryEmailText = `Hello,

Please find attached the course summary generated on {{.Data.Date}}.
{{if .Data.Filters}}
Filters: {{.Data.Filters}}
{{end}}
{{.FrontendBaseURL}}
`

type (
	// CourseRepository is the part of course.Repository the reports depend on.
	CourseRepository interface {
		QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]course.Course, error)
	}

	// EnrollmentRepository is the part of enrollment.Repository the reports depend on.
	EnrollmentRepository interface {
		QueryStudentCourses(ctx context.Context, ordering []core.DBOrdering) ([]enrollment.StudentCourse, error)
	}

	Service struct {
		courses     CourseRepository
		enrollments EnrollmentRepository
		mailSvc     core.EmailService
		conf        *core.Config
	}
)

func NewService(
	courses CourseRepository,
	enrollments EnrollmentRepository,
	mailSvc core.EmailService,
	conf *core.Config,
) *Service {
	return &Service{courses: courses, enrollments: enrollments, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) categories(filter SummaryFilter) []string {
	if len(filter.Categories) > 0 {
		return filter.Categories
	}
	return svc.conf.Report.Categories
}

// Summary counts, per course, the enrollments of each outcome category.
// Courses come in the order of their first enrollment; courses without enrollments are left out.
func (svc *Service) Summary(ctx context.Context, filter SummaryFilter) (Summary, error) {
	filter.Clean()

	var (
		courses []course.Course
		scs     []enrollment.StudentCourse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		courses, err = svc.courses.QueryCourses(gctx, []core.DBOrdering{{Field: "id", Ascending: true}})
		return errors.Wrap(err, "querying courses")
	})
	g.Go(func() (err error) {
		scs, err = svc.enrollments.QueryStudentCourses(gctx, []core.DBOrdering{{Field: "id", Ascending: true}})
		return errors.Wrap(err, "querying student courses")
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	parents, err := record.FromSlice(courses)
	if err != nil {
		return Summary{}, errors.Wrap(err, "converting courses")
	}
	children, err := record.FromSlice(scs)
	if err != nil {
		return Summary{}, errors.Wrap(err, "converting student courses")
	}

	cats := svc.categories(filter)
	entries := record.Aggregate(record.Filter(children, filter.childSpecs()...), parents, record.Join{
		ForeignKey:    "courseId",
		OutcomeField:  "remark",
		Categories:    cats,
		ParentFilters: filter.parentSpecs(),
	})

	byKey := make(map[string]course.Course, len(courses))
	for _, crs := range courses {
		key := strconv.Itoa(crs.ID)
		if _, ok := byKey[key]; !ok {
			byKey[key] = crs
		}
	}
	rows := make([]SummaryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, SummaryRow{Course: byKey[e.Key], Counts: e.Counts, Total: e.Total()})
	}
	return Summary{Categories: cats, Rows: rows}, nil
}

// WriteCSV writes the summary as CSV: course columns, then one column per category, then the total.
func WriteCSV(w io.Writer, sum Summary) error {
	cw := csv.NewWriter(w)

	header := append([]string{"subject", "description", "year", "sem"}, sum.Categories...)
	if err := cw.Write(append(header, "total")); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range sum.Rows {
		rec := []string{row.Subject, row.Description, row.Year, strconv.Itoa(row.Sem)}
		for _, cat := range sum.Categories {
			rec = append(rec, strconv.Itoa(row.Counts[cat]))
		}
		if err := cw.Write(append(rec, strconv.Itoa(row.Total))); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// EmailSummary sends the summary, as a CSV attachment, to the recipients.
func (svc *Service) EmailSummary(ctx context.Context, filter SummaryFilter, to ...mail.Address) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	sum, err := svc.Summary(ctx, filter)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sum); err != nil {
		return err
	}

	now := time.Now().UTC()
	msg := &core.EmailMessage{
		To:           to,
		Subject:      svc.conf.AppName + " course summary",
		TextTemplate: summaryEmailText,
		TemplateData: map[string]interface{}{
			"Date":    now.Format("2006-01-02 15:04 MST"),
			"Filters": describe(filter),
		},
	}
	if err := msg.Render(svc.conf.FrontendBaseURL); err != nil {
		return errors.Wrap(err, "rendering summary email")
	}
	if err := msg.Attach(&buf, "summary-"+now.Format("20060102")+".csv", "text/csv"); err != nil {
		return err
	}
	svc.mailSvc.SendMessages(msg)
	return nil
}

func describe(filter SummaryFilter) string {
	var s string
	add := func(name, val string) {
		if val == "" {
			return
		}
		if s != "" {
			s += ", "
		}
		s += name + "=" + val
	}
	add("schoolTermId", filter.SchoolTermID)
	add("year", filter.Year)
	add("sem", filter.Sem)
	return s
}
