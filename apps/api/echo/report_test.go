package echoapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/report"
	"github.com/trezcool/rekodi/core/user"
	"github.com/trezcool/rekodi/testutil"
)

func Test_reportApi_summary(t *testing.T) {
	f := setup(t)
	cs101 := testutil.CreateCourse(t, f.repos.Course, "CS101", "Intro to Programming", core.YearFirst, 1)
	cs201 := testutil.CreateCourse(t, f.repos.Course, "CS201", "Algorithms", core.YearSecond, 1)
	term1 := testutil.CreateTerm(t, f.repos.Enrollment, "2021-2022 1st sem")
	term2 := testutil.CreateTerm(t, f.repos.Enrollment, "2021-2022 2nd sem")
	testutil.Enroll(t, f.repos.Enrollment, 1, cs101.ID, term1.ID, enrollment.RemarkPassed)
	testutil.Enroll(t, f.repos.Enrollment, 2, cs101.ID, term1.ID, enrollment.RemarkFailed)
	testutil.Enroll(t, f.repos.Enrollment, 3, cs201.ID, term2.ID, enrollment.RemarkInProgress)
	testutil.Enroll(t, f.repos.Enrollment, 4, cs201.ID, term2.ID, enrollment.RemarkOnHold)

	stu := testutil.CreateUser(t, f.repos.User, "Student", "student", "student@test.cd", "", user.StudentRoles, true)
	coachToken := f.token(t, f.coach)

	path := func(params ...string) string {
		v := make(url.Values)
		for i := 0; i+1 < len(params); i += 2 {
			v.Add(params[i], params[i+1])
		}
		return "/v1/reports/summary?" + v.Encode()
	}
	defaultCats := []string{enrollment.RemarkPassed, enrollment.RemarkFailed, enrollment.RemarkInProgress}

	tests := []httpTest{
		{name: "auth required", path: "/v1/reports/summary", wantCode: http.StatusUnauthorized, wantData: marshal(t, errMissingToken)},
		{
			name: "staff required", path: "/v1/reports/summary", token: f.token(t, stu),
			wantCode: http.StatusForbidden, wantData: marshal(t, errForbidden),
		},
		{
			name: "all", path: "/v1/reports/summary", token: coachToken,
			wantData: marshal(t, report.Summary{
				Categories: defaultCats,
				Rows: []report.SummaryRow{
					{Course: cs101, Counts: map[string]int{"PASSED": 1, "FAILED": 1, "IP": 0}, Total: 2},
					{Course: cs201, Counts: map[string]int{"PASSED": 0, "FAILED": 0, "IP": 1}, Total: 1},
				},
			}),
		},
		{
			name: "school term", path: path("schoolTermId", strconv.Itoa(term2.ID)), token: coachToken,
			wantData: marshal(t, report.Summary{
				Categories: defaultCats,
				Rows: []report.SummaryRow{
					{Course: cs201, Counts: map[string]int{"PASSED": 0, "FAILED": 0, "IP": 1}, Total: 1},
				},
			}),
		},
		{
			name: "categories", path: path("category", "hold", "category", "ip,hold"), token: coachToken,
			wantData: marshal(t, report.Summary{
				Categories: []string{"HOLD", "IP"},
				Rows: []report.SummaryRow{
					{Course: cs101, Counts: map[string]int{"HOLD": 0, "IP": 0}, Total: 0},
					{Course: cs201, Counts: map[string]int{"HOLD": 1, "IP": 1}, Total: 2},
				},
			}),
		},
		{
			name: "ALL options", path: path("year", "ALL", "sem", "All", "schoolTermId", "all"), token: coachToken,
			wantData: marshal(t, report.Summary{
				Categories: defaultCats,
				Rows: []report.SummaryRow{
					{Course: cs101, Counts: map[string]int{"PASSED": 1, "FAILED": 1, "IP": 0}, Total: 2},
					{Course: cs201, Counts: map[string]int{"PASSED": 0, "FAILED": 0, "IP": 1}, Total: 1},
				},
			}),
		},
		{
			name: "no match", path: path("year", core.YearFourth), token: coachToken,
			wantData: marshal(t, report.Summary{Categories: defaultCats, Rows: []report.SummaryRow{}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, f.serve(tt))
		})
	}

	t.Run("csv", func(t *testing.T) {
		rec := f.serve(httpTest{path: "/v1/reports/summary.csv?year=" + core.YearFirst, token: coachToken})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="summary-`))
		assert.Equal(t,
			"subject,description,year,sem,PASSED,FAILED,IP,total\n"+
				"CS101,Intro to Programming,FIRST,1,1,1,0,2\n",
			rec.Body.String(),
		)
	})
}
