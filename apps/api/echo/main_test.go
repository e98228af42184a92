package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/program"
	"github.com/trezcool/rekodi/core/report"
	"github.com/trezcool/rekodi/core/student"
	"github.com/trezcool/rekodi/core/user"
	emailsvc "github.com/trezcool/rekodi/services/email"
	logsvc "github.com/trezcool/rekodi/services/logger"
	"github.com/trezcool/rekodi/storage"
	"github.com/trezcool/rekodi/testutil"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type httpErr struct {
	Error string `json:"error"`
}

type fixture struct {
	app   Server
	auth  *jwtAuth
	repos *storage.Repositories

	admin, coach user.User
}

func setup(t *testing.T) *fixture {
	conf := testutil.NewConfig()
	repos := testutil.OpenRepos(t)
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	validate, translator := testutil.NewValidator(conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	f := &fixture{
		auth:  newJWTAuth(conf),
		repos: repos,
		app: NewServer(&Options{
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			SignalShutdown: func() {},
			UserSvc:        user.NewService(repos.User),
			ProgramSvc:     program.NewService(repos.Program),
			CourseSvc:      course.NewService(repos.Course),
			StudentSvc:     student.NewService(repos.Student, repos.Enrollment),
			EnrollmentSvc:  enrollment.NewService(repos.Enrollment, repos.Course),
			ReportSvc:      report.NewService(repos.Course, repos.Enrollment, mailSvc, conf),
		}),
	}
	f.admin = testutil.CreateUser(t, repos.User, "Admin", "admin", "admin@test.cd", "", user.AdminRoles, true)
	f.coach = testutil.CreateUser(t, repos.User, "Coach", "coach", "coach@test.cd", "", user.CoachRoles, true)
	return f
}

func (f *fixture) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := f.auth.token(f.auth.claims(usr))
	require.NoError(t, err)
	return token
}

type httpTest struct {
	name        string
	method      string // GET if empty
	path        string
	body        io.Reader
	contentType string // JSON if empty
	token       string
	wantCode    int // 200 if 0
	wantData    []byte
}

func (f *fixture) serve(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	body := tt.body
	if body == nil {
		body = new(bytes.Buffer)
	}
	req := httptest.NewRequest(method, tt.path, body)
	if tt.contentType != "" {
		req.Header.Set(echo.HeaderContentType, tt.contentType)
	} else {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tt.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code)
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func marshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// uploadBody returns a multipart form body with content as the uploaded file, and its content type.
func uploadBody(t *testing.T, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(uploadField, "upload.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
