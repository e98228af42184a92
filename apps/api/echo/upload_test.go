package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core/course"
)

func Test_courseApi_upload(t *testing.T) {
	f := setup(t)
	adminToken := f.token(t, f.admin)

	upload := func(content string) httpTest {
		body, contentType := uploadBody(t, content)
		return httpTest{method: http.MethodPost, path: "/v1/courses/upload", body: body, contentType: contentType, token: adminToken}
	}

	t.Run("admin required", func(t *testing.T) {
		tt := upload("subject,year,sem\nCS101,FIRST,1\n")
		tt.token = f.token(t, f.coach)
		tt.wantCode, tt.wantData = http.StatusForbidden, marshal(t, errForbidden)
		checkCodeAndData(t, tt, f.serve(tt))
	})

	t.Run("no file", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/v1/courses/upload", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"file": "this field is required"}`),
		}
		checkCodeAndData(t, tt, f.serve(tt))
	})

	t.Run("no rows", func(t *testing.T) {
		tt := upload("subject,year,sem\n")
		tt.wantCode, tt.wantData = http.StatusBadRequest, []byte(`{"file": "the file has no rows"}`)
		checkCodeAndData(t, tt, f.serve(tt))
	})

	t.Run("invalid rows", func(t *testing.T) {
		rec := f.serve(upload("subject,description,year,sem,units\n" +
			"CS101,Intro,FIRST,1,3\n" +
			"CS102,,FIFTH,x,3\n" +
			",Nameless,SECOND,2,\n"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		fields := make([]string, 0, len(fldErrs))
		for fld := range fldErrs {
			fields = append(fields, fld)
		}
		sort.Strings(fields)
		assert.Equal(t, []string{"2.sem", "2.year", "3.subject"}, fields)

		courses, err := f.repos.Course.QueryCourses(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("created", func(t *testing.T) {
		rec := f.serve(upload("\ufeffsubject, description ,year,sem,units\n" +
			"CS101,\"Intro, to Programming\",FIRST,1,3\n" +
			"CS102,Data Structures, SECOND ,2,\n"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Batch   string          `json:"batch"`
			Created int             `json:"created"`
			Items   []course.Course `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		_, err := uuid.Parse(resp.Batch)
		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Created)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, course.Course{ID: resp.Items[0].ID, Subject: "CS101", Description: "Intro, to Programming", Units: 3, Year: "FIRST", Sem: 1}, resp.Items[0])
		assert.Equal(t, course.Course{ID: resp.Items[1].ID, Subject: "CS102", Description: "Data Structures", Year: "SECOND", Sem: 2}, resp.Items[1])
	})

	t.Run("padded and signed numbers", func(t *testing.T) {
		rec := f.serve(upload("subject,year,sem,units\n" +
			"CS201,FIRST,01,007\n" +
			"CS202,FIRST,+2,+3\n"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Items []course.Course `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, 1, resp.Items[0].Sem)
		assert.Equal(t, 7, resp.Items[0].Units)
		assert.Equal(t, 2, resp.Items[1].Sem)
		assert.Equal(t, 3, resp.Items[1].Units)
	})
}
