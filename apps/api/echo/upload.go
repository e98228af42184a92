package echoapi

import (
	"embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

//go:embed schemas
var schemaFS embed.FS

const uploadField = "file"

var errNoRows = errors.New("the file has no rows")

// csvUpload reads the records of an uploaded CSV file and checks them against a JSON schema.
type csvUpload struct {
	schema     *gojsonschema.Schema
	intFields  map[string]bool
	boolFields map[string]bool
}

// mustCSVUpload loads schemas/<name>.json; it panics if the schema is invalid.
func mustCSVUpload(name string, intFields, boolFields []string) *csvUpload {
	src, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		panic(errors.Wrap(err, "reading schema "+name))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(src))
	if err != nil {
		panic(errors.Wrap(err, "loading schema "+name))
	}

	up := &csvUpload{
		schema:     schema,
		intFields:  make(map[string]bool, len(intFields)),
		boolFields: make(map[string]bool, len(boolFields)),
	}
	for _, f := range intFields {
		up.intFields[f] = true
	}
	for _, f := range boolFields {
		up.boolFields[f] = true
	}
	return up
}

// bind decodes the valid uploaded rows into dst, a pointer to a slice.
// Invalid rows are reported as "<row>.<field>" errors, rows starting at 1.
func (up *csvUpload) bind(ctx echo.Context, dst interface{}) error {
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: uploadField, Error: "this field is required"})
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()

	recs, err := up.read(file)
	if err != nil {
		return err
	}
	if err := up.check(recs); err != nil {
		return err
	}

	raw, err := json.Marshal(recs)
	if err != nil {
		return errors.Wrap(err, "encoding rows")
	}
	return errors.Wrap(json.Unmarshal(raw, dst), "decoding rows")
}

// read returns a record per row, keyed by the header row. Empty cells are left out.
func (up *csvUpload) read(r io.Reader) ([]record.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, core.NewValidationError(errNoRows, core.FieldError{Field: uploadField, Error: errNoRows.Error()})
	}
	if err != nil {
		return nil, invalidCSV(err)
	}
	for i := range header {
		header[i] = core.CleanString(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var recs []record.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidCSV(err)
		}

		rec := make(record.Record, len(header))
		for i, val := range row {
			val = core.CleanString(val)
			if i >= len(header) || header[i] == "" || val == "" {
				continue
			}
			rec[header[i]] = up.convert(header[i], val)
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, core.NewValidationError(errNoRows, core.FieldError{Field: uploadField, Error: errNoRows.Error()})
	}
	return recs, nil
}

// convert types the cells of numeric & boolean columns; invalid ones are left as strings for the schema to report.
func (up *csvUpload) convert(field, val string) interface{} {
	switch {
	case up.intFields[field]:
		if n, err := strconv.Atoi(val); err == nil {
			return json.Number(strconv.Itoa(n))
		}
	case up.boolFields[field]:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return val
}

func (up *csvUpload) check(recs []record.Record) error {
	var fldErrs []core.FieldError
	for i, rec := range recs {
		res, err := up.schema.Validate(gojsonschema.NewGoLoader(rec))
		if err != nil {
			return errors.Wrap(err, "validating row")
		}
		for _, re := range res.Errors() {
			field := re.Field()
			if prop, ok := re.Details()["property"].(string); ok && field == gojsonschema.STRING_CONTEXT_ROOT {
				field = prop
			}
			fldErrs = append(fldErrs, core.FieldError{Field: fmt.Sprintf("%d.%s", i+1, field), Error: re.Description()})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(errors.New("invalid rows"), fldErrs...)
	}
	return nil
}

func invalidCSV(err error) error {
	return core.NewValidationError(err, core.FieldError{Field: uploadField, Error: "invalid CSV: " + err.Error()})
}

func uploaded(ctx echo.Context, items interface{}, count int) error {
	return ctx.JSON(http.StatusCreated, UploadResponse{Batch: uuid.New().String(), Created: count, Items: items})
}
