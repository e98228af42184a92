// Package record filters and aggregates loosely typed records.
//
// Every list view of the service goes through this package: a list of entities is
// turned into records, filtered with FilterSpecs and, for summaries, grouped by
// parent with per-outcome counters. Functions here do no I/O and keep no state.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/oliveagle/jsonpath"
	"github.com/pkg/errors"
)

// Record maps field names to values: strings, numbers, booleans or nested records.
type Record map[string]interface{}

// Lookup returns the value found at path and whether it is present.
// path is either a field name or a dotted path into nested records ("course.sem").
// A missing key, a nil value or a path going through a non-record are all reported as absent.
func (r Record) Lookup(path string) (val interface{}, present bool) {
	if r == nil || path == "" {
		return nil, false
	}
	if !strings.Contains(path, ".") {
		val, present = r[path]
		return val, present && val != nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			val, present = nil, false
		}
	}()
	val, err := jsonpath.JsonPathLookup(map[string]interface{}(r), "$."+path)
	if err != nil || val == nil {
		return nil, false
	}
	return val, true
}

// Text returns the canonical string form of the value at path.
func (r Record) Text(path string) (string, bool) {
	val, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	return Canonical(val)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneValue(r).(Record)
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Record:
		c := make(Record, len(val))
		for k, fv := range val {
			c[k] = cloneValue(fv)
		}
		return c
	case map[string]interface{}:
		c := make(map[string]interface{}, len(val))
		for k, fv := range val {
			c[k] = cloneValue(fv)
		}
		return c
	case []interface{}:
		c := make([]interface{}, len(val))
		for i, iv := range val {
			c[i] = cloneValue(iv)
		}
		return c
	default:
		return v
	}
}

// Canonical returns the string form values are compared with.
// Numbers are formatted without trailing zeros (1, 1.0 and "1" all compare equal);
// nil, maps and slices have no canonical form.
func Canonical(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return val.String(), true
	case fmt.Stringer:
		return val.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Ptr:
		if rv.IsNil() {
			return "", false
		}
		return Canonical(rv.Elem().Interface())
	}
	return "", false
}

// FromValue converts a JSON serialisable value (usually a struct) into a Record.
func FromValue(v interface{}) (Record, error) {
	switch val := v.(type) {
	case Record:
		return val, nil
	case map[string]interface{}:
		return val, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling value")
	}
	var rec Record
	if err := decode(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return rec, nil
}

// FromSlice converts a slice of JSON serialisable values into Records, keeping their order.
func FromSlice(v interface{}) ([]Record, error) {
	if recs, ok := v.([]Record); ok {
		return recs, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Errorf("expected a slice, got %T", v)
	}
	if rv.Len() == 0 {
		return []Record{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling values")
	}
	recs := make([]Record, 0, rv.Len())
	if err := decode(data, &recs); err != nil {
		return nil, errors.Wrap(err, "decoding records")
	}
	return recs, nil
}

func decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
