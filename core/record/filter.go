package record

import "strings"

// Mode is the comparison a Criterion applies.
type Mode int

const (
	// ModeAny matches every value, including missing ones.
	ModeAny Mode = iota
	// ModeEquals matches values whose canonical form equals the criterion value.
	ModeEquals
	// ModeContains matches values containing the criterion value, ignoring case.
	ModeContains
)

func (m Mode) String() string {
	switch m {
	case ModeEquals:
		return "equals"
	case ModeContains:
		return "contains"
	default:
		return "any"
	}
}

// Criterion is one of Any(), Equals(v) or Contains(s).
// The zero value is Any().
type Criterion struct {
	mode  Mode
	value string
	valid bool // false if an Equals value has no canonical form: nothing matches
}

// Any matches everything.
func Any() Criterion {
	return Criterion{mode: ModeAny, valid: true}
}

// Equals matches values whose canonical form is the canonical form of value.
func Equals(value interface{}) Criterion {
	s, ok := Canonical(value)
	return Criterion{mode: ModeEquals, value: s, valid: ok}
}

// Contains matches values containing value, ignoring case.
// An empty value matches everything and is the same as Any().
func Contains(value string) Criterion {
	if value == "" {
		return Any()
	}
	return Criterion{mode: ModeContains, value: strings.ToLower(value), valid: true}
}

// EqualsOrAny is Equals(value), or Any() if value is empty.
// Used for optional query parameters where "not provided" means "not filtered".
func EqualsOrAny(value string) Criterion {
	if value == "" {
		return Any()
	}
	return Equals(value)
}

func (c Criterion) Mode() Mode    { return c.mode }
func (c Criterion) Value() string { return c.value }
func (c Criterion) IsAny() bool   { return c.mode == ModeAny }

// match reports whether val satisfies the criterion; present is false for missing fields.
func (c Criterion) match(val interface{}, present bool) bool {
	switch c.mode {
	case ModeAny:
		return true
	case ModeEquals:
		if !present || !c.valid {
			return false
		}
		s, ok := Canonical(val)
		return ok && s == c.value
	case ModeContains:
		if !present {
			return false
		}
		s, ok := Canonical(val)
		return ok && strings.Contains(strings.ToLower(s), c.value)
	}
	return false
}

// FilterSpec applies a Criterion to one or more fields of a record.
// With several fields, the record matches if any of them does.
type FilterSpec struct {
	Fields    []string
	Criterion Criterion
}

// Field returns a FilterSpec on a single field (or dotted path).
func Field(name string, c Criterion) FilterSpec {
	return FilterSpec{Fields: []string{name}, Criterion: c}
}

// AnyField returns a FilterSpec matching records where any of the named fields satisfies c.
func AnyField(c Criterion, names ...string) FilterSpec {
	return FilterSpec{Fields: names, Criterion: c}
}

// Matches reports whether r satisfies the spec.
func (s FilterSpec) Matches(r Record) bool {
	if s.Criterion.IsAny() {
		return true
	}
	for _, f := range s.Fields {
		val, ok := r.Lookup(f)
		if s.Criterion.match(val, ok) {
			return true
		}
	}
	return false
}

// Matches reports whether r satisfies all specs.
func Matches(r Record, specs ...FilterSpec) bool {
	for _, s := range specs {
		if !s.Matches(r) {
			return false
		}
	}
	return true
}

// Filter returns the records matching all specs, in their original order.
// Without specs, it returns all records.
func Filter(records []Record, specs ...FilterSpec) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Matches(r, specs...) {
			out = append(out, r)
		}
	}
	return out
}

// FilterIndex returns the indices of the records matching all specs, in ascending order.
// Callers holding typed slices aligned with records use it to filter them.
func FilterIndex(records []Record, specs ...FilterSpec) []int {
	idx := make([]int, 0, len(records))
	for i, r := range records {
		if Matches(r, specs...) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Active drops the specs matching everything.
func Active(specs ...FilterSpec) []FilterSpec {
	out := make([]FilterSpec, 0, len(specs))
	for _, s := range specs {
		if !s.Criterion.IsAny() {
			out = append(out, s)
		}
	}
	return out
}

// Keep returns the indices of the elements of items (a slice of JSON serialisable values)
// matching all specs. It is FilterIndex for typed slices.
func Keep(items interface{}, specs ...FilterSpec) ([]int, error) {
	recs, err := FromSlice(items)
	if err != nil {
		return nil, err
	}
	return FilterIndex(recs, Active(specs...)...), nil
}
