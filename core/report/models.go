package report

import (
	"strings"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/course"
	"github.com/trezcool/rekodi/core/record"
)

// SummaryFilter selects the enrollments (by school term) and the courses (by year & sem) of a summary.
// Categories overrides the configured outcome categories.
type SummaryFilter struct {
	SchoolTermID string   `query:"schoolTermId"`
	Year         string   `query:"year"`
	Sem          string   `query:"sem"`
	Categories   []string `query:"category"`
}

func (sf *SummaryFilter) Clean() {
	sf.SchoolTermID = core.CleanChoice(sf.SchoolTermID)
	sf.Year = core.CleanChoice(sf.Year)
	sf.Sem = core.CleanChoice(sf.Sem)

	seen := make(map[string]bool, len(sf.Categories))
	cats := make([]string, 0, len(sf.Categories))
	for _, cat := range sf.Categories {
		// "category=PASSED,FAILED" is the same as "category=PASSED&category=FAILED"
		for _, c := range strings.Split(cat, ",") {
			c = strings.ToUpper(core.CleanString(c))
			if c != "" && !seen[c] {
				seen[c] = true
				cats = append(cats, c)
			}
		}
	}
	sf.Categories = cats
}

func (sf SummaryFilter) childSpecs() []record.FilterSpec {
	return record.Active(record.Field("schoolTermId", record.EqualsOrAny(sf.SchoolTermID)))
}

func (sf SummaryFilter) parentSpecs() []record.FilterSpec {
	return record.Active(
		record.Field("year", record.EqualsOrAny(sf.Year)),
		record.Field("sem", record.EqualsOrAny(sf.Sem)),
	)
}

// SummaryRow is a course with its enrollment count per category.
type SummaryRow struct {
	course.Course
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

type Summary struct {
	Categories []string     `json:"categories"`
	Rows       []SummaryRow `json:"rows"`
}
