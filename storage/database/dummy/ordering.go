package dummydb

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/record"
)

// sortIndex returns the order of the items (a slice of JSON serialisable values) by ordering,
// then by "id". Numbers are compared as numbers, everything else as strings.
func sortIndex(items interface{}, ordering []core.DBOrdering) ([]int, error) {
	recs, err := record.FromSlice(items)
	if err != nil {
		return nil, errors.Wrap(err, "ordering")
	}
	ordering = append(append([]core.DBOrdering(nil), ordering...), core.DBOrdering{Field: "id", Ascending: true})

	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := recs[idx[i]], recs[idx[j]]
		for _, ord := range ordering {
			c := compare(a, b, ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return idx, nil
}

// compare compares the fields of a & b; missing values come first.
func compare(a, b record.Record, field string) int {
	sa, okA := a.Text(field)
	sb, okB := b.Text(field)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}

	fa, errA := strconv.ParseFloat(sa, 64)
	fb, errB := strconv.ParseFloat(sb, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}
