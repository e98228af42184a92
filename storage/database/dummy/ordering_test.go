package dummydb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core"
)

type row struct {
	ID      int     `json:"id"`
	Subject string  `json:"subject"`
	Units   float64 `json:"units"`
	Remark  *string `json:"remark"`
}

func TestSortIndex(t *testing.T) {
	passed := "PASSED"
	rows := []row{
		{ID: 3, Subject: "cs10", Units: 3, Remark: &passed},
		{ID: 1, Subject: "cs9", Units: 1.5},
		{ID: 2, Subject: "cs10", Units: 10, Remark: &passed},
	}

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     []int
	}{
		{name: "id by default", want: []int{1, 2, 0}},
		{name: "strings", ordering: []core.DBOrdering{{Field: "subject", Ascending: true}}, want: []int{2, 0, 1}},
		{name: "numbers", ordering: []core.DBOrdering{{Field: "units", Ascending: false}}, want: []int{2, 0, 1}},
		{name: "missing first", ordering: []core.DBOrdering{{Field: "remark", Ascending: true}}, want: []int{1, 2, 0}},
		{name: "unknown field", ordering: []core.DBOrdering{{Field: "nope", Ascending: true}}, want: []int{1, 2, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			idx, err := sortIndex(rows, tc.ordering)
			require.NoError(t, err)
			assert.Equal(t, tc.want, idx)
		})
	}

	_, err := sortIndex(42, nil)
	assert.Error(t, err)
}
