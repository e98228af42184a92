package record

// DefaultParentKey is the parent identifier field used when Join.ParentKey is empty.
const DefaultParentKey = "id"

// Join describes how child records are grouped under their parents and tallied.
type Join struct {
	ForeignKey   string // child field referencing the parent
	ParentKey    string // parent identifier field; DefaultParentKey if empty
	OutcomeField string // child field whose value selects the counter
	Categories   []string

	// ParentFilters restrict the groups: children whose parent does not match are skipped.
	ParentFilters []FilterSpec
}

// Entry is the aggregate of one group: the parent record and a counter per category.
type Entry struct {
	Key    string         `json:"key"`
	Parent Record         `json:"parent"`
	Counts map[string]int `json:"counts"`
}

// Count returns the counter of category.
func (e Entry) Count(category string) int {
	return e.Counts[category]
}

// Total returns the sum of all counters.
func (e Entry) Total() int {
	var total int
	for _, n := range e.Counts {
		total += n
	}
	return total
}

// Aggregate groups children under their parent (matched on join.ForeignKey == parent join.ParentKey)
// and counts, per group, the children whose join.OutcomeField is one of join.Categories.
//
// Children without a parent are skipped. Outcomes outside the categories are not counted,
// but still create the group entry. Entries are returned in the order their group is first
// encountered in children. Parent keys are assumed unique: the first parent with a key wins.
func Aggregate(children, parents []Record, join Join) []Entry {
	parentKey := join.ParentKey
	if parentKey == "" {
		parentKey = DefaultParentKey
	}

	categories := make([]string, 0, len(join.Categories))
	known := make(map[string]bool, len(join.Categories))
	for _, c := range join.Categories {
		if !known[c] {
			known[c] = true
			categories = append(categories, c)
		}
	}

	index := make(map[string]Record, len(parents))
	for _, p := range parents {
		key, ok := p.Text(parentKey)
		if !ok {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = p
		}
	}

	entries := make([]Entry, 0)
	positions := make(map[string]int)
	excluded := make(map[string]bool)

	for _, child := range children {
		key, ok := child.Text(join.ForeignKey)
		if !ok {
			continue
		}
		if excluded[key] {
			continue
		}

		pos, seen := positions[key]
		if !seen {
			parent, ok := index[key]
			if !ok || !Matches(parent, join.ParentFilters...) {
				excluded[key] = true
				continue
			}
			counts := make(map[string]int, len(categories))
			for _, c := range categories {
				counts[c] = 0
			}
			entries = append(entries, Entry{Key: key, Parent: parent.Clone(), Counts: counts})
			pos = len(entries) - 1
			positions[key] = pos
		}

		if outcome, ok := child.Text(join.OutcomeField); ok && known[outcome] {
			entries[pos].Counts[outcome]++
		}
	}
	return entries
}
