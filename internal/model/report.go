package model

import "time"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TableReport is a snapshot of what the table shows, used by the xlsx and
// pdf exports.
type TableReport struct {
	GeneratedAt time.Time
	Page        int
	Size        int
	Search      string
	Order       SortOrder
	Sorted      bool
	Columns     []string
	Rows        [][]string
	Records     []CheckedContract
}

func (r TableReport) InconsistentCount() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.Consistent() {
			n++
		}
	}
	return n
}
