package grid

import (
	"fmt"
	"slices"
)

// DefaultPageSize is used when pagination is enabled without a page size.
const DefaultPageSize = 10

// DefaultPageSizes are the page sizes offered by the size changer.
var DefaultPageSizes = []int{10, 25, 50, 100}

// Paginate returns the 1-based page of rows: rows[(page-1)*size : page*size],
// clipped to the collection. Pages outside the collection are empty.
func Paginate[R any](rows []R, page, pageSize int) []R {
	if page < 1 || pageSize < 1 {
		return rows[:0:0]
	}
	if page-1 > len(rows)/pageSize {
		return rows[:0:0]
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return rows[:0:0]
	}
	end := min(start+pageSize, len(rows))
	return slices.Clip(rows[start:end])
}

// TotalPages returns ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// clampPage keeps page inside [1, max(1, totalPages)].
func clampPage(page, total, pageSize int) int {
	last := max(1, TotalPages(total, pageSize))
	return min(max(page, 1), last)
}

// PageInfo describes the visible window of a paginated grid.
type PageInfo struct {
	Current    int `json:"current"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	// Start and End are the 1-based, inclusive item numbers on the page.
	// Both are 0 when the page is empty.
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewPageInfo computes the window for page of size pageSize over total items.
func NewPageInfo(page, pageSize, total int) PageInfo {
	info := PageInfo{
		Current:    page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}
	start := (page-1)*pageSize + 1
	if page >= 1 && pageSize >= 1 && start <= total {
		info.Start = start
		info.End = min(page*pageSize, total)
	}
	return info
}

func (p PageInfo) HasPrev() bool {
	return p.Current > 1
}

func (p PageInfo) HasNext() bool {
	return p.Current < p.TotalPages
}

// Summary renders the "Showing a-b of n items" line. showTotal, when not
// nil, replaces the default wording.
func (p PageInfo) Summary(showTotal func(total, from, to int) string) string {
	if showTotal != nil {
		if s := showTotal(p.Total, p.Start, p.End); s != "" {
			return s
		}
	}
	return fmt.Sprintf("Showing %d-%d of %d items", p.Start, p.End, p.Total)
}
