// Package pagination derives page windows from a total and a page size.
package pagination

import "fmt"

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 10

// Window is the display view of one page. Start and End are 1-based and
// inclusive; both are 0 for an empty result set.
type Window struct {
	Page      int
	PageCount int
	Start     int
	End       int
	HasNext   bool
	HasPrev   bool
}

// Slice computes the window for currentPage, clamping it into range.
func Slice(total, currentPage, pageSize int) Window {
	if total < 0 {
		total = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageCount := PageCount(total, pageSize)
	page := clamp(currentPage, pageCount)
	w := Window{Page: page, PageCount: pageCount}
	if total == 0 {
		return w
	}
	w.Start = (page-1)*pageSize + 1
	w.End = minInt(page*pageSize, total)
	w.HasPrev = page > 1
	w.HasNext = page < pageCount
	return w
}

// PageCount returns ceil(total/pageSize).
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Cursor is the pagination state owned by a table controller.
type Cursor struct {
	page     int
	pageSize int
	total    int
}

// NewCursor returns a cursor on page 1.
func NewCursor(pageSize int) Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Cursor{page: 1, pageSize: pageSize}
}

// Page returns the current, clamped page.
func (c Cursor) Page() int {
	if c.page < 1 {
		return 1
	}
	return c.page
}

// PageSize returns the page size.
func (c Cursor) PageSize() int {
	if c.pageSize <= 0 {
		return DefaultPageSize
	}
	return c.pageSize
}

// Total returns the number of rows paged over.
func (c Cursor) Total() int {
	return c.total
}

// SetTotal updates the row count and clamps the page.
func (c Cursor) SetTotal(total int) Cursor {
	if total < 0 {
		total = 0
	}
	c.total = total
	c.page = clamp(c.page, PageCount(total, c.PageSize()))
	return c
}

// SetPageSize changes the page size and always returns to page 1.
func (c Cursor) SetPageSize(pageSize int) Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c.pageSize = pageSize
	c.page = 1
	return c
}

// SetPage moves to page, clamped into range.
func (c Cursor) SetPage(page int) Cursor {
	c.page = clamp(page, PageCount(c.total, c.PageSize()))
	return c
}

// Next moves one page forward if possible.
func (c Cursor) Next() Cursor {
	return c.SetPage(c.Page() + 1)
}

// Prev moves one page back if possible.
func (c Cursor) Prev() Cursor {
	return c.SetPage(c.Page() - 1)
}

// Window returns the display window for the cursor.
func (c Cursor) Window() Window {
	return Slice(c.total, c.Page(), c.PageSize())
}

// Bounds returns 0-based half-open slice bounds for the current page.
func (c Cursor) Bounds() (lo, hi int) {
	w := c.Window()
	if w.Start == 0 {
		return 0, 0
	}
	return w.Start - 1, w.End
}

// RangeText renders the window as "11-20 of 57".
func (c Cursor) RangeText() string {
	return RangeText(c.Window(), c.total)
}

// RangeText renders w for a result set of total rows.
func RangeText(w Window, total int) string {
	if total <= 0 || w.Start == 0 {
		return "0 of 0"
	}
	return fmt.Sprintf("%d-%d of %d", w.Start, w.End, total)
}

// Page returns the items of the cursor's current page.
func Page[T any](items []T, c Cursor) []T {
	c = c.SetTotal(len(items))
	lo, hi := c.Bounds()
	return items[lo:hi]
}

func clamp(page, pageCount int) int {
	if pageCount < 1 || page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
