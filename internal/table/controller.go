// Package table wires dataset views, pagination and row selection to the
// events of a table screen.
package table

import (
	"github.com/verte-zerg/classboard/internal/dataset"
	"github.com/verte-zerg/classboard/internal/pagination"
	"github.com/verte-zerg/classboard/internal/selection"
)

// Controller owns the state of one table screen. It is not safe for
// concurrent use; a screen mutates it from its event loop only.
type Controller[T any, K comparable] struct {
	columns []dataset.Column[T]
	keyFn   func(T) K
	opts    dataset.Options

	records  []T
	sort     dataset.SortState
	query    string
	cursor   pagination.Cursor
	selected selection.Set[K]

	filtered []T
	dirty    bool
}

// New returns a controller over columns. keyFn extracts the row key.
func New[T any, K comparable](columns []dataset.Column[T], keyFn func(T) K, pageSize int) *Controller[T, K] {
	return &Controller[T, K]{
		columns:  columns,
		keyFn:    keyFn,
		cursor:   pagination.NewCursor(pageSize),
		selected: selection.New[K](),
		dirty:    true,
	}
}

// WithOptions sets view options such as the collation locale.
func (c *Controller[T, K]) WithOptions(opts dataset.Options) *Controller[T, K] {
	c.opts = opts
	c.dirty = true
	return c
}

// Columns returns the column descriptors.
func (c *Controller[T, K]) Columns() []dataset.Column[T] {
	return c.columns
}

// SetRecords replaces the backing records, pruning selections of rows that
// no longer exist.
func (c *Controller[T, K]) SetRecords(records []T) {
	c.records = records
	c.selected = c.selected.Prune(c.keys(records))
	c.dirty = true
}

// Records returns the backing records.
func (c *Controller[T, K]) Records() []T {
	return c.records
}

// Sort returns the sort state.
func (c *Controller[T, K]) Sort() dataset.SortState {
	return c.sort
}

// SetSort applies s as-is.
func (c *Controller[T, K]) SetSort(s dataset.SortState) {
	c.sort = s
	c.dirty = true
}

// SortBy handles a header click: a new column sorts ascending, the same
// column cycles asc, desc, then back to source order. Unsortable columns are
// ignored.
func (c *Controller[T, K]) SortBy(columnKey string) {
	col, ok := dataset.FindColumn(c.columns, columnKey)
	if !ok || !col.Sortable {
		return
	}
	switch {
	case c.sort.ColumnKey != columnKey:
		c.sort = dataset.SortState{ColumnKey: columnKey, Direction: dataset.Asc}
	case c.sort.Direction == dataset.Asc:
		c.sort.Direction = dataset.Desc
	default:
		c.sort = dataset.SortState{}
	}
	c.dirty = true
}

// Query returns the free-text filter.
func (c *Controller[T, K]) Query() string {
	return c.query
}

// SetQuery changes the filter and returns to page 1.
func (c *Controller[T, K]) SetQuery(q string) {
	if q == c.query {
		return
	}
	c.query = q
	c.cursor = c.cursor.SetPage(1)
	c.dirty = true
}

// SetPage moves to page, clamped into range.
func (c *Controller[T, K]) SetPage(page int) {
	c.refresh()
	c.cursor = c.cursor.SetPage(page)
}

// NextPage moves forward one page.
func (c *Controller[T, K]) NextPage() {
	c.refresh()
	c.cursor = c.cursor.Next()
}

// PrevPage moves back one page.
func (c *Controller[T, K]) PrevPage() {
	c.refresh()
	c.cursor = c.cursor.Prev()
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[T, K]) SetPageSize(size int) {
	c.refresh()
	c.cursor = c.cursor.SetPageSize(size).SetTotal(len(c.filtered))
}

// PageSize returns the page size.
func (c *Controller[T, K]) PageSize() int {
	return c.cursor.PageSize()
}

// Filtered returns the filtered, sorted rows across all pages.
func (c *Controller[T, K]) Filtered() []T {
	c.refresh()
	return c.filtered
}

// Rows returns the rows of the current page.
func (c *Controller[T, K]) Rows() []T {
	c.refresh()
	lo, hi := c.cursor.Bounds()
	return c.filtered[lo:hi]
}

// Window returns the current page window.
func (c *Controller[T, K]) Window() pagination.Window {
	c.refresh()
	return c.cursor.Window()
}

// RangeText renders the current window, e.g. "11-20 of 57".
func (c *Controller[T, K]) RangeText() string {
	c.refresh()
	return c.cursor.RangeText()
}

// Toggle flips the selection of key.
func (c *Controller[T, K]) Toggle(key K) {
	c.selected = c.selected.Toggle(key)
}

// SelectAllVisible selects every row on the current page.
func (c *Controller[T, K]) SelectAllVisible() {
	c.selected = c.selected.SelectAllVisible(c.keys(c.Rows()))
}

// SelectAllFiltered selects every row matching the filter, on any page.
func (c *Controller[T, K]) SelectAllFiltered() {
	c.selected = c.selected.SelectAllFiltered(c.keys(c.Filtered()))
}

// ToggleVisible selects the current page, or deselects it when it is
// already fully selected.
func (c *Controller[T, K]) ToggleVisible() {
	keys := c.keys(c.Rows())
	if c.selected.StateOf(keys) == selection.All {
		c.selected = c.selected.DeselectAll(keys)
		return
	}
	c.selected = c.selected.SelectAllVisible(keys)
}

// ClearSelection deselects everything.
func (c *Controller[T, K]) ClearSelection() {
	c.selected = c.selected.Clear()
}

// Selection returns the selected keys.
func (c *Controller[T, K]) Selection() selection.Set[K] {
	return c.selected
}

// IsSelected reports whether record is selected.
func (c *Controller[T, K]) IsSelected(record T) bool {
	return c.selected.Has(c.keyFn(record))
}

// HeaderState summarizes the selection of the current page.
func (c *Controller[T, K]) HeaderState() selection.State {
	return c.selected.StateOf(c.keys(c.Rows()))
}

// SelectedRecords returns selected records: those in the current view in
// view order, followed by selected records hidden by the filter in source
// order.
func (c *Controller[T, K]) SelectedRecords() []T {
	if c.selected.Len() == 0 {
		return nil
	}
	out := make([]T, 0, c.selected.Len())
	inView := make(map[K]struct{}, c.selected.Len())
	for _, r := range c.Filtered() {
		k := c.keyFn(r)
		if c.selected.Has(k) {
			out = append(out, r)
			inView[k] = struct{}{}
		}
	}
	for _, r := range c.records {
		k := c.keyFn(r)
		if _, ok := inView[k]; ok || !c.selected.Has(k) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Key returns the row key of record.
func (c *Controller[T, K]) Key(record T) K {
	return c.keyFn(record)
}

func (c *Controller[T, K]) refresh() {
	if !c.dirty {
		return
	}
	c.filtered = dataset.ViewWith(c.records, c.columns, c.sort, c.query, c.opts)
	c.cursor = c.cursor.SetTotal(len(c.filtered))
	c.dirty = false
}

func (c *Controller[T, K]) keys(records []T) []K {
	out := make([]K, len(records))
	for i, r := range records {
		out[i] = c.keyFn(r)
	}
	return out
}
