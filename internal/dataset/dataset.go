// Package dataset derives filtered and sorted views over record slices.
package dataset

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/verte-zerg/classboard/internal/order"
)

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseDirection maps "desc" to Desc and anything else to Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Desc
	}
	return Asc
}

// Column describes how a record type is read, searched and sorted.
type Column[T any] struct {
	Key   string
	Title string
	// Accessor returns a string, number, bool or time.Time. It must be pure.
	Accessor   func(T) any
	Render     func(T) string
	Sortable   bool
	Searchable bool
}

// SortState selects the sort column. An empty ColumnKey keeps source order.
type SortState struct {
	ColumnKey string
	Direction Direction
}

// Natural reports whether no sort is applied.
func (s SortState) Natural() bool {
	return s.ColumnKey == ""
}

// Options tunes View. The zero value collates strings with the root locale.
type Options struct {
	Locale language.Tag
}

// View filters records by query and sorts them by sort. records is never
// modified.
func View[T any](records []T, columns []Column[T], sort SortState, query string) []T {
	return ViewWith(records, columns, sort, query, Options{})
}

// ViewWith is View with explicit options.
func ViewWith[T any](records []T, columns []Column[T], sortState SortState, query string, opts Options) []T {
	out := Filter(records, columns, query)
	col, ok := FindColumn(columns, sortState.ColumnKey)
	if sortState.Natural() || !ok || !col.Sortable {
		return out
	}
	sortStable(out, col, sortState.Direction, order.NewComparer(opts.Locale))
	return out
}

// Filter keeps the records matching query on at least one searchable column.
func Filter[T any](records []T, columns []Column[T], query string) []T {
	q := strings.ToLower(query)
	if q == "" {
		return append([]T(nil), records...)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matches(r, columns, q) {
			out = append(out, r)
		}
	}
	return out
}

// FindColumn returns the column with the given key.
func FindColumn[T any](columns []Column[T], key string) (Column[T], bool) {
	if key == "" {
		return Column[T]{}, false
	}
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Text renders a cell for display, preferring the column's Render callback.
func Text[T any](col Column[T], record T) string {
	if col.Render != nil {
		if s, ok := safeRender(col.Render, record); ok {
			return s
		}
		return ""
	}
	v, ok := value(col, record)
	if !ok {
		return ""
	}
	return v.String()
}

func matches[T any](record T, columns []Column[T], q string) bool {
	for _, c := range columns {
		if !c.Searchable {
			continue
		}
		v, ok := value(c, record)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(v.String()), q) {
			return true
		}
	}
	return false
}

type keyed[T any] struct {
	record T
	key    order.Value
	ok     bool
}

func sortStable[T any](records []T, col Column[T], dir Direction, cmp *order.Comparer) {
	items := make([]keyed[T], len(records))
	for i, r := range records {
		v, ok := value(col, r)
		items[i] = keyed[T]{record: r, key: v, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ok || !b.ok {
			// Unreadable keys sink to the end in both directions.
			return a.ok && !b.ok
		}
		c := cmp.Compare(a.key, b.key)
		if dir == Desc {
			c = -c
		}
		return c < 0
	})
	for i := range items {
		records[i] = items[i].record
	}
}

// value reads a column, treating a panicking accessor as missing.
func value[T any](col Column[T], record T) (v order.Value, ok bool) {
	if col.Accessor == nil {
		return order.Value{}, false
	}
	defer func() {
		if recover() != nil {
			v, ok = order.Value{}, false
		}
	}()
	return order.Of(col.Accessor(record))
}

func safeRender[T any](render func(T) string, record T) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()
	return render(record), true
}
