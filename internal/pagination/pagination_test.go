package pagination

import (
	"reflect"
	"testing"
)

func TestSlice(t *testing.T) {
	cases := []struct {
		name              string
		total, page, size int
		want              Window
	}{
		{name: "first page", total: 57, page: 1, size: 10, want: Window{Page: 1, PageCount: 6, Start: 1, End: 10, HasNext: true}},
		{name: "middle page", total: 57, page: 3, size: 10, want: Window{Page: 3, PageCount: 6, Start: 21, End: 30, HasNext: true, HasPrev: true}},
		{name: "last partial page", total: 57, page: 6, size: 10, want: Window{Page: 6, PageCount: 6, Start: 51, End: 57, HasPrev: true}},
		{name: "clamped high", total: 57, page: 99, size: 10, want: Window{Page: 6, PageCount: 6, Start: 51, End: 57, HasPrev: true}},
		{name: "clamped low", total: 5, page: 0, size: 10, want: Window{Page: 1, PageCount: 1, Start: 1, End: 5}},
		{name: "empty", total: 0, page: 4, size: 10, want: Window{Page: 1}},
		{name: "exact fit", total: 20, page: 2, size: 10, want: Window{Page: 2, PageCount: 2, Start: 11, End: 20, HasPrev: true}},
	}
	for _, tc := range cases {
		got := Slice(tc.total, tc.page, tc.size)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestCursorClampsOnTotalChange(t *testing.T) {
	c := NewCursor(10).SetTotal(100).SetPage(8)
	if c.Page() != 8 {
		t.Fatalf("expected page 8, got %d", c.Page())
	}
	c = c.SetTotal(35)
	if c.Page() != 4 {
		t.Fatalf("expected page clamped to 4, got %d", c.Page())
	}
	c = c.SetTotal(0)
	if c.Page() != 1 {
		t.Fatalf("expected page 1 for empty set, got %d", c.Page())
	}
}

func TestCursorPageSizeResetsPage(t *testing.T) {
	c := NewCursor(10).SetTotal(100).SetPage(5)
	c = c.SetPageSize(20)
	if c.Page() != 1 || c.PageSize() != 20 {
		t.Fatalf("expected page 1 size 20, got page %d size %d", c.Page(), c.PageSize())
	}
}

func TestCursorNavigation(t *testing.T) {
	c := NewCursor(10).SetTotal(25)
	c = c.Prev()
	if c.Page() != 1 {
		t.Fatalf("expected to stay on page 1, got %d", c.Page())
	}
	c = c.Next().Next().Next()
	if c.Page() != 3 {
		t.Fatalf("expected to stop on last page 3, got %d", c.Page())
	}
	if got := c.RangeText(); got != "21-25 of 25" {
		t.Fatalf("unexpected range text: %q", got)
	}
	if got := NewCursor(10).RangeText(); got != "0 of 0" {
		t.Fatalf("unexpected empty range text: %q", got)
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	c := NewCursor(3).SetTotal(len(items)).SetPage(3)
	if got := Page(items, c); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("expected [7], got %v", got)
	}
	if got := Page([]int{}, c); len(got) != 0 {
		t.Fatalf("expected empty page, got %v", got)
	}
}
