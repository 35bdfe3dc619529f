// Package chart merges sparse, independently keyed series into one dense
// dataset whose series all share the same label axis.
package chart

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"github.com/verte-zerg/classboard/internal/order"
)

// MissingPolicy decides what an absent key turns into.
type MissingPolicy int

const (
	// MissingNull leaves a gap, for line and area charts.
	MissingNull MissingPolicy = iota + 1
	// MissingZero fills 0, for bar charts.
	MissingZero
)

// KeyOrder decides the order of the label axis.
type KeyOrder int

const (
	// Sorted orders labels ascending: numeric, collated, or chronological.
	Sorted KeyOrder = iota + 1
	// FirstSeen orders labels by first appearance across series.
	FirstSeen
)

var (
	ErrMissingPolicy = errors.New("chart: missing-value policy is required")
	ErrKeyOrder      = errors.New("chart: key order is required")
)

// Point is one keyed value. Key is a string, number or time.Time; all series
// passed to one Align call must use the same key kind.
type Point struct {
	Key   any
	Value float64
}

// Series is a named list of points with unique keys.
type Series struct {
	Name   string
	Points []Point
}

// Value is an aligned value; Valid is false for a gap.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a valid Value.
func Some(v float64) Value {
	return Value{Float: v, Valid: true}
}

// AlignedSeries holds one value per label.
type AlignedSeries struct {
	Name   string
	Values []Value
}

// Aligned is a dense dataset. Series[i].Values[j] belongs to Labels[j].
type Aligned struct {
	Labels []any
	Series []AlignedSeries
}

// Empty reports whether there is nothing to render.
func (a Aligned) Empty() bool {
	return len(a.Labels) == 0
}

// Align unions the keys of all series and fills every series to the full
// label axis. Points with unclassifiable keys are skipped. When a key repeats
// inside one series the first point wins.
func Align(series []Series, missing MissingPolicy, keyOrder KeyOrder) (Aligned, error) {
	if missing != MissingNull && missing != MissingZero {
		return Aligned{}, fmt.Errorf("%w (got %d)", ErrMissingPolicy, missing)
	}
	if keyOrder != Sorted && keyOrder != FirstSeen {
		return Aligned{}, fmt.Errorf("%w (got %d)", ErrKeyOrder, keyOrder)
	}

	type label struct {
		key any
		val order.Value
	}
	var labels []label
	seen := map[order.Identity]struct{}{}
	lookups := make([]map[order.Identity]float64, len(series))
	for i, s := range series {
		lookup := make(map[order.Identity]float64, len(s.Points))
		for _, p := range s.Points {
			v, ok := order.Of(p.Key)
			if !ok {
				continue
			}
			id := v.Identity()
			if _, dup := lookup[id]; !dup {
				lookup[id] = p.Value
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				labels = append(labels, label{key: p.Key, val: v})
			}
		}
		lookups[i] = lookup
	}
	if len(labels) == 0 {
		return Aligned{Labels: []any{}, Series: []AlignedSeries{}}, nil
	}

	if keyOrder == Sorted {
		cmp := order.NewComparer(language.Und)
		sort.SliceStable(labels, func(i, j int) bool {
			return cmp.Compare(labels[i].val, labels[j].val) < 0
		})
	}

	out := Aligned{
		Labels: make([]any, len(labels)),
		Series: make([]AlignedSeries, len(series)),
	}
	for j, l := range labels {
		out.Labels[j] = l.key
	}
	for i, s := range series {
		values := make([]Value, len(labels))
		for j, l := range labels {
			if v, ok := lookups[i][l.val.Identity()]; ok {
				values[j] = Some(v)
				continue
			}
			if missing == MissingZero {
				values[j] = Some(0)
			}
		}
		out.Series[i] = AlignedSeries{Name: s.Name, Values: values}
	}
	return out, nil
}

// Floats returns the values of s, substituting fill for gaps.
func (s AlignedSeries) Floats(fill float64) []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if v.Valid {
			out[i] = v.Float
		} else {
			out[i] = fill
		}
	}
	return out
}
