package chart

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestAlignFirstSeenZero(t *testing.T) {
	series := []Series{
		{Name: "attempts", Points: []Point{{Key: "Mon", Value: 10}, {Key: "Wed", Value: 5}}},
		{Name: "completions", Points: []Point{{Key: "Mon", Value: 8}}},
	}
	got, err := Align(series, MissingZero, FirstSeen)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if !reflect.DeepEqual(got.Labels, []any{"Mon", "Wed"}) {
		t.Fatalf("unexpected labels: %v", got.Labels)
	}
	want := []AlignedSeries{
		{Name: "attempts", Values: []Value{Some(10), Some(5)}},
		{Name: "completions", Values: []Value{Some(8), Some(0)}},
	}
	if !reflect.DeepEqual(got.Series, want) {
		t.Fatalf("unexpected series: %+v", got.Series)
	}
}

func TestAlignSortedNull(t *testing.T) {
	series := []Series{
		{Name: "a", Points: []Point{{Key: "b", Value: 2}, {Key: "a", Value: 1}}},
		{Name: "b", Points: []Point{{Key: "c", Value: 3}}},
	}
	got, err := Align(series, MissingNull, Sorted)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if !reflect.DeepEqual(got.Labels, []any{"a", "b", "c"}) {
		t.Fatalf("unexpected labels: %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Series[0].Values, []Value{Some(1), Some(2), {}}) {
		t.Fatalf("unexpected values for a: %+v", got.Series[0].Values)
	}
	if !reflect.DeepEqual(got.Series[1].Values, []Value{{}, {}, Some(3)}) {
		t.Fatalf("unexpected values for b: %+v", got.Series[1].Values)
	}
}

func TestAlignSortedNumericAndDates(t *testing.T) {
	nums := []Series{{Name: "n", Points: []Point{{Key: 10, Value: 1}, {Key: 2, Value: 1}, {Key: 33, Value: 1}}}}
	got, err := Align(nums, MissingZero, Sorted)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if !reflect.DeepEqual(got.Labels, []any{2, 10, 33}) {
		t.Fatalf("expected numeric order, got %v", got.Labels)
	}

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dates := []Series{
		{Name: "x", Points: []Point{{Key: day.AddDate(0, 0, 2), Value: 1}}},
		{Name: "y", Points: []Point{{Key: day, Value: 1}, {Key: day.AddDate(0, 0, 1), Value: 1}}},
	}
	got, err = Align(dates, MissingNull, Sorted)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	for j := 1; j < len(got.Labels); j++ {
		if !got.Labels[j-1].(time.Time).Before(got.Labels[j].(time.Time)) {
			t.Fatalf("expected chronological labels, got %v", got.Labels)
		}
	}
}

func TestAlignLengthAndUnion(t *testing.T) {
	series := []Series{
		{Name: "a", Points: []Point{{Key: "x", Value: 1}, {Key: "y", Value: 2}}},
		{Name: "b", Points: nil},
		{Name: "c", Points: []Point{{Key: "z", Value: 3}, {Key: "x", Value: 4}}},
	}
	for _, ord := range []KeyOrder{Sorted, FirstSeen} {
		got, err := Align(series, MissingNull, ord)
		if err != nil {
			t.Fatalf("align: %v", err)
		}
		if len(got.Series) != len(series) {
			t.Fatalf("expected %d series, got %d", len(series), len(got.Series))
		}
		for _, s := range got.Series {
			if len(s.Values) != len(got.Labels) {
				t.Fatalf("series %s has %d values for %d labels", s.Name, len(s.Values), len(got.Labels))
			}
		}
		counts := map[any]int{}
		for _, l := range got.Labels {
			counts[l]++
		}
		for _, key := range []string{"x", "y", "z"} {
			if counts[key] != 1 {
				t.Fatalf("expected %q exactly once, got %d", key, counts[key])
			}
		}
	}
}

func TestAlignKeepsDistantInstantsApart(t *testing.T) {
	early := time.Time{}
	late := early.Add(time.Duration(math.MaxInt64)).Add(time.Duration(math.MaxInt64)).Add(2)
	series := []Series{{Name: "s", Points: []Point{{Key: early, Value: 1}, {Key: late, Value: 2}}}}
	got, err := Align(series, MissingNull, Sorted)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if len(got.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Series[0].Values, []Value{Some(1), Some(2)}) {
		t.Fatalf("unexpected values: %+v", got.Series[0].Values)
	}
}

func TestAlignSkipsNaNKeys(t *testing.T) {
	series := []Series{{Name: "s", Points: []Point{{Key: 1.0, Value: 1}, {Key: math.NaN(), Value: 9}}}}
	got, err := Align(series, MissingNull, Sorted)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if !reflect.DeepEqual(got.Labels, []any{1.0}) {
		t.Fatalf("expected NaN key to be skipped, got %v", got.Labels)
	}
}

func TestAlignEmpty(t *testing.T) {
	for _, in := range [][]Series{nil, {{Name: "a"}, {Name: "b"}}} {
		got, err := Align(in, MissingZero, Sorted)
		if err != nil {
			t.Fatalf("align: %v", err)
		}
		if !got.Empty() || len(got.Series) != 0 || got.Labels == nil {
			t.Fatalf("expected empty dataset, got %+v", got)
		}
	}
}

func TestAlignDuplicateKeyFirstWins(t *testing.T) {
	series := []Series{{Name: "a", Points: []Point{{Key: "k", Value: 1}, {Key: "k", Value: 9}}}}
	got, err := Align(series, MissingZero, FirstSeen)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if len(got.Labels) != 1 || got.Series[0].Values[0] != Some(1) {
		t.Fatalf("expected first value to win, got %+v", got)
	}
}

func TestAlignRequiresPolicyAndOrder(t *testing.T) {
	if _, err := Align(nil, 0, Sorted); !errors.Is(err, ErrMissingPolicy) {
		t.Fatalf("expected ErrMissingPolicy, got %v", err)
	}
	if _, err := Align(nil, MissingNull, 0); !errors.Is(err, ErrKeyOrder) {
		t.Fatalf("expected ErrKeyOrder, got %v", err)
	}
}

func TestEncodeJSON(t *testing.T) {
	series := []Series{
		{Name: "attempts", Points: []Point{{Key: "Mon", Value: 10}, {Key: "Tue", Value: 2.5}}},
		{Name: "completions", Points: []Point{{Key: "Mon", Value: 8}}},
	}
	aligned, err := Align(series, MissingNull, FirstSeen)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, aligned); err != nil {
		t.Fatalf("encode: %v", err)
	}
	compact := strings.Join(strings.Fields(buf.String()), "")
	want := `{"labels":["Mon","Tue"],"datasets":[{"label":"attempts","data":[10,2.5]},{"label":"completions","data":[8,null]}]}`
	if compact != want {
		t.Fatalf("unexpected json:\n%s\nwant:\n%s", compact, want)
	}
}

func TestFloats(t *testing.T) {
	s := AlignedSeries{Values: []Value{Some(1), {}, Some(3)}}
	if got := s.Floats(-1); !reflect.DeepEqual(got, []float64{1, -1, 3}) {
		t.Fatalf("unexpected floats: %v", got)
	}
}
