package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/classboard/internal/chart"
)

func values(fs ...float64) []chart.Value {
	out := make([]chart.Value, len(fs))
	for i, f := range fs {
		out[i] = chart.Some(f)
	}
	return out
}

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: values(1, 2, 3, 2, 1)},
		{Name: "B", Values: values(1, 1, 2, 3, 4)},
	}, 5, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsAllGapSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Gaps", []Series{
		{Name: "Empty", Values: []chart.Value{{}, {}}},
	}, 10, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for a series of gaps, got %q", buf.String())
	}
}

func TestResampleKeepsGaps(t *testing.T) {
	in := []chart.Value{chart.Some(1), {}, chart.Some(3)}
	up := resampleSeries(in, 5)
	if len(up) != 5 {
		t.Fatalf("expected 5 values, got %d", len(up))
	}
	if up[2].Valid {
		t.Fatalf("expected the middle of a gap to stay empty, got %+v", up[2])
	}
	down := resampleSeries([]chart.Value{{}, {}, chart.Some(4), chart.Some(6)}, 2)
	if down[0].Valid {
		t.Fatalf("expected an all-gap bucket to stay empty, got %+v", down[0])
	}
	if !down[1].Valid || down[1].Float != 5 {
		t.Fatalf("expected bucket mean 5, got %+v", down[1])
	}
}

func TestPlotAlignedLabelsAxis(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC) }
	a, err := chart.Align([]chart.Series{
		{Name: "Attempts", Points: []chart.Point{{Key: day(2), Value: 3}, {Key: day(5), Value: 1}}},
		{Name: "Completions", Points: []chart.Point{{Key: day(5), Value: 1}}},
	}, chart.MissingNull, chart.Sorted)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var buf bytes.Buffer
	if err := PlotAligned(&buf, "Daily", a, 30, 4, false); err != nil {
		t.Fatalf("PlotAligned failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2024-09-02") || !strings.Contains(out, "2024-09-05") {
		t.Fatalf("expected first and last labels in output:\n%s", out)
	}
}

func TestXAxisLine(t *testing.T) {
	if got := xAxisLine("a", "b", 5); got != "a   b" {
		t.Fatalf("unexpected axis line %q", got)
	}
	if got := xAxisLine("same", "same", 10); got != "same" {
		t.Fatalf("unexpected axis line %q", got)
	}
}
