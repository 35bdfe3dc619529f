package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/classboard/internal/chart"
)

func TestWeekdayLabel(t *testing.T) {
	if got := WeekdayLabel(int(time.Monday)); got != "Mon" {
		t.Fatalf("expected Mon, got %q", got)
	}
	if got := WeekdayLabel("x"); got != "x" {
		t.Fatalf("expected fallback label, got %q", got)
	}
	if got := WeekdayLabel(9); got != "9" {
		t.Fatalf("expected fallback for out-of-range weekday, got %q", got)
	}
}

func TestRenderBars(t *testing.T) {
	a := chart.Aligned{
		Labels: []any{int(time.Monday), int(time.Tuesday)},
		Series: []chart.AlignedSeries{
			{Name: "Attempts", Values: []chart.Value{chart.Some(10), chart.Some(5)}},
			{Name: "Completions", Values: []chart.Value{chart.Some(0), {}}},
		},
	}
	var buf bytes.Buffer
	if err := RenderBars(&buf, "Weekdays", a, WeekdayLabel, 41, false); err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title and 4 bar lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "Mon Attempts") || !strings.HasSuffix(lines[1], " 10") {
		t.Fatalf("unexpected first bar line %q", lines[1])
	}
	if strings.Count(lines[1], "█") != 2*strings.Count(lines[3], "█") {
		t.Fatalf("expected bars proportional to values:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[2], "Completions 0") {
		t.Fatalf("expected zero bar without blocks, got %q", lines[2])
	}
	if !strings.HasSuffix(lines[4], "Completions -") {
		t.Fatalf("expected gap marker, got %q", lines[4])
	}
}
