package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/classboard/internal/chart"
	"github.com/verte-zerg/classboard/internal/model"
)

func TestCompletionRate(t *testing.T) {
	if got := CompletionRate(0, 0); got != 0 {
		t.Fatalf("expected 0 for no attempts, got %v", got)
	}
	if got := CompletionRate(4, 3); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
	if _, ok := AverageScore(0, 10); ok {
		t.Fatalf("expected no average without completions")
	}
	if avg, ok := AverageScore(2, 150); !ok || avg != 75 {
		t.Fatalf("expected 75, got %v (%v)", avg, ok)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMovingAverageValuesKeepsGaps(t *testing.T) {
	in := []chart.Value{chart.Some(2), {}, chart.Some(4), chart.Some(6)}
	got := MovingAverageValues(in, 2)
	if got[1].Valid {
		t.Fatalf("expected gap to stay a gap, got %+v", got[1])
	}
	want := []float64{2, 0, 3, 5}
	for _, i := range []int{0, 2, 3} {
		if !got[i].Valid || math.Abs(got[i].Float-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %+v", i, want[i], got[i])
		}
	}
	if one := MovingAverageValues(in, 1); one[3].Float != 6 {
		t.Fatalf("expected window 1 to pass values through, got %+v", one)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	got := Sparkline([]float64{0, 5, 10})
	if len(got) != 3 || got[0] != ' ' || got[2] != '@' {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if flat := Sparkline([]float64{3, 3}); flat != "++" {
		t.Fatalf("unexpected flat sparkline %q", flat)
	}
}

func TestRenderSummary(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC) }
	r := Report{
		Days: []model.DayActivity{
			{Day: day(2), Attempts: 4, Completions: 2, ScoreSum: 160},
			{Day: day(3), Attempts: 4, Completions: 3, ScoreSum: 240},
		},
		Progress: []model.StudentProgress{{StudentID: "a"}, {StudentID: "b"}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, r); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Active days: 2", "Active students: 2", "Completions: 5 (62.50%)", "Avg score: 80.0", "Best day: 2024-09-03"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, Report{}); err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No activity found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}
