// Package stats contains activity metrics and text reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/classboard/internal/chart"
	"github.com/verte-zerg/classboard/internal/model"
)

const sparkChars = " .:-=+*#%@"

// CompletionRate returns completions/attempts in [0, 1].
func CompletionRate(attempts, completions int) float64 {
	if attempts <= 0 {
		return 0
	}
	return float64(completions) / float64(attempts)
}

// AverageScore returns the mean score per completion.
func AverageScore(completions int, scoreSum float64) (float64, bool) {
	if completions <= 0 {
		return 0, false
	}
	return scoreSum / float64(completions), true
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// MovingAverageValues smooths the valid entries of values over the last
// window valid entries. Gaps stay gaps.
func MovingAverageValues(values []chart.Value, window int) []chart.Value {
	out := make([]chart.Value, len(values))
	var valid []float64
	for i, v := range values {
		if !v.Valid {
			continue
		}
		valid = append(valid, v.Float)
		lo := 0
		if window > 1 && len(valid) > window {
			lo = len(valid) - window
		}
		if window <= 1 {
			lo = len(valid) - 1
		}
		var sum float64
		for _, f := range valid[lo:] {
			sum += f
		}
		out[i] = chart.Some(sum / float64(len(valid)-lo))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Totals sums daily activity.
type Totals struct {
	Days           int
	ActiveStudents int
	Attempts       int
	Completions    int
	ScoreSum       float64
	BestDay        model.DayActivity
}

// Summarize computes totals for the report.
func Summarize(r Report) Totals {
	t := Totals{Days: len(r.Days), ActiveStudents: len(r.Progress)}
	for _, d := range r.Days {
		t.Attempts += d.Attempts
		t.Completions += d.Completions
		t.ScoreSum += d.ScoreSum
		if d.Completions > t.BestDay.Completions {
			t.BestDay = d
		}
	}
	return t
}

// RenderSummary prints headline numbers for the report.
func RenderSummary(w io.Writer, r Report) error {
	if len(r.Days) == 0 {
		_, err := fmt.Fprintln(w, "No activity found.")
		return err
	}
	t := Summarize(r)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Active days: %d\n", t.Days); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Active students: %d\n", t.ActiveStudents); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", t.Attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completions: %d (%.2f%%)\n", t.Completions, CompletionRate(t.Attempts, t.Completions)*100); err != nil {
		return err
	}
	if avg, ok := AverageScore(t.Completions, t.ScoreSum); ok {
		if _, err := fmt.Fprintf(w, "Avg score: %.1f\n", avg); err != nil {
			return err
		}
	}
	if t.BestDay.Completions > 0 {
		if _, err := fmt.Fprintf(w, "Best day: %s (%d completions)\n", t.BestDay.Day.Format("2006-01-02"), t.BestDay.Completions); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints the daily activity and completion-rate plots.
func RenderCurves(w io.Writer, r Report) error {
	return RenderCurvesWithSize(w, r, 0, 10, false)
}

// RenderCurvesWithSize prints the daily plots sized to a given total width.
func RenderCurvesWithSize(w io.Writer, r Report, totalWidth, height int, useColor bool) error {
	if r.Daily.Empty() {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotAligned(w, "Daily Activity", r.Daily, width, height, useColor); err != nil {
		return err
	}
	return PlotAligned(w, "Completion Rate", r.Trend, width, height, useColor)
}

// RenderWeekdays prints activity by weekday as bars.
func RenderWeekdays(w io.Writer, r Report, totalWidth int, useColor bool) error {
	return RenderBars(w, "Activity by Weekday", r.Weekday, WeekdayLabel, totalWidth, useColor)
}

// RenderCourses prints attempts and completions per course as bars.
func RenderCourses(w io.Writer, r Report, totalWidth int, useColor bool) error {
	return RenderBars(w, "Per-Course Activity", r.Course, nil, totalWidth, useColor)
}

// RenderCourseTable prints per-course aggregates in course order.
func RenderCourseTable(w io.Writer, courses []model.CourseActivity) error {
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No course activity found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Course"); err != nil {
		return err
	}
	headers := []string{"Course", "Attempts", "Completions", "Rate", "Avg Score"}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			c.Title,
			fmt.Sprintf("%d", c.Attempts),
			fmt.Sprintf("%d", c.Completions),
			fmt.Sprintf("%.2f%%", CompletionRate(c.Attempts, c.Completions)*100),
			formatScore(c.Completions, c.ScoreSum),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderStudentTable prints per-student progress rows.
func RenderStudentTable(w io.Writer, title string, rows []model.StudentProgress, names map[string]string) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Student", "Attempts", "Completions", "Rate", "Avg Score"}
	cells := make([][]string, 0, len(rows))
	for _, p := range rows {
		name := names[p.StudentID]
		if name == "" {
			name = p.StudentID
		}
		cells = append(cells, []string{
			name,
			fmt.Sprintf("%d", p.Attempts),
			fmt.Sprintf("%d", p.Completions),
			fmt.Sprintf("%.2f%%", CompletionRate(p.Attempts, p.Completions)*100),
			formatScore(p.Completions, p.ScoreSum),
		})
	}
	return writeTable(w, headers, cells, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

func formatScore(completions int, sum float64) string {
	avg, ok := AverageScore(completions, sum)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", avg)
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
