package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/classboard/internal/chart"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/store"
)

// Chart names accepted by Report.Export.
const (
	ChartDaily   = "daily"
	ChartTrend   = "trend"
	ChartWeekday = "weekday"
	ChartCourse  = "course"
)

// ChartNames lists the exportable charts.
var ChartNames = []string{ChartDaily, ChartTrend, ChartWeekday, ChartCourse}

// Report contains precomputed data for stats rendering.
type Report struct {
	Days     []model.DayActivity
	Courses  []model.CourseActivity
	Progress []model.StudentProgress
	Names    map[string]string

	// Daily holds attempts, completions and average score per active day.
	// Days without completions are gaps in the completion and score series.
	Daily chart.Aligned
	// Trend holds the daily completion rate and its moving average.
	Trend chart.Aligned
	// Weekday holds attempts and completions per weekday, zero filled.
	Weekday chart.Aligned
	// Course holds attempts and completions per course in course order.
	Course chart.Aligned
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	days, err := st.ListDayActivity(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load daily activity: %w", err)
	}
	if cfg.Last > 0 && len(days) > cfg.Last {
		days = days[len(days)-cfg.Last:]
		since := days[0].Day
		cfg.Since = &since
	}
	courses, err := st.ListCourseActivity(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load course activity: %w", err)
	}
	progress, err := st.ListStudentProgress(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load student progress: %w", err)
	}
	students, err := st.ListStudents(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load students: %w", err)
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.FullName()
	}

	r := Report{Days: days, Courses: courses, Progress: progress, Names: names}
	if err := r.buildCharts(cfg.CurveWindow); err != nil {
		return Report{}, err
	}
	return r, nil
}

// NewReport builds the charts for already loaded activity.
func NewReport(days []model.DayActivity, courses []model.CourseActivity, window int) (Report, error) {
	r := Report{Days: days, Courses: courses}
	if err := r.buildCharts(window); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (r *Report) buildCharts(window int) error {
	var err error
	if r.Daily, err = dailyChart(r.Days); err != nil {
		return fmt.Errorf("failed to align daily chart: %w", err)
	}
	if r.Trend, err = trendChart(r.Days, window); err != nil {
		return fmt.Errorf("failed to align trend chart: %w", err)
	}
	if r.Weekday, err = weekdayChart(r.Days); err != nil {
		return fmt.Errorf("failed to align weekday chart: %w", err)
	}
	if r.Course, err = courseChart(r.Courses); err != nil {
		return fmt.Errorf("failed to align course chart: %w", err)
	}
	return nil
}

// Export returns the named chart with labels rendered as display strings.
func (r Report) Export(name string) (chart.Aligned, error) {
	var a chart.Aligned
	labelFn := FormatLabel
	switch name {
	case ChartDaily:
		a = r.Daily
	case ChartTrend:
		a = r.Trend
	case ChartWeekday:
		a = r.Weekday
		labelFn = WeekdayLabel
	case ChartCourse:
		a = r.Course
	default:
		return chart.Aligned{}, fmt.Errorf("unknown chart %q (expected one of %v)", name, ChartNames)
	}
	out := chart.Aligned{Labels: make([]any, len(a.Labels)), Series: a.Series}
	for i, l := range a.Labels {
		out.Labels[i] = labelFn(l)
	}
	if out.Series == nil {
		out.Series = []chart.AlignedSeries{}
	}
	return out, nil
}

func dailyChart(days []model.DayActivity) (chart.Aligned, error) {
	attempts := chart.Series{Name: "Attempts"}
	completions := chart.Series{Name: "Completions"}
	scores := chart.Series{Name: "Avg score"}
	for _, d := range days {
		attempts.Points = append(attempts.Points, chart.Point{Key: d.Day, Value: float64(d.Attempts)})
		if d.Completions == 0 {
			continue
		}
		completions.Points = append(completions.Points, chart.Point{Key: d.Day, Value: float64(d.Completions)})
		if avg, ok := AverageScore(d.Completions, d.ScoreSum); ok {
			scores.Points = append(scores.Points, chart.Point{Key: d.Day, Value: avg})
		}
	}
	return chart.Align([]chart.Series{attempts, completions, scores}, chart.MissingNull, chart.Sorted)
}

func trendChart(days []model.DayActivity, window int) (chart.Aligned, error) {
	rate := chart.Series{Name: "Completion %"}
	for _, d := range days {
		if d.Attempts == 0 {
			continue
		}
		rate.Points = append(rate.Points, chart.Point{Key: d.Day, Value: CompletionRate(d.Attempts, d.Completions) * 100})
	}
	a, err := chart.Align([]chart.Series{rate}, chart.MissingNull, chart.Sorted)
	if err != nil || a.Empty() {
		return a, err
	}
	a.Series = append(a.Series, chart.AlignedSeries{
		Name:   fmt.Sprintf("Moving avg (%d)", max(window, 1)),
		Values: MovingAverageValues(a.Series[0].Values, window),
	})
	return a, nil
}

func weekdayChart(days []model.DayActivity) (chart.Aligned, error) {
	var attempts, completions [7]int
	for _, d := range days {
		wd := d.Day.Weekday()
		attempts[wd] += d.Attempts
		completions[wd] += d.Completions
	}
	as := chart.Series{Name: "Attempts"}
	cs := chart.Series{Name: "Completions"}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if attempts[wd] > 0 {
			as.Points = append(as.Points, chart.Point{Key: int(wd), Value: float64(attempts[wd])})
		}
		if completions[wd] > 0 {
			cs.Points = append(cs.Points, chart.Point{Key: int(wd), Value: float64(completions[wd])})
		}
	}
	return chart.Align([]chart.Series{as, cs}, chart.MissingZero, chart.Sorted)
}

func courseChart(courses []model.CourseActivity) (chart.Aligned, error) {
	as := chart.Series{Name: "Attempts"}
	cs := chart.Series{Name: "Completions"}
	for _, c := range courses {
		as.Points = append(as.Points, chart.Point{Key: c.Title, Value: float64(c.Attempts)})
		if c.Completions > 0 {
			cs.Points = append(cs.Points, chart.Point{Key: c.Title, Value: float64(c.Completions)})
		}
	}
	return chart.Align([]chart.Series{as, cs}, chart.MissingZero, chart.FirstSeen)
}
