package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/classboard/internal/chart"
	"github.com/verte-zerg/classboard/internal/config"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/stats"
	"github.com/verte-zerg/classboard/internal/statsui"
	"github.com/verte-zerg/classboard/internal/store"
)

const (
	plainStudentRows      = 5
	plainStrugglingMinAtt = 3
)

// reportFlags holds the filters shared by stats and chart.
type reportFlags struct {
	class       string
	course      string
	since       string
	last        int
	curveWindow int
}

var (
	statsReport reportFlags
	statsPlain  bool

	chartReport reportFlags
	chartJSON   bool
)

func addReportFlags(cmd *cobra.Command, f *reportFlags) {
	cmd.Flags().StringVar(&f.class, "class", "", "class name or id filter")
	cmd.Flags().StringVar(&f.course, "course", "", "course title or id filter")
	cmd.Flags().StringVar(&f.since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.last, "last", 0, "limit to the last N active days")
	cmd.Flags().IntVar(&f.curveWindow, "curve-window", defaultCurveWindow, "moving average window in days")
}

// resolve turns flag values into a stats config, looking up class and course
// references in st.
func (f reportFlags) resolve(ctx context.Context, st *store.Store) (model.StatsConfig, error) {
	if f.last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if f.curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	cfg := model.StatsConfig{Last: f.last, CurveWindow: f.curveWindow}
	if f.since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", f.since, time.UTC)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if ref := strings.TrimSpace(f.class); ref != "" {
		c, err := st.FindClass(ctx, ref)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.StatsConfig{}, fmt.Errorf("unknown class %q", ref)
			}
			return model.StatsConfig{}, fmt.Errorf("failed to look up class: %w", err)
		}
		cfg.ClassID = c.ID
	}
	if ref := strings.TrimSpace(f.course); ref != "" {
		c, err := st.FindCourse(ctx, ref)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.StatsConfig{}, fmt.Errorf("unknown course %q", ref)
			}
			return model.StatsConfig{}, fmt.Errorf("failed to look up course: %w", err)
		}
		cfg.CourseID = c.ID
	}
	return cfg, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show course activity analytics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addReportFlags(cmd, &statsReport)
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of opening the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsReport.curveWindow, fileCfg.Stats.CurveWindow)

	logger, err := newLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	cfg, err := statsReport.resolve(ctx, st)
	if err != nil {
		return err
	}

	if statsPlain {
		report, err := stats.BuildReport(ctx, st, cfg)
		if err != nil {
			return err
		}
		return writePlainReport(cmd.OutOrStdout(), report)
	}

	m := statsui.NewModel(st, cfg, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainReport(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Days) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderWeekdays(w, report, 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCourseTable(w, report.Courses); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderStudentTable(w, "Top Students", stats.TopStudents(report.Progress, plainStudentRows), report.Names); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	weak := stats.StrugglingStudents(report.Progress, plainStrugglingMinAtt, plainStudentRows)
	if err := stats.RenderStudentTable(w, "Needs Attention", weak, report.Names); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "chart <name>",
		Short:     "Print one aligned chart (" + strings.Join(stats.ChartNames, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: stats.ChartNames,
		RunE:      runChartCmd,
	}
	addReportFlags(cmd, &chartReport)
	cmd.Flags().BoolVar(&chartJSON, "json", false, "print chart data as JSON for an external renderer")
	return cmd
}

func runChartCmd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !slices.Contains(stats.ChartNames, name) {
		return fmt.Errorf("unknown chart %q (expected one of %s)", name, strings.Join(stats.ChartNames, ", "))
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &chartReport.curveWindow, fileCfg.Stats.CurveWindow)

	logger, err := newLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	cfg, err := chartReport.resolve(ctx, st)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return err
	}
	return writeChart(cmd.OutOrStdout(), report, name, chartJSON)
}

func writeChart(w io.Writer, report stats.Report, name string, asJSON bool) error {
	aligned, err := report.Export(name)
	if err != nil {
		return err
	}
	if asJSON {
		return chart.Encode(w, aligned)
	}
	switch name {
	case stats.ChartDaily:
		return stats.PlotAligned(w, "Daily Activity", aligned, 0, 10, false)
	case stats.ChartTrend:
		return stats.PlotAligned(w, "Completion Rate", aligned, 0, 10, false)
	case stats.ChartWeekday:
		return stats.RenderBars(w, "Activity by Weekday", aligned, nil, 0, false)
	default:
		return stats.RenderBars(w, "Per-Course Activity", aligned, nil, 0, false)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
