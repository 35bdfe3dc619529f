package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/classboard/internal/config"
	"github.com/verte-zerg/classboard/internal/dataset"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/rosterui"
	"github.com/verte-zerg/classboard/internal/stats"
	"github.com/verte-zerg/classboard/internal/store"
	"github.com/verte-zerg/classboard/internal/table"
)

var (
	listRoster rosterFlags
	listPage   int
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list <entity>",
		Short:     "Print one page of students, classes or courses",
		Args:      cobra.ExactArgs(1),
		ValidArgs: rosterui.EntityNames,
		RunE:      runListCmd,
	}
	addRosterFlags(cmd, &listRoster)
	cmd.Flags().IntVar(&listPage, "page", 1, "page to print (clamped to the last page)")
	return cmd
}

func runListCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyRosterConfig(cmd, &listRoster, fileCfg.Roster)
	cfg := listRoster.config(args[0])
	if err := validateRosterConfig(cfg); err != nil {
		return err
	}

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

	return listEntity(commandContext(cmd), cmd.OutOrStdout(), st, cfg, listPage)
}

func listEntity(ctx context.Context, w io.Writer, st *store.Store, cfg model.RosterConfig, page int) error {
	switch cfg.Entity {
	case rosterui.EntityStudents:
		return printPage(ctx, w, rosterui.Students(st), cfg, page)
	case rosterui.EntityClasses:
		return printPage(ctx, w, rosterui.Classes(st), cfg, page)
	case rosterui.EntityCourses:
		return printPage(ctx, w, rosterui.Courses(st), cfg, page)
	default:
		return fmt.Errorf("unknown entity %q (expected one of %s)", cfg.Entity, strings.Join(rosterui.EntityNames, ", "))
	}
}

func printPage[T any](ctx context.Context, w io.Writer, entity rosterui.Entity[T], cfg model.RosterConfig, page int) error {
	tag, err := rosterui.ParseLocale(cfg.Locale)
	if err != nil {
		return err
	}
	sortState, err := rosterui.ResolveSort(entity.Columns, cfg.Sort, cfg.Desc)
	if err != nil {
		return err
	}
	records, err := entity.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", entity.Name, err)
	}

	ctrl := table.New(entity.Columns, entity.Key, cfg.PageSize).WithOptions(dataset.Options{Locale: tag})
	ctrl.SetRecords(records)
	ctrl.SetSort(sortState)
	ctrl.SetQuery(cfg.Query)
	ctrl.SetPage(page)

	headers := make([]string, len(entity.Columns))
	for i, col := range entity.Columns {
		headers[i] = col.Title
	}
	pageRows := ctrl.Rows()
	rows := make([][]string, 0, len(pageRows))
	for _, record := range pageRows {
		row := make([]string, len(entity.Columns))
		for i, col := range entity.Columns {
			row[i] = dataset.Text(col, record)
		}
		rows = append(rows, row)
	}

	for _, line := range stats.FormatTable(headers, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	win := ctrl.Window()
	if _, err := fmt.Fprintf(w, "\n%s  Page %d/%d\n", ctrl.RangeText(), win.Page, win.PageCount); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
