package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/classboard/internal/config"
	"github.com/verte-zerg/classboard/internal/generator"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/namelist"
)

const (
	defaultSeedClasses  = 4
	defaultSeedStudents = 25
	defaultSeedDays     = 60
	defaultSeedActivity = 0.35
)

var (
	seedClasses    int
	seedStudents   int
	seedDays       int
	seedActivity   float64
	seedValue      int64
	seedStart      string
	seedFirstNames string
	seedLastNames  string
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with generated classes, students and activity",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().IntVar(&seedClasses, "classes", defaultSeedClasses, "number of classes")
	cmd.Flags().IntVar(&seedStudents, "students", defaultSeedStudents, "students per class")
	cmd.Flags().IntVar(&seedDays, "days", defaultSeedDays, "days of activity history")
	cmd.Flags().Float64Var(&seedActivity, "activity", defaultSeedActivity, "probability a student is active on a day (0-1)")
	cmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed (0 uses the current time)")
	cmd.Flags().StringVar(&seedStart, "start", "", "first activity day (YYYY-MM-DD, default: --days ago)")
	cmd.Flags().StringVar(&seedFirstNames, "first-names", "", "file with one first name per line")
	cmd.Flags().StringVar(&seedLastNames, "last-names", "", "file with one last name per line")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := generator.Options{
		Classes:          seedClasses,
		StudentsPerClass: seedStudents,
		Days:             seedDays,
		ActivityPct:      seedActivity,
	}
	if seedStart != "" {
		start, err := time.ParseInLocation("2006-01-02", seedStart, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --start value: %w", err)
		}
		opts.Start = start
	}
	if opts.FirstNames, err = loadNameFile(seedFirstNames); err != nil {
		return err
	}
	if opts.LastNames, err = loadNameFile(seedLastNames); err != nil {
		return err
	}

	gen := generator.New()
	if seedValue != 0 {
		gen = generator.NewSeeded(seedValue)
	}
	snap, err := gen.Generate(opts)
	if err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
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

	if err := st.Seed(commandContext(cmd), snap); err != nil {
		return fmt.Errorf("failed to seed db: %w", err)
	}
	return writeSeedSummary(cmd.OutOrStdout(), snap, dbPath)
}

func loadNameFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	names, err := namelist.LoadNames(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load names from %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no valid names in %s", path)
	}
	return names, nil
}

func writeSeedSummary(w io.Writer, snap model.Snapshot, path string) error {
	_, err := fmt.Fprintf(w, "Seeded %d classes, %d students, %d courses, %d activity rows into %s\n",
		len(snap.Classes), len(snap.Students), len(snap.Courses), len(snap.Attempts), path)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
