// Package main provides the CLI entrypoint for classboard.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/classboard/internal/config"
	"github.com/verte-zerg/classboard/internal/debounce"
	"github.com/verte-zerg/classboard/internal/logging"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/pagination"
	"github.com/verte-zerg/classboard/internal/rosterui"
	"github.com/verte-zerg/classboard/internal/store"
)

const (
	defaultEntity      = rosterui.EntityStudents
	defaultPageSize    = pagination.DefaultPageSize
	defaultCurveWindow = 7
	defaultLogLevel    = "info"
)

var (
	dbPath   string
	logLevel string
	logFile  string

	roster rosterFlags
)

// rosterFlags holds the table options shared by the roster screen and list.
type rosterFlags struct {
	pageSize   int
	debounceMs int
	sort       string
	desc       bool
	query      string
	locale     string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var entity string
	rootCmd := &cobra.Command{
		Use:           "classboard",
		Short:         "Terminal console for class rosters and course activity",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRosterCmd(cmd, entity)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	rootCmd.Flags().StringVar(&entity, "entity", defaultEntity, "entity to browse ("+strings.Join(rosterui.EntityNames, ", ")+")")
	addRosterFlags(rootCmd, &roster)
	rootCmd.Flags().IntVar(&roster.debounceMs, "debounce-ms", int(debounce.DefaultWindow.Milliseconds()), "search debounce window in milliseconds")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addRosterFlags(cmd *cobra.Command, f *rosterFlags) {
	cmd.Flags().IntVar(&f.pageSize, "page-size", defaultPageSize, "rows per page")
	cmd.Flags().StringVar(&f.sort, "sort", "", "column key to sort by (empty for natural order)")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&f.query, "query", "", "initial search query")
	cmd.Flags().StringVar(&f.locale, "locale", "", "collation locale for text columns (BCP 47, e.g. fr)")
}

func applyRosterConfig(cmd *cobra.Command, f *rosterFlags, fileCfg config.RosterConfig) {
	applyIntConfig(cmd, "page-size", &f.pageSize, fileCfg.PageSize)
	applyIntConfig(cmd, "debounce-ms", &f.debounceMs, fileCfg.DebounceMs)
	applyStringConfig(cmd, "sort", &f.sort, fileCfg.Sort)
	applyBoolConfig(cmd, "desc", &f.desc, fileCfg.Desc)
	applyStringConfig(cmd, "locale", &f.locale, fileCfg.Locale)
}

func (f rosterFlags) config(entity string) model.RosterConfig {
	return model.RosterConfig{
		Entity:     entity,
		PageSize:   f.pageSize,
		DebounceMs: f.debounceMs,
		Sort:       f.sort,
		Desc:       f.desc,
		Query:      f.query,
		Locale:     f.locale,
	}
}

func validateRosterConfig(cfg model.RosterConfig) error {
	if cfg.PageSize <= 0 {
		return fmt.Errorf("--page-size must be > 0")
	}
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("--debounce-ms must be >= 0")
	}
	return nil
}

func runRosterCmd(cmd *cobra.Command, entity string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyRosterConfig(cmd, &roster, fileCfg.Roster)
	cfg := roster.config(entity)
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

	m, err := rosterui.New(st, cfg, logger)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLogger(cmd *cobra.Command, fileCfg config.LogConfig) (*zap.Logger, error) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.File)
	file := logFile
	if file == "" && strings.EqualFold(strings.TrimSpace(logLevel), "debug") {
		file = config.DefaultLogPath()
	}
	logger, err := logging.New(logging.Config{Level: logLevel, File: file})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush of file logs.
		_ = err
	}
}

func openStore(logger *zap.Logger) (*store.Store, error) {
	st, err := store.Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# classboard configuration
# Uncomment a value to enable it. CLI flags override config values.

[roster]
# page-size = %d          # Rows per page
# debounce-ms = %d       # Search debounce window in milliseconds
# sort = "name"           # Initial sort column (empty for natural order)
# desc = false            # Sort descending
# locale = "en"           # Collation locale for text columns

[stats]
# curve-window = %d        # Moving average window in days

[log]
# level = %q          # debug, info, warn or error
# file = %q
`,
		defaultPageSize,
		debounce.DefaultWindow.Milliseconds(),
		defaultCurveWindow,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
