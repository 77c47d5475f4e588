// Package main provides the CLI entrypoint for numfind.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/numfind/internal/config"
	"github.com/verte-zerg/numfind/internal/layout"
	"github.com/verte-zerg/numfind/internal/model"
	"github.com/verte-zerg/numfind/internal/report"
	"github.com/verte-zerg/numfind/internal/schedule"
	"github.com/verte-zerg/numfind/internal/tui"
)

const (
	defaultPoints       = 0
	defaultLayoutPoints = 10
)

var (
	playPoints    int
	playSeed      int64
	playAltScreen bool
	playLogFile   string

	layoutPoints int
	layoutSeed   int64
	layoutFormat string
)

var cliLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "numfind",
		Short:         "Find the numbers in order before you slip",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playPoints, "points", defaultPoints, "pre-filled number of points (0 leaves the field empty)")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "layout seed (0 picks a random seed)")
	rootCmd.Flags().BoolVar(&playAltScreen, "alt-screen", true, "use the terminal alternate screen")
	rootCmd.Flags().StringVar(&playLogFile, "log-file", "", "write a JSON debug log to this file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLayoutCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "points", &playPoints, fileCfg.Play.Points)
	applyConfig(cmd, "seed", &playSeed, fileCfg.Play.Seed)
	applyConfig(cmd, "alt-screen", &playAltScreen, fileCfg.Play.AltScreen)
	applyConfig(cmd, "log-file", &playLogFile, fileCfg.Play.LogFile)

	cfg := model.Config{
		Points:    playPoints,
		Seed:      playSeed,
		AltScreen: playAltScreen,
		LogFile:   playLogFile,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("numfind needs an interactive terminal (try: numfind layout)")
	}

	logger, closeLog, err := newGameLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	m := tui.NewModel(cfg, newGenerator(cfg.Seed), schedule.New(clockwork.NewRealClock()), logger)
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(m, opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print a generated layout",
		Args:  cobra.NoArgs,
		RunE:  runLayoutCmd,
	}
	cmd.Flags().IntVar(&layoutPoints, "points", defaultLayoutPoints, "number of points")
	cmd.Flags().Int64Var(&layoutSeed, "seed", 0, "layout seed (0 picks a random seed)")
	cmd.Flags().StringVar(&layoutFormat, "format", report.FormatTable, "output format: table, json or yaml")
	return cmd
}

func runLayoutCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.LayoutConfig{
		Points: layoutPoints,
		Seed:   layoutSeed,
		Format: strings.ToLower(strings.TrimSpace(layoutFormat)),
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	tokens, err := layout.NewSeeded(cfg.Seed).Generate(cfg.Points)
	if err != nil {
		return fmt.Errorf("failed to generate layout for %d points: %w", cfg.Points, err)
	}
	if err := report.RenderLayout(cmd.OutOrStdout(), tokens, cfg.Seed, cfg.Format); err != nil {
		return fmt.Errorf("failed to write layout: %w", err)
	}
	return nil
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
		cliLog.Info().Str("path", path).Msg("created config")
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

func newGenerator(seed int64) *layout.Generator {
	if seed == 0 {
		return layout.New()
	}
	return layout.NewSeeded(seed)
}

// newGameLogger returns a JSON file logger, or a no-op logger when path is
// empty. Stderr is not an option while the TUI owns the terminal.
func newGameLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := newFileLogger(file)
	closeFn := func() {
		if cerr := file.Close(); cerr != nil {
			cliLog.Warn().Err(cerr).Str("path", path).Msg("failed to close log file")
		}
	}
	return logger, closeFn, nil
}

func newFileLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# numfind configuration
# Uncomment a value to enable it. CLI flags override config values.
# Game rules (tolerance, tick period, removal delay) are fixed and not configurable.

[play]
# points = %d             # Pre-filled number of points (0 leaves the field empty)
# seed = 0               # Layout seed (0 picks a random seed)
# alt-screen = true      # Use the terminal alternate screen
# log-file = %q
`,
		defaultLayoutPoints,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Points < 0 {
		return fmt.Errorf("--points must be >= 0")
	}
	if cfg.Points > layout.Capacity {
		return fmt.Errorf("--points must be <= %d", layout.Capacity)
	}
	return nil
}
