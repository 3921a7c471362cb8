// Package main provides the CLI entrypoint for lince.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mgalan/lince/internal/config"
	"github.com/mgalan/lince/internal/games"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/session"
	"github.com/mgalan/lince/internal/stats"
	"github.com/mgalan/lince/internal/statsui"
	"github.com/mgalan/lince/internal/store"
	"github.com/mgalan/lince/internal/telemetry"
	"github.com/mgalan/lince/internal/tui"
	"github.com/mgalan/lince/internal/wordbank"
)

const (
	defaultMode        = "combo"
	defaultMinutes     = 10
	defaultLang        = "es"
	defaultUser        = "default"
	defaultCurveWindow = 10
)

var (
	sessionMode    string
	sessionMinutes int
	sessionLang    string
	sessionUser    string

	statsUser        string
	statsGame        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsBrowse      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lince",
		Short:         "TUI cognitive and reading-speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	// Persistent so `lince practice` inherits the same session settings.
	rootCmd.PersistentFlags().StringVar(&sessionMode, "mode", defaultMode, "session mode: speed, comp, or combo")
	rootCmd.PersistentFlags().IntVar(&sessionMinutes, "minutes", defaultMinutes, "session length in minutes")
	rootCmd.PersistentFlags().StringVar(&sessionLang, "lang", defaultLang, "word bank language code")
	rootCmd.PersistentFlags().StringVar(&sessionUser, "user", defaultUser, "profile name")

	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

func resolveSessionConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &sessionMode, fileCfg.Session.Mode)
	applyIntConfig(cmd, "minutes", &sessionMinutes, fileCfg.Session.Minutes)
	applyStringConfig(cmd, "lang", &sessionLang, fileCfg.Session.Lang)
	applyStringConfig(cmd, "user", &sessionUser, fileCfg.Session.User)

	cfg := model.Config{
		Mode:        model.Mode(sessionMode),
		Minutes:     sessionMinutes,
		Lang:        sessionLang,
		User:        sessionUser,
		WordlistDir: config.DefaultWordlistDir(),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveSessionConfig(cmd)
	if err != nil {
		return err
	}

	st := openStoreOrWarn()
	defer closeStore(st)
	rec, emitter := collaborators(st)

	bank := wordbank.Load(cfg.Lang, cfg.WordlistDir)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	orch := session.New(cfg, games.Catalog(), rng)
	orch.Start(time.Now())

	m := tui.NewSession(cfg, orch, rec, emitter, bank, rng)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newPracticeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "practice <game>",
		Short: "Play a single game outside a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runPracticeCmd,
	}
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveSessionConfig(cmd)
	if err != nil {
		return err
	}
	code := strings.TrimSpace(args[0])
	bank := wordbank.Load(cfg.Lang, cfg.WordlistDir)
	if _, err := games.New(code, bank); err != nil {
		return fmt.Errorf("unknown game %q (run: lince games)", code)
	}

	st := openStoreOrWarn()
	defer closeStore(st)
	rec, emitter := collaborators(st)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	m := tui.NewPractice(cfg, code, rec, emitter, bank, rng)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List available games",
		Args:  cobra.NoArgs,
		RunE:  runGamesCmd,
	}
}

func runGamesCmd(cmd *cobra.Command, _ []string) error {
	for _, ref := range games.Catalog() {
		tags := []string{}
		if ref.Skills.Speed > 0.5 {
			tags = append(tags, "velocidad")
		}
		if ref.Skills.Comprehension > 0.5 {
			tags = append(tags, "comprensión")
		}
		if ref.Skills.Attention > 0.5 {
			tags = append(tags, "atención")
		}
		if ref.Skills.Memory > 0.5 {
			tags = append(tags, "memoria")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-22s %s\n", ref.Code, ref.Name, strings.Join(tags, ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show training stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", defaultUser, "profile name")
	cmd.Flags().StringVar(&statsGame, "game", "", "game code filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsBrowse, "browse", false, "open the interactive run browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		User:        statsUser,
		GameCode:    statsGame,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if statsBrowse {
		m := statsui.New(report.Runs, report.TotalXP)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Runs, report.TotalXP); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := stats.RenderGameTable(out, report.ByGame); err != nil {
		return fmt.Errorf("failed to render game table: %w", err)
	}
	if err := stats.RenderCurves(out, report.Runs, cfg.CurveWindow, 0); err != nil {
		return fmt.Errorf("failed to render curves: %w", err)
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

func newWordlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wordlist",
		Short: "Show word bank status",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveSessionConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.WordlistDir
	embedded := wordbank.Load(cfg.Lang, "")
	merged := wordbank.Load(cfg.Lang, dir)

	out := cmd.OutOrStdout()
	external := len(merged.Words()) - len(embedded.Words())
	path := filepath.Join(dir, cfg.Lang+".txt")
	status := path
	if _, statErr := os.Stat(path); statErr != nil {
		status = path + " (not found)"
	}
	if _, err := fmt.Fprintf(out, "Idioma: %s\nPalabras integradas: %d\nLista externa: %s\nPalabras añadidas: %d\nTotal: %d\n",
		merged.Lang(), len(embedded.Words()), status, external, len(merged.Words())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// openStoreOrWarn opens the database, degrading to no persistence on
// failure: a broken store must never block training.
func openStoreOrWarn() *store.Store {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db, progress will not be saved: %v\n", err)
		return nil
	}
	return st
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func collaborators(st *store.Store) (session.Recorder, *telemetry.Emitter) {
	if st == nil {
		return nil, telemetry.NewEmitter(nil)
	}
	return st, telemetry.NewEmitter(st)
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lince configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# mode = %q        # Session mode: speed, comp, or combo
# minutes = %d        # Session length in minutes
# lang = %q          # Word bank language code
# user = %q      # Profile name
`,
		defaultMode,
		defaultMinutes,
		defaultLang,
		defaultUser,
	)
}

func validateConfig(cfg model.Config) error {
	switch cfg.Mode {
	case model.ModeSpeed, model.ModeComprehension, model.ModeCombo:
	default:
		return fmt.Errorf("--mode must be speed, comp, or combo")
	}
	if cfg.Minutes <= 0 {
		return fmt.Errorf("--minutes must be > 0")
	}
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.User == "" {
		return fmt.Errorf("--user must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
