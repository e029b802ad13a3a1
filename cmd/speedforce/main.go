// Package main provides the CLI entrypoint for speedforce.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/speedforce/internal/config"
	"github.com/verte-zerg/speedforce/internal/engine"
	"github.com/verte-zerg/speedforce/internal/generator"
	"github.com/verte-zerg/speedforce/internal/model"
	"github.com/verte-zerg/speedforce/internal/provider"
	"github.com/verte-zerg/speedforce/internal/stats"
	"github.com/verte-zerg/speedforce/internal/store"
	"github.com/verte-zerg/speedforce/internal/tui"
	"github.com/verte-zerg/speedforce/internal/wordlist"
)

const defaultCurveWindow = 10

var (
	practiceMode           string
	practiceTime           int
	practiceWords          int
	practiceDifficulty     string
	practiceSource         string
	practiceWordList       string
	practiceCustomTextFile string

	logLevel string

	statsMode   string
	statsSince  string
	statsLast   int
	statsWindow int

	bestReset bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "speedforce",
		Short:         "Timed typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", config.DefaultMode, "test mode: time, words or custom")
	rootCmd.Flags().IntVar(&practiceTime, "time", config.DefaultTime, "seconds per timed test")
	rootCmd.Flags().IntVar(&practiceWords, "words", config.DefaultWords, "words per words-mode test")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", config.DefaultDifficulty, "text difficulty: simple, medium or advanced")
	rootCmd.Flags().StringVar(&practiceSource, "source", config.DefaultSource, "text source: words or quotes")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list file, one word per line")
	rootCmd.Flags().StringVar(&practiceCustomTextFile, "custom-text-file", "", "text file used in custom mode")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBestCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyConfig(cmd, "time", &practiceTime, fileCfg.Practice.Time)
	applyConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyConfig(cmd, "source", &practiceSource, fileCfg.Practice.Source)
	applyConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyConfig(cmd, "custom-text-file", &practiceCustomTextFile, fileCfg.Practice.CustomTextFile)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logFile, log, err := openLogFile()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()

	if _, err := config.LoadEnv(); err != nil {
		return err
	}
	textProvider, err := newTextProvider(fileCfg.Quotes, log)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	machine := engine.New(cfg, textProvider, engine.WithLogger(log.WithField("component", "engine")))
	log.WithFields(logrus.Fields{
		"mode":       cfg.Mode,
		"time":       cfg.TimeLimit,
		"words":      cfg.WordCount,
		"difficulty": cfg.Difficulty,
		"source":     practiceSource,
	}).Info("starting practice")
	return tui.Run(ctx, machine, st, log)
}

func buildConfig() (model.Config, error) {
	mode, err := model.ParseMode(practiceMode)
	if err != nil {
		return model.Config{}, fmt.Errorf("--mode: %w", err)
	}
	difficulty, err := model.ParseDifficulty(practiceDifficulty)
	if err != nil {
		return model.Config{}, fmt.Errorf("--difficulty: %w", err)
	}
	if practiceTime <= 0 {
		return model.Config{}, fmt.Errorf("--time must be > 0")
	}
	if practiceWords <= 0 {
		return model.Config{}, fmt.Errorf("--words must be > 0")
	}
	if practiceSource != config.SourceWords && practiceSource != config.SourceQuotes {
		return model.Config{}, fmt.Errorf("--source must be %q or %q", config.SourceWords, config.SourceQuotes)
	}
	cfg := model.Config{
		Mode:       mode,
		TimeLimit:  practiceTime,
		WordCount:  practiceWords,
		Difficulty: difficulty,
	}
	if practiceCustomTextFile != "" {
		data, err := os.ReadFile(practiceCustomTextFile)
		if err != nil {
			return model.Config{}, fmt.Errorf("failed to read custom text: %w", err)
		}
		cfg.CustomText = strings.Join(strings.Fields(string(data)), " ")
	}
	if mode == model.ModeCustom && cfg.CustomText == "" {
		return model.Config{}, fmt.Errorf("custom mode needs a non-empty --custom-text-file")
	}
	return cfg, nil
}

func newTextProvider(qc config.QuotesConfig, log *logrus.Entry) (engine.TextProvider, error) {
	if practiceSource == config.SourceQuotes {
		opts := provider.QuotesOptions{
			URL:    deref(qc.URL),
			APIKey: os.Getenv(provider.APIKeyEnv),
			Count:  deref(qc.Count),
			Logger: log.WithField("component", "quotes"),
		}
		opts.RatePerSecond = deref(qc.Rate)
		if qc.Timeout != nil {
			opts.Timeout = time.Duration(*qc.Timeout) * time.Second
		}
		if opts.APIKey == "" {
			log.Warnf("%s is not set; local text will be used", provider.APIKeyEnv)
		}
		return provider.NewQuotes(opts), nil
	}

	var custom []string
	if practiceWordList != "" {
		words, err := wordlist.LoadWords(practiceWordList)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", practiceWordList, err)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("word list %s is empty", practiceWordList)
		}
		custom = words
	}
	return provider.NewWords(generator.New(), custom), nil
}

func openLogFile() (*os.File, *logrus.Entry, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return file, logrus.NewEntry(logger), nil
}

func newStderrLogger() (*logrus.Entry, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return logrus.NewEntry(logger), nil
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
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig()
	if err != nil {
		return err
	}
	log, err := newStderrLogger()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	log.WithField("sessions", len(report.Sessions)).Debug("loaded sessions")
	if err := report.Render(cmd.OutOrStdout(), stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func buildStatsConfig() (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: statsLast, CurveWindow: statsWindow}
	if statsMode != "" {
		mode, err := model.ParseMode(statsMode)
		if err != nil {
			return cfg, fmt.Errorf("--mode: %w", err)
		}
		cfg.Mode = mode
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if statsLast < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return cfg, fmt.Errorf("--window must be >= 1")
	}
	return cfg, nil
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show or reset the best WPM",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
	cmd.Flags().BoolVar(&bestReset, "reset", false, "forget the stored best WPM")
	return cmd
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if bestReset {
		if err := st.ResetBest(cmd.Context()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "Best WPM reset.")
		return err
	}
	best, err := st.GetBest(cmd.Context())
	if err != nil {
		return err
	}
	if best == 0 {
		_, err = fmt.Fprintln(out, "No best WPM recorded yet.")
		return err
	}
	_, err = fmt.Fprintf(out, "Best WPM: %d (%s)\n", best, stats.SpeedLevel(best))
	return err
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

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
