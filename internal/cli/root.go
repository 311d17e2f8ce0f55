package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"duetoday/internal/config"
	"duetoday/internal/countdown"
	"duetoday/internal/logger"
	"duetoday/internal/metrics"
	"duetoday/internal/notify"
	"duetoday/internal/storage"
	"duetoday/internal/store"
	"duetoday/internal/summary"
	"duetoday/internal/ui"
)

var (
	configPath  string
	dataDir     string
	backend     string
	logLevel    string
	metricsAddr string

	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "duetoday",
		Short: "duetoday - today's tasks with a countdown to each deadline",
		Long: `duetoday keeps a list of tasks due today. Each pending task counts down
to its HH:MM deadline and raises a prompt when time is up. Completion resets
at the start of every new day.`,
		RunE:          runTUI, // Default action is the task list
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <data dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for tasks, config and log")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: file, sqlite, redis or memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics on this address")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	var flagDataDir string
	if flags.Changed("data-dir") {
		flagDataDir = dataDir
	}
	cfg, err := config.Load(config.Path(configPath, flagDataDir))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return cfg, nil
}

func newPlayer(cfg *config.Config) notify.Player {
	switch {
	case !cfg.Sound.Enabled:
		return notify.Silent{}
	case cfg.Sound.Command != "":
		return notify.Command{Line: cfg.Sound.Command}
	default:
		return notify.Bell{W: os.Stderr}
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.Init(cfg.Log.Level, cfg.Log.JSON, logFile)

	medium, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}
	defer medium.Close()
	logger.Info("storage opened", "backend", cfg.Backend)

	m := metrics.New()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, m, logger.With("component", "metrics")); err != nil {
				logger.Error("metrics endpoint stopped", "error", err)
			}
		}()
	}

	app := newApp(medium, m, newPlayer(cfg))
	p := tea.NewProgram(ui.New(app), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info("exiting")
	return nil
}

// newApp wires the components over medium, each logging under its own
// component name.
func newApp(medium storage.Medium, m *metrics.Metrics, player notify.Player) *ui.App {
	persistence := storage.NewStore(medium, logger.With("component", "storage"))
	return &ui.App{
		Persistence: persistence,
		Store:       store.New(persistence, store.WithMetrics(m), store.WithLogger(logger.With("component", "store"))),
		Scheduler:   countdown.NewScheduler(),
		Notifier:    notify.New(player, m, logger.With("component", "notify")),
		Summary:     summary.New(m),
		Metrics:     m,
		Log:         logger.With("component", "ui"),
	}
}
