package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"trainload/internal/analysis"
	"trainload/internal/config"
	"trainload/internal/report"
	"trainload/internal/service"
	"trainload/internal/store"
)

// Linker flags
var (
	version = "dev"
	commit  = "none"
)

// app holds state shared by every command once flags are parsed
type app struct {
	configPath string
	verbose    bool
	output     string

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "trainload",
		Short:         "Training load, readiness and workout analysis.",
		Long:          `trainload reads your stored workouts and reports fitness (CTL), fatigue (ATL), form (TSB) and readiness, plus per-workout heart rate zones, elevation and splits.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.trainload/config.json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "output format: text or json")

	root.AddCommand(
		a.initCmd(),
		a.readinessCmd(),
		a.trendCmd(),
		a.workoutsCmd(),
		a.workoutCmd(),
		a.statsCmd(),
		a.weeklyCmd(),
		a.calendarCmd(),
		a.addCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads .env, builds the logger and loads the configuration
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	// init writes the config, so it must not require one
	if cmd.Name() == "init" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if errors.Is(err, config.ErrNoConfig) {
		a.logger.Info("no config file found, using defaults; run `trainload init` to create one")
		cfg, err = config.LoadDefaults()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// settings converts the loaded config for the query service
func (a *app) settings() (service.Settings, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return service.Settings{}, err
	}
	return service.Settings{
		Profile:     a.cfg.Profile(),
		Zones:       a.cfg.HRZones(),
		Options:     a.cfg.AnalysisOptions(),
		Calendar:    analysis.NewCalendar(loc),
		ChartPoints: a.cfg.Analysis.ChartPoints,
	}, nil
}

// openStore opens the configured workout database
func (a *app) openStore() (*store.Store, error) {
	path, err := a.cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opening database", "path", path)
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// withService opens the store, builds the query service and runs fn
func (a *app) withService(fn func(q *service.QueryService) error) error {
	settings, err := a.settings()
	if err != nil {
		return err
	}
	db, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(service.NewQueryService(db, settings, a.logger))
}

// reporter builds a report writer on the command's output
func (a *app) reporter(cmd *cobra.Command) (*report.Writer, error) {
	format, err := report.ParseFormat(a.output)
	if err != nil {
		return nil, err
	}
	return report.NewWriter(cmd.OutOrStdout(), format, report.Units{DistanceUnit: a.cfg.Display.DistanceUnit}), nil
}
