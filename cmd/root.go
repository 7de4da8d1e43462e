package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"campusched/config"
	"campusched/internal/engine"
	"campusched/internal/logger"
	"campusched/internal/sat"
	"campusched/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "campusched",
	Short: "Weekly timetable generation and disruption recovery",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); built-in defaults when omitted")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openService() (*engine.Service, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, nil, fmt.Errorf("logging level: %w", err)
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	var solver sat.SATSolver
	switch cfg.Solver.Backend {
	case "kissat":
		solver = sat.NewKissatSolver()
	default:
		solver = sat.NewGophersatSolver()
	}

	budget := time.Duration(cfg.Solver.BudgetSeconds) * time.Second
	return engine.NewService(st, solver, budget), st, nil
}
