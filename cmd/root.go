package main

import (
	"context"
	"fmt"
	"os"

	"uploadsim/internal/config"
	"uploadsim/internal/logger"
	"uploadsim/internal/simulator"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app is the state shared by all commands once the root pre-run loaded it
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *log.Logger
	closeLog func() error
}

// execute runs the command line and always releases the log file, also when
// the command failed.
func execute(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close log: %w", cerr)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "uploadsim",
		Short:         "Select files and watch simulated uploads progress",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(a)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./uploadsim.{toml,yaml,json})")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(newGUICmd(a), newRunCmd(a), newServeCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	l, closeFn, err := logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = l
	a.closeLog = closeFn
	cmd.SetContext(log.WithContext(cmd.Context(), l))
	return nil
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	closeFn := a.closeLog
	a.closeLog = nil
	return closeFn()
}

// simulatorOptions translates the simulation settings
func (a *app) simulatorOptions() []simulator.Option {
	return []simulator.Option{
		simulator.WithInterval(a.cfg.Simulation.Interval),
		simulator.WithIncrement(a.cfg.Simulation.Increment),
		simulator.WithClamp(a.cfg.Simulation.Clamp),
		simulator.WithLogger(a.logger),
	}
}
