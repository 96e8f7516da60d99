package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"uploadsim/internal/aws"
	"uploadsim/internal/config"
	"uploadsim/internal/progress"
	"uploadsim/internal/simulator"
	"uploadsim/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newRunCmd(a *app) *cobra.Command {
	var bucket, prefix string

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Simulate uploads of local files or bucket objects in the terminal",
		Long: "Lists the given files (directories expand to the files they contain) or the objects\n" +
			"of an S3 bucket and animates one progress bar per file until all are complete.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			files, err := collectFiles(ctx, a.cfg.S3, args, bucket, prefix)
			if err != nil {
				return err
			}
			// Log lines would tear the terminal UI apart; keep them only when they go to a file.
			if a.cfg.Log.File == "" {
				a.logger.SetOutput(io.Discard)
			}
			return runTerminal(ctx, a, files, tea.WithOutput(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&bucket, "s3-bucket", "", "list this bucket instead of local paths (default s3.bucket)")
	cmd.Flags().StringVar(&prefix, "s3-prefix", "", "only list keys under this prefix (default s3.prefix)")
	return cmd
}

// collectFiles builds the selection from local paths, or from a bucket when
// no path is given.
func collectFiles(ctx context.Context, s3 config.S3Config, paths []string, bucket, prefix string) ([]progress.File, error) {
	if len(paths) > 0 {
		if bucket != "" {
			return nil, errors.New("use either paths or --s3-bucket, not both")
		}
		return progress.Describe(paths...)
	}

	if bucket == "" {
		bucket = s3.Bucket
	}
	if prefix == "" {
		prefix = s3.Prefix
	}
	if bucket == "" {
		return nil, errors.New("no files given: pass paths or --s3-bucket")
	}

	lister, err := aws.NewLister(s3.Region, s3.AccessKey, s3.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create lister: %w", err)
	}
	return lister.ListFiles(ctx, bucket, prefix)
}

func runTerminal(ctx context.Context, a *app, files []progress.File, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.NewModel(), append(opts, tea.WithContext(ctx))...)
	r := tui.NewRenderer(p.Send)

	sim := simulator.New(nil, r.List(), r.Bars(), append(a.simulatorOptions(), simulator.WithObserver(r.Observe))...)
	defer sim.Close()

	var final tea.Model
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The program ends on completion, on q or ctrl+c, or when ctx is cancelled.
		defer cancel()
		m, err := p.Run()
		final = m
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		sim.Select(files)
		if err := sim.Wait(gctx); err != nil {
			return nil
		}
		r.Done()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Quitting() {
		a.logger.Info("cancelled by user", "files", len(files))
		return nil
	}
	sum := sim.Summary()
	a.logger.Info("simulation finished", "files", sum.Files, "completed", sum.Completed, "bytes", sum.TotalBytes)
	return nil
}
