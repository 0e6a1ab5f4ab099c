package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"watchtag/internal/daemon"
	"watchtag/internal/history"
	"watchtag/internal/logging"
	"watchtag/internal/sweep"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a provider availability sweep now",
		Long: "Runs one full catalog sweep in the foreground: resolves each item's " +
			"TMDB id, fetches watch-provider availability for the configured region, " +
			"applies provider tags, and updates collections.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// Same lock the daemon holds, so a foreground sweep never runs
			// alongside a scheduled one.
			lock := flock.New(daemon.LockPath(cfg))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire sweep lock: %w", err)
			}
			if !locked {
				return errors.New("sweep lock is held (watchtagd running?); trigger a sweep via the daemon API instead")
			}
			defer func() {
				_ = lock.Unlock()
			}()

			bundle, err := buildServices(cfg)
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			stdout := cmd.OutOrStdout()
			interactive := isatty.IsTerminal(os.Stdout.Fd())

			var progress sweep.ProgressFunc
			if interactive && !jsonOutput {
				progress = func(percent float64) {
					fmt.Fprintf(stdout, "\rsweeping... %5.1f%%", percent)
				}
			}

			sweeper, err := sweep.New(sweep.Options{
				Catalog:          bundle.catalog,
				Fetcher:          bundle.fetcher,
				Collections:      bundle.collections,
				Rules:            bundle.rules,
				Kinds:            cfg.Catalog.ItemKinds,
				RemoteConfigured: cfg.SweepConfigured(),
				Logger:           logger,
				Progress:         progress,
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			report, runErr := sweeper.Run(runCtx)
			if progress != nil {
				fmt.Fprintln(stdout)
			}

			if store, err := history.Open(cfg.Paths.LogDir); err == nil {
				if report.RunID != "" {
					if recordErr := store.RecordReport(cmd.Context(), report); recordErr != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: recording sweep run failed: %v\n", recordErr)
					}
				}
				_ = store.Close()
			}

			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
				return runErr
			}

			printReport(cmd, report)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the sweep report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report sweep.Report) {
	duration := report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)
	rows := [][]string{
		{"Run ID", report.RunID},
		{"Status", string(report.Status)},
		{"Duration", duration.String()},
		{"Items", strconv.Itoa(report.ItemsProcessed) + " / " + strconv.Itoa(report.ItemsTotal)},
		{"Tagged", strconv.Itoa(report.ItemsTagged)},
		{"Skipped", strconv.Itoa(report.ItemsSkipped)},
		{"Failed", strconv.Itoa(report.ItemsFailed)},
		{"Tags added", strconv.Itoa(report.TagsAdded)},
		{"Members queued", strconv.Itoa(report.MembersQueued)},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Field", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
}
