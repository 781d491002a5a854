package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/events"
	"github.com/huangsam/skillspot/internal/source"
	"github.com/spf13/cobra"
)

// loadCmd ingests a directory of CSV files into the source database.
var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Load CSV posting data into the source database.",
	Long: `Read a directory of CSV files and replace the dataset in the source database.

Expected files (missing optional files are skipped):
  postings.csv            - one row per job posting (required)
  job_skills.csv          - posting to skill abbreviation pairs
  skills.csv              - skill abbreviations and names
  salaries.csv            - salary ranges and pay periods
  companies.csv           - company profiles
  company_industries.csv  - company to industry pairs
  employee_counts.csv     - employee and follower history
  demand_gaps.csv         - external demand gap per skill

Every load gets a new data version, so cached results of the previous load
are never served again. When --nats-url is set, a reload event is published
so running 'skillspot watch' or 'skillspot mcp' processes drop their caches.

Examples:
  # Load into the default SQLite database
  skillspot load ./data

  # Load into PostgreSQL and notify watchers
  skillspot load ./data --source-backend postgresql \
    --source-db-connect "host=localhost dbname=skillspot" --nats-url nats://localhost:4222`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return resolveConfig(nil)
	},
	Run: func(cmd *cobra.Command, args []string) {
		dir := cfg.DataDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			contract.LogFatal("Cannot load data", errors.New("a data directory is required"))
		}
		publish, _ := cmd.Flags().GetBool("publish")
		if err := runLoad(rootCtx, dir, publish); err != nil {
			contract.LogFatal("Cannot load data", err)
		}
	},
}

func runLoad(ctx context.Context, dir string, publish bool) error {
	d, err := source.LoadDir(dir)
	if err != nil {
		return err
	}

	src, err := source.Open(cfg.SourceBackend, cfg.SourceDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	version, err := src.Replace(ctx, d)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d postings, %d companies and %d skills into %s (version %s).\n",
		len(d.Jobs), len(d.Companies), len(d.Skills), cfg.SourceBackend, version)

	if !publish || cfg.NATSURL == "" {
		return nil
	}
	nc, err := events.Connect(cfg.NATSURL, "skillspot-load")
	if err != nil {
		return err
	}
	defer nc.Close()
	if err := events.NewPublisher(nc, cfg.ReloadSubject).PublishReload(ctx, version, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Published reload event on %s.\n", cfg.ReloadSubject)
	return nil
}

// watchCmd keeps the result cache in step with dataset loads.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Clear the result cache whenever a dataset reload is announced.",
	Long: `Subscribe to --reload-subject on the NATS server at --nats-url and clear the
result cache each time a 'skillspot load' announces a new dataset version.

Runs until interrupted.

Examples:
  skillspot watch --nats-url nats://localhost:4222 --cache-backend redis \
    --cache-db-connect redis://localhost:6379/0`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.NATSURL == "" {
			contract.LogFatal("Cannot watch for reloads", errors.New("--nats-url is required"))
		}
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watchReloads(ctx, func(e events.ReloadEvent) {
			fmt.Printf("Dataset reloaded (version %s). Cache cleared.\n", e.Version)
		}); err != nil {
			contract.LogFatal("Cannot watch for reloads", err)
		}
	},
}

// watchReloads invalidates the engine on every reload event until ctx is done.
func watchReloads(ctx context.Context, onReload func(events.ReloadEvent)) error {
	nc, err := events.Connect(cfg.NATSURL, "skillspot-watch")
	if err != nil {
		return err
	}
	defer nc.Close()
	return events.NewSubscriber(engine, contract.Logger(), onReload).Watch(ctx, nc, cfg.ReloadSubject)
}
