package commands

import (
	"context"
	"log/slog"
	"time"

	"scrape-etl/cmd/scrape-etl/config"
	"scrape-etl/cmd/scrape-etl/globals"
	"scrape-etl/lib/etl"
	"scrape-etl/lib/telemetry"
	"scrape-etl/lib/util/serviceutil"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	tel        telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:               "scrape-etl",
	Short:             "scrape-etl runs small scrape, transform and load pipelines.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "etl.json5", "Config file, merged with <name>.local.json5 when present.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level.")
}

func setup(cmd *cobra.Command, args []string) error {
	telemetry.InitSlog(verbose)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tel, err = telemetry.Setup(ctx, "scrape-etl", cfg.Telemetry)
	if err != nil {
		return err
	}

	opts, err := cfg.Http.FetcherOptions()
	if err != nil {
		return err
	}
	fetcher, err := etl.NewFetcher(opts)
	if err != nil {
		return err
	}

	runId := uuid.NewString()
	slog.SetDefault(slog.Default().With("run_id", runId))
	slog.DebugContext(ctx, "starting run", "command", cmd.Name(), "config", configPath)

	cmd.SetContext(globals.Set(ctx, &globals.Value{
		RunId:    runId,
		Config:   cfg,
		Fetcher:  fetcher,
		Progress: etl.NewProgressLogger(cfg.LogFile),
	}))
	return nil
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	telemetry.RecordPerfStats(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}

	if err != nil {
		serviceutil.Fatal("run failed", err)
	}
}
