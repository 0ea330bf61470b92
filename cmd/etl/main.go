// Command etl refreshes the football warehouse from the published data feeds.
//
// Usage:
//
//	etl games --season 2023 --season 2024
//	etl players
//	etl rosters --season 2023
//	etl stats --season 2023
//	etl all --season 2023
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridironlabs/warehouse-etl/internal/app"
	"github.com/gridironlabs/warehouse-etl/internal/config"
	"github.com/gridironlabs/warehouse-etl/internal/observability"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
	"github.com/gridironlabs/warehouse-etl/internal/usecase"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "etl",
		Short:         "Football warehouse ETL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(tableCmd("games", "Replace the games table from the schedule feed",
		func(ctx context.Context, application *app.Application, seasons []int) ([]usecase.RunReport, error) {
			report, err := application.Pipeline.UpdateGames(ctx, seasons)
			return []usecase.RunReport{report}, err
		}))
	root.AddCommand(playersCmd())
	root.AddCommand(tableCmd("rosters", "Replace the player_seasons table from the weekly roster feed",
		func(ctx context.Context, application *app.Application, seasons []int) ([]usecase.RunReport, error) {
			report, err := application.Pipeline.UpdateRosters(ctx, seasons)
			return []usecase.RunReport{report}, err
		}))
	root.AddCommand(tableCmd("stats", "Replace the player_game_stats table",
		func(ctx context.Context, application *app.Application, seasons []int) ([]usecase.RunReport, error) {
			report, err := application.Pipeline.UpdateStats(ctx, seasons)
			return []usecase.RunReport{report}, err
		}))
	root.AddCommand(tableCmd("all", "Refresh every warehouse table in dependency order",
		func(ctx context.Context, application *app.Application, seasons []int) ([]usecase.RunReport, error) {
			return application.Pipeline.RunAll(ctx, seasons)
		}))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "etl: %v\n", err)
		os.Exit(1)
	}
}

type runFunc func(ctx context.Context, application *app.Application, seasons []int) ([]usecase.RunReport, error)

func tableCmd(use, short string, run runFunc) *cobra.Command {
	var seasons []int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(seasons, run)
		},
	}
	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Season year (repeatable); defaults to ETL_SEASONS")
	return cmd
}

func playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "Replace the players reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(nil, func(ctx context.Context, application *app.Application, seasons []int) ([]usecase.RunReport, error) {
				report, err := application.Pipeline.UpdatePlayers(ctx)
				return []usecase.RunReport{report}, err
			})
		},
	}
}

func runPipeline(seasons []int, run runFunc) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(seasons) == 0 {
		seasons = cfg.Seasons
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() { _ = stopProfiling() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	reports, err := run(ctx, application, seasons)
	if printErr := printReports(reports); printErr != nil {
		logger.Warn("render run report", "error", printErr)
	}
	if err != nil {
		return err
	}

	for _, report := range reports {
		if batchErr := report.Load.FirstError(); batchErr != nil {
			return fmt.Errorf("table %s had failed batches: %w", report.Table, batchErr)
		}
	}
	return nil
}

func printReports(reports []usecase.RunReport) error {
	if len(reports) == 0 {
		return nil
	}
	out, err := sonic.ConfigDefault.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
