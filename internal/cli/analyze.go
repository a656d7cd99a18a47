package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/debug"
	"github.com/marketmind-ai/marketmind/internal/display"
	"github.com/marketmind-ai/marketmind/internal/graph"
)

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run the decision pipeline for one symbol",
		Long: `Run the full decision pipeline for a stock symbol: analysis fan-out,
bull/bear debate, strategy, both approval gates, and simulated execution.
Example: marketmind analyze AAPL --date=2026-03-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			startDate, _ := cmd.Flags().GetString("start-date")
			return runAnalyze(cmd.Context(), cfg, args[0], startDate, date)
		},
	}

	cmd.Flags().String("date", "", "Analysis date in YYYY-MM-DD format (today if omitted)")
	cmd.Flags().String("start-date", "", "Start of the lookback window in YYYY-MM-DD format")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, symbol, startDate, endDate string) error {
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", endDate); err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD", endDate)
	}
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return fmt.Errorf("invalid start date %q, use YYYY-MM-DD", startDate)
		}
	}

	// The debug plugin must be up before any graph compiles.
	if err := debug.NewGraphDebugger(cfg).Initialize(ctx); err != nil {
		return err
	}

	pipeline, err := graph.NewPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer pipeline.Close()

	state, err := pipeline.Run(ctx, symbol, startDate, endDate)
	if err != nil {
		return err
	}

	display.PrintRunSummary(state)
	return nil
}
