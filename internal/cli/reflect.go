package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/agents/oversight"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/memory"
	"github.com/marketmind-ai/marketmind/internal/models"
)

func newReflectCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reflect",
		Short: "Close a pending trade and distill lessons from it",
		Long: `Pick one of the pending simulated trades, record how it actually went,
and run the reflective agent over it. The distilled lessons feed back into
future analysis runs for the same symbol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReflect(cmd.Context(), cfg)
		},
	}
}

func runReflect(ctx context.Context, cfg *config.Config) error {
	store, err := memory.NewEpisodicStore(filepath.Join(cfg.DataDir, "episodic.db"))
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	defer store.Close()

	pending, err := store.PendingTrades(ctx)
	if err != nil {
		return fmt.Errorf("list pending trades: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("No pending trades to reflect on.")
		return nil
	}

	trade, err := promptForTrade(pending)
	if err != nil {
		return filterInterrupt(err)
	}

	exitPrice, outcome, err := promptForOutcome(trade)
	if err != nil {
		return filterInterrupt(err)
	}

	closeTrade(trade, exitPrice, outcome)
	if err := store.RecordTrade(ctx, trade); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	fmt.Printf("Trade %s closed: %s, PnL %.2f (%.2f%%)\n",
		trade.TradeID, trade.Outcome, trade.RealizedPnL, trade.ReturnPct*100)

	if trade.Outcome == "win" {
		reinforcePlaybook(ctx, cfg, trade.TradeID)
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("reflection needs a model: %w", err)
	}

	agent := oversight.NewReflectiveAgent(client.DeepThink())
	reflection, err := agent.Reflect(ctx, trade, latestRunArtifact(cfg, trade.Symbol))
	if err != nil {
		return fmt.Errorf("reflect on trade %s: %w", trade.TradeID, err)
	}
	if err := store.RecordReflection(ctx, reflection); err != nil {
		return fmt.Errorf("record reflection: %w", err)
	}

	fmt.Println("\nLessons:")
	if len(reflection.Lessons) == 0 {
		fmt.Println("  (none extracted)")
	}
	for _, lesson := range reflection.Lessons {
		fmt.Printf("  - %s\n", lesson)
	}
	return nil
}

// reinforcePlaybook bumps the win count on the playbook behind a winning
// trade so future strategy runs rank it higher. Failures only warn; the
// reflection itself must still happen.
func reinforcePlaybook(ctx context.Context, cfg *config.Config, tradeID string) {
	playbooks, err := memory.NewProceduralStore(filepath.Join(cfg.DataDir, "procedural.db"))
	if err != nil {
		fmt.Printf("Warning: could not open playbook store: %v\n", err)
		return
	}
	defer playbooks.Close()

	if err := playbooks.ReinforcePattern(ctx, tradeID); err != nil {
		fmt.Printf("Warning: could not reinforce playbook %s: %v\n", tradeID, err)
	}
}

func promptForTrade(pending []*models.TradeOutcome) (*models.TradeOutcome, error) {
	labels := make([]string, len(pending))
	byLabel := make(map[string]*models.TradeOutcome, len(pending))
	for i, trade := range pending {
		label := fmt.Sprintf("%s  %s %d @ %.2f (%s)",
			trade.TradeID, trade.Symbol, trade.Quantity, trade.EntryPrice,
			trade.EntryDate.Format("2006-01-02"))
		labels[i] = label
		byLabel[label] = trade
	}

	var selected string
	prompt := &survey.Select{
		Message: "Which trade closed?",
		Options: labels,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}
	return byLabel[selected], nil
}

func promptForOutcome(trade *models.TradeOutcome) (float64, string, error) {
	var priceStr string
	pricePrompt := &survey.Input{
		Message: fmt.Sprintf("Exit price for %s:", trade.Symbol),
	}
	err := survey.AskOne(pricePrompt, &priceStr, survey.WithValidator(func(val interface{}) error {
		price, err := strconv.ParseFloat(strings.TrimSpace(val.(string)), 64)
		if err != nil || price <= 0 {
			return fmt.Errorf("enter a positive price")
		}
		return nil
	}))
	if err != nil {
		return 0, "", err
	}
	exitPrice, _ := strconv.ParseFloat(strings.TrimSpace(priceStr), 64)

	var outcome string
	outcomePrompt := &survey.Select{
		Message: "Outcome:",
		Options: []string{"win", "loss", "breakeven"},
	}
	if err := survey.AskOne(outcomePrompt, &outcome); err != nil {
		return 0, "", err
	}
	return exitPrice, outcome, nil
}

func closeTrade(trade *models.TradeOutcome, exitPrice float64, outcome string) {
	perShare := exitPrice - trade.EntryPrice
	if trade.Kind == models.StrategyShortEquity {
		perShare = -perShare
	}

	trade.ExitDate = time.Now()
	trade.ExitPrice = exitPrice
	trade.RealizedPnL = perShare * float64(trade.Quantity)
	if cost := trade.EntryPrice * float64(trade.Quantity); cost != 0 {
		trade.ReturnPct = trade.RealizedPnL / cost
	}
	trade.Outcome = outcome
}

// latestRunArtifact loads the most recent persisted run for the symbol so the
// reflective agent sees what the pipeline believed at entry time.
func latestRunArtifact(cfg *config.Config, symbol string) string {
	matches, err := filepath.Glob(filepath.Join(cfg.ResultsDir, symbol, "run_*.json"))
	if err != nil || len(matches) == 0 {
		return "(no run artifact available)"
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		return "(no run artifact available)"
	}

	const maxLen = 8000
	if len(data) > maxLen {
		data = data[:maxLen]
	}
	return string(data)
}
