package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketmind-ai/marketmind/config"
)

// NewRootCmd builds the marketmind command tree.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "marketmind",
		Short: "MarketMind - multi-agent trade decision pipeline",
		Long: `MarketMind runs a staged multi-agent decision pipeline: concurrent market
analysis, a structured bull/bear debate, strategy synthesis, two approval
gates, and simulated execution.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newReflectCmd(cfg))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("MarketMind v0.1.0")
			fmt.Println("Multi-agent trade decision pipeline")
		},
	}
}
