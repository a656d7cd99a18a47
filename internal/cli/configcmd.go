package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marketmind-ai/marketmind/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the persisted configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return err
			}
			cfg := manager.Get()
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the configuration file lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return err
			}
			fmt.Println(manager.Path())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Update one configuration value",
		Long: `Update one configuration value by its JSON key, for example:
  marketmind config set max_debate_rounds 5
  marketmind config set executor_enabled true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return err
			}

			cfg := manager.Get()
			if err := applyConfigKey(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := manager.Update(cfg); err != nil {
				return fmt.Errorf("update config: %w", err)
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return configCmd
}

func applyConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "llm_provider":
		cfg.LLMProvider = value
	case "deep_think_model":
		cfg.DeepThinkModel = value
	case "quick_think_model":
		cfg.QuickThinkModel = value
	case "executor_endpoint":
		cfg.ExecutorEndpoint = value

	case "max_debate_rounds":
		return setInt(&cfg.MaxDebateRounds, key, value)
	case "news_lookback_days":
		return setInt(&cfg.NewsLookbackDays, key, value)
	case "executor_timeout_seconds":
		return setInt(&cfg.ExecutorTimeoutSeconds, key, value)
	case "eino_debug_port":
		return setInt(&cfg.EinoDebugPort, key, value)

	case "portfolio_value":
		return setFloat(&cfg.PortfolioValue, key, value)
	case "min_position_size":
		return setFloat(&cfg.MinPositionSize, key, value)
	case "max_position_size":
		return setFloat(&cfg.MaxPositionSize, key, value)
	case "max_portfolio_risk":
		return setFloat(&cfg.MaxPortfolioRisk, key, value)
	case "max_sector_concentration":
		return setFloat(&cfg.MaxSectorConcentration, key, value)

	case "concurrent_analysis":
		return setBool(&cfg.ConcurrentAnalysis, key, value)
	case "executor_enabled":
		return setBool(&cfg.ExecutorEnabled, key, value)
	case "cache_enabled":
		return setBool(&cfg.CacheEnabled, key, value)
	case "eino_debug_enabled":
		return setBool(&cfg.EinoDebugEnabled, key, value)
	case "debug":
		return setBool(&cfg.Debug, key, value)

	default:
		return fmt.Errorf("unknown or read-only key %q", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s expects an integer: %w", key, err)
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s expects a number: %w", key, err)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s expects true or false: %w", key, err)
	}
	*dst = v
	return nil
}
