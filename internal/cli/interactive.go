package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/marketmind-ai/marketmind/config"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// runInteractive loops symbol prompts until the user quits. An interrupt from
// any prompt propagates so the process can exit with the interrupt code.
func runInteractive(ctx context.Context, cfg *config.Config) error {
	fmt.Println("MarketMind interactive mode. Ctrl-C to quit.")
	fmt.Println()

	for {
		symbol, err := promptForSymbol()
		if err != nil {
			return filterInterrupt(err)
		}

		date, err := promptForDate()
		if err != nil {
			return filterInterrupt(err)
		}

		if err := runAnalyze(ctx, cfg, symbol, "", date); err != nil {
			fmt.Printf("analysis failed: %v\n", err)
		}

		again, err := promptForAnother()
		if err != nil {
			return filterInterrupt(err)
		}
		if !again {
			return nil
		}
		fmt.Println()
	}
}

func promptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Stock symbol (e.g. AAPL, MSFT):",
		Help:    "The ticker the pipeline will analyze",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		s := strings.TrimSpace(strings.ToUpper(val.(string)))
		if s == "" {
			return fmt.Errorf("symbol cannot be empty")
		}
		if len(s) > 10 {
			return fmt.Errorf("symbol too long (max 10 characters)")
		}
		if !symbolPattern.MatchString(s) {
			return fmt.Errorf("use letters, numbers, dots, and hyphens only")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToUpper(symbol)), nil
}

func promptForDate() (string, error) {
	var date string
	prompt := &survey.Input{
		Message: "Analysis date (YYYY-MM-DD):",
		Default: time.Now().Format("2006-01-02"),
	}

	err := survey.AskOne(prompt, &date, survey.WithValidator(func(val interface{}) error {
		s := strings.TrimSpace(val.(string))
		if s == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format("2006-01-02")
	}
	return strings.TrimSpace(date), nil
}

func promptForAnother() (bool, error) {
	var again bool
	prompt := &survey.Confirm{
		Message: "Run another analysis?",
		Default: false,
	}
	err := survey.AskOne(prompt, &again)
	return again, err
}

// filterInterrupt keeps Ctrl-C as a distinct error so main can map it to the
// conventional exit code.
func filterInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return terminal.InterruptErr
	}
	return err
}
