package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketmind-ai/marketmind/internal/dataflows"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// AnalysisContext is the read-only bundle of market inputs handed to every
// analyst for one run. It is assembled once before the fan-out; analysts never
// mutate it.
type AnalysisContext struct {
	Symbol    string
	StartDate string
	EndDate   string

	Quote        *dataflows.MarketData
	History      []*dataflows.MarketData
	Fundamentals *dataflows.FundamentalsSnapshot
	News         []*dataflows.NewsArticle
	Insider      []*dataflows.InsiderSentiment
	Lessons      []*models.Reflection
}

// Analyst is the capability every analysis agent implements. Slot is the
// stable report key; it never depends on completion order.
type Analyst interface {
	Slot() string
	Analyze(ctx context.Context, actx *AnalysisContext) (*models.AgentReport, error)
}

// PriceSummary renders the recent bars in a compact prompt-friendly table.
func (a *AnalysisContext) PriceSummary(maxBars int) string {
	if len(a.History) == 0 {
		if a.Quote != nil {
			return fmt.Sprintf("Latest quote for %s: close=%s volume=%d",
				a.Symbol, a.Quote.Close.StringFixed(2), a.Quote.Volume)
		}
		return "No price data available."
	}

	bars := a.History
	if maxBars > 0 && len(bars) > maxBars {
		bars = bars[len(bars)-maxBars:]
	}

	var sb strings.Builder
	sb.WriteString("date,open,high,low,close,volume\n")
	for _, bar := range bars {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d\n",
			bar.Date.Format("2006-01-02"),
			bar.Open.StringFixed(2), bar.High.StringFixed(2),
			bar.Low.StringFixed(2), bar.Close.StringFixed(2),
			bar.Volume))
	}
	return sb.String()
}

// NewsDigest renders up to n headlines with sources.
func (a *AnalysisContext) NewsDigest(n int) string {
	if len(a.News) == 0 {
		return "No recent news available."
	}
	items := a.News
	if n > 0 && len(items) > n {
		items = items[:n]
	}

	var sb strings.Builder
	for _, article := range items {
		sb.WriteString(fmt.Sprintf("- [%s] %s (%s)\n",
			article.PublishedAt.Format("2006-01-02"), article.Title, article.Source))
		if article.Content != "" {
			sb.WriteString("  " + truncate(article.Content, 200) + "\n")
		}
	}
	return sb.String()
}

// FundamentalsSummary renders the valuation snapshot.
func (a *AnalysisContext) FundamentalsSummary() string {
	f := a.Fundamentals
	if f == nil {
		return "No fundamentals data available."
	}
	return fmt.Sprintf(
		"Company: %s (%s)\nMarket cap: %.0f\nTrailing P/E: %.2f  Forward P/E: %.2f\nEPS (ttm): %.2f\nDividend yield: %.4f\n52w range: %.2f - %.2f",
		f.CompanyName, f.Exchange, f.MarketCap, f.PERatio, f.ForwardPE,
		f.EPS, f.DividendYield, f.FiftyTwoLow, f.FiftyTwoHigh)
}

// LessonsSummary renders past reflections for the symbol, if any.
func (a *AnalysisContext) LessonsSummary() string {
	if len(a.Lessons) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Lessons from past trades on this symbol:\n")
	for i, r := range a.Lessons {
		for _, lesson := range r.Lessons {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, lesson))
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
