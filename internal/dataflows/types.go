package dataflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one daily price bar.
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	AdjClose  decimal.Decimal `json:"adj_close"`
	Volume    int64           `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewsArticle is one normalized news item regardless of source.
type NewsArticle struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	URL         string            `json:"url"`
	Source      string            `json:"source"`
	PublishedAt time.Time         `json:"published_at"`
	Keywords    []string          `json:"keywords,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FundamentalsSnapshot carries the valuation fields the fundamentals analyst
// reasons over. Missing fields stay zero; the analyst treats zero as unknown.
type FundamentalsSnapshot struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	PERatio       float64   `json:"pe_ratio,omitempty"`
	ForwardPE     float64   `json:"forward_pe,omitempty"`
	EPS           float64   `json:"eps,omitempty"`
	DividendYield float64   `json:"dividend_yield,omitempty"`
	FiftyTwoHigh  float64   `json:"fifty_two_week_high,omitempty"`
	FiftyTwoLow   float64   `json:"fifty_two_week_low,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// InsiderSentiment is Finnhub's monthly aggregate of insider buying pressure.
type InsiderSentiment struct {
	Symbol string          `json:"symbol"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Change int64           `json:"change"`
	MSPR   decimal.Decimal `json:"mspr"`
}

// MarketDataProvider supplies quotes and daily bars. Yahoo Finance is the
// default; Longport serves as the alternate when credentials are configured.
type MarketDataProvider interface {
	Quote(ctx context.Context, symbol string) (*MarketData, error)
	Historical(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error)
}

// NewsProvider supplies company news for a date window.
type NewsProvider interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error)
}

// ValidateSymbol rejects symbols that cannot be a ticker.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts a symbol to its canonical upper-case form.
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// ParseDateString parses the date formats accepted on the CLI.
func ParseDateString(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01/02/2006",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
