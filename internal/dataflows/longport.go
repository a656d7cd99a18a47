package dataflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	lpquote "github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/marketmind-ai/marketmind/config"
)

// LongportClient is the alternate MarketDataProvider for accounts with
// Longport credentials. Daily bars come from the candlestick endpoint.
type LongportClient struct {
	quoteCtx *lpquote.QuoteContext
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := lpquote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

func (lc *LongportClient) Close() {
	if lc.quoteCtx != nil {
		lc.quoteCtx.Close()
	}
}

func (lc *LongportClient) Quote(ctx context.Context, symbol string) (*MarketData, error) {
	bars, err := lc.dailySticks(ctx, symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	return bars[len(bars)-1], nil
}

func (lc *LongportClient) Historical(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error) {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	bars, err := lc.dailySticks(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	result := make([]*MarketData, 0, len(bars))
	for _, bar := range bars {
		if bar.Date.Before(start) || bar.Date.After(end) {
			continue
		}
		result = append(result, bar)
	}
	return result, nil
}

func (lc *LongportClient) dailySticks(ctx context.Context, symbol string, count int) ([]*MarketData, error) {
	if lc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	sticks, err := lc.quoteCtx.Candlesticks(ctx, symbol, lpquote.PeriodDay, int32(count), lpquote.AdjustTypeNo)
	if err != nil {
		return nil, fmt.Errorf("get candlesticks for %s: %w", symbol, err)
	}

	result := make([]*MarketData, 0, len(sticks))
	for _, stick := range sticks {
		open, _ := stick.Open.Float64()
		high, _ := stick.High.Float64()
		low, _ := stick.Low.Float64()
		closePx, _ := stick.Close.Float64()

		result = append(result, &MarketData{
			Symbol:    symbol,
			Date:      time.Unix(stick.Timestamp, 0),
			Open:      decimal.NewFromFloat(open),
			High:      decimal.NewFromFloat(high),
			Low:       decimal.NewFromFloat(low),
			Close:     decimal.NewFromFloat(closePx),
			AdjClose:  decimal.NewFromFloat(closePx),
			Volume:    stick.Volume,
			Timestamp: time.Now(),
		})
	}
	return result, nil
}
