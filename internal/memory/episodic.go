package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketmind-ai/marketmind/internal/models"
)

// EpisodicStore is the durable trade log. Rows are append-only; outcome
// updates write the full row again keyed by trade_id.
type EpisodicStore struct {
	db *sql.DB
}

const episodicSchema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id     TEXT PRIMARY KEY,
	symbol       TEXT NOT NULL,
	kind         TEXT NOT NULL,
	entry_date   TIMESTAMP NOT NULL,
	exit_date    TIMESTAMP,
	entry_price  REAL NOT NULL,
	exit_price   REAL,
	quantity     INTEGER NOT NULL,
	realized_pnl REAL,
	return_pct   REAL,
	outcome      TEXT NOT NULL DEFAULT 'pending',
	notes        TEXT,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_outcome ON trades(outcome);

CREATE TABLE IF NOT EXISTS reflections (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id         TEXT NOT NULL,
	symbol           TEXT NOT NULL,
	analysis_summary TEXT,
	what_worked      TEXT,
	what_failed      TEXT,
	lessons          TEXT,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (trade_id) REFERENCES trades(trade_id)
);
CREATE INDEX IF NOT EXISTS idx_reflections_symbol ON reflections(symbol);
`

func NewEpisodicStore(dbPath string) (*EpisodicStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(episodicSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create episodic schema: %w", err)
	}
	return &EpisodicStore{db: db}, nil
}

func (s *EpisodicStore) Close() error {
	return s.db.Close()
}

// RecordTrade inserts or replaces the trade row for outcome.TradeID.
func (s *EpisodicStore) RecordTrade(ctx context.Context, outcome *models.TradeOutcome) error {
	if outcome.TradeID == "" {
		return fmt.Errorf("trade_id is required")
	}
	if outcome.Outcome == "" {
		outcome.Outcome = "pending"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades
			(trade_id, symbol, kind, entry_date, exit_date, entry_price, exit_price,
			 quantity, realized_pnl, return_pct, outcome, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.TradeID, outcome.Symbol, string(outcome.Kind),
		outcome.EntryDate, nullableTime(outcome.ExitDate),
		outcome.EntryPrice, outcome.ExitPrice,
		outcome.Quantity, outcome.RealizedPnL, outcome.ReturnPct,
		outcome.Outcome, outcome.Notes)
	if err != nil {
		return fmt.Errorf("record trade %s: %w", outcome.TradeID, err)
	}
	return nil
}

// RecordReflection appends a post-mortem for a recorded trade.
func (s *EpisodicStore) RecordReflection(ctx context.Context, r *models.Reflection) error {
	if r.TradeID == "" {
		return fmt.Errorf("trade_id is required")
	}

	worked, _ := json.Marshal(r.WhatWorked)
	failed, _ := json.Marshal(r.WhatFailed)
	lessons, _ := json.Marshal(r.Lessons)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reflections (trade_id, symbol, analysis_summary, what_worked, what_failed, lessons)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.TradeID, r.Symbol, r.AnalysisSummary, string(worked), string(failed), string(lessons))
	if err != nil {
		return fmt.Errorf("record reflection for %s: %w", r.TradeID, err)
	}
	return nil
}

// TradesBySymbol returns trades for a symbol, newest first.
func (s *EpisodicStore) TradesBySymbol(ctx context.Context, symbol string, limit int) ([]*models.TradeOutcome, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, symbol, kind, entry_date, exit_date, entry_price, exit_price,
		       quantity, realized_pnl, return_pct, outcome, notes
		FROM trades WHERE symbol = ? ORDER BY entry_date DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query trades for %s: %w", symbol, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// PendingTrades returns trades still awaiting an outcome.
func (s *EpisodicStore) PendingTrades(ctx context.Context) ([]*models.TradeOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, symbol, kind, entry_date, exit_date, entry_price, exit_price,
		       quantity, realized_pnl, return_pct, outcome, notes
		FROM trades WHERE outcome = 'pending' ORDER BY entry_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query pending trades: %w", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// ReflectionsBySymbol returns past lessons for a symbol, newest first.
func (s *EpisodicStore) ReflectionsBySymbol(ctx context.Context, symbol string, limit int) ([]*models.Reflection, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, symbol, analysis_summary, what_worked, what_failed, lessons, created_at
		FROM reflections WHERE symbol = ? ORDER BY created_at DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query reflections for %s: %w", symbol, err)
	}
	defer rows.Close()

	var result []*models.Reflection
	for rows.Next() {
		var r models.Reflection
		var worked, failed, lessons string
		if err := rows.Scan(&r.TradeID, &r.Symbol, &r.AnalysisSummary, &worked, &failed, &lessons, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		_ = json.Unmarshal([]byte(worked), &r.WhatWorked)
		_ = json.Unmarshal([]byte(failed), &r.WhatFailed)
		_ = json.Unmarshal([]byte(lessons), &r.Lessons)
		result = append(result, &r)
	}
	return result, rows.Err()
}

func scanTrades(rows *sql.Rows) ([]*models.TradeOutcome, error) {
	var result []*models.TradeOutcome
	for rows.Next() {
		var t models.TradeOutcome
		var kind string
		var exitDate sql.NullTime
		var exitPrice, pnl, retPct sql.NullFloat64
		var notes sql.NullString
		if err := rows.Scan(&t.TradeID, &t.Symbol, &kind, &t.EntryDate, &exitDate,
			&t.EntryPrice, &exitPrice, &t.Quantity, &pnl, &retPct, &t.Outcome, &notes); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Kind = models.StrategyKind(kind)
		if exitDate.Valid {
			t.ExitDate = exitDate.Time
		}
		if exitPrice.Valid {
			t.ExitPrice = exitPrice.Float64
		}
		if pnl.Valid {
			t.RealizedPnL = pnl.Float64
		}
		if retPct.Valid {
			t.ReturnPct = retPct.Float64
		}
		if notes.Valid {
			t.Notes = notes.String
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
