package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marketmind-ai/marketmind/internal/models"
)

// ProceduralStore keeps the playbooks behind approved trades so the
// strategist can see what already worked. Retrieval is keyed by symbol and
// ordered by reinforcement count, not by similarity search.
type ProceduralStore struct {
	db *sql.DB
}

const proceduralSchema = `
CREATE TABLE IF NOT EXISTS patterns (
	trade_id   TEXT PRIMARY KEY,
	symbol     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	direction  TEXT NOT NULL,
	confidence REAL NOT NULL,
	rationale  TEXT,
	wins       INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_patterns_symbol ON patterns(symbol);
`

func NewProceduralStore(dbPath string) (*ProceduralStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(proceduralSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create procedural schema: %w", err)
	}
	return &ProceduralStore{db: db}, nil
}

func (s *ProceduralStore) Close() error {
	return s.db.Close()
}

// RecordPattern inserts or replaces the playbook keyed by its trade id.
// Replacing keeps the accumulated win count.
func (s *ProceduralStore) RecordPattern(ctx context.Context, p *models.StrategyPattern) error {
	if p.TradeID == "" {
		return fmt.Errorf("trade_id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patterns (trade_id, symbol, kind, direction, confidence, rationale)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_id) DO UPDATE SET
			symbol = excluded.symbol, kind = excluded.kind,
			direction = excluded.direction, confidence = excluded.confidence,
			rationale = excluded.rationale`,
		p.TradeID, p.Symbol, string(p.Kind), string(p.Direction), p.Confidence, p.Rationale)
	if err != nil {
		return fmt.Errorf("record pattern %s: %w", p.TradeID, err)
	}
	return nil
}

// ReinforcePattern bumps the win count after the trade behind the playbook
// closed profitably. An unknown trade id is a silent no-op.
func (s *ProceduralStore) ReinforcePattern(ctx context.Context, tradeID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE patterns SET wins = wins + 1 WHERE trade_id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("reinforce pattern %s: %w", tradeID, err)
	}
	return nil
}

// PatternsBySymbol returns a symbol's playbooks, most reinforced first.
func (s *ProceduralStore) PatternsBySymbol(ctx context.Context, symbol string, limit int) ([]*models.StrategyPattern, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, symbol, kind, direction, confidence, rationale, wins, created_at
		FROM patterns WHERE symbol = ?
		ORDER BY wins DESC, created_at DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query patterns for %s: %w", symbol, err)
	}
	defer rows.Close()

	var result []*models.StrategyPattern
	for rows.Next() {
		var p models.StrategyPattern
		var kind, direction string
		var rationale sql.NullString
		if err := rows.Scan(&p.TradeID, &p.Symbol, &kind, &direction,
			&p.Confidence, &rationale, &p.Wins, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		p.Kind = models.StrategyKind(kind)
		p.Direction = models.TradeDirection(direction)
		if rationale.Valid {
			p.Rationale = rationale.String
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}
