package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

// Repository handles trade book persistence
// ⭐ SSOT: netting set 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new trade book repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS xva;

	CREATE TABLE IF NOT EXISTS xva.counterparties (
		name          TEXT PRIMARY KEY,
		hazard_rate   DOUBLE PRECISION NOT NULL CHECK (hazard_rate >= 0),
		recovery_rate DOUBLE PRECISION NOT NULL CHECK (recovery_rate >= 0 AND recovery_rate <= 1),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS xva.trades (
		id           BIGSERIAL PRIMARY KEY,
		counterparty TEXT NOT NULL REFERENCES xva.counterparties(name) ON DELETE CASCADE,
		kind         TEXT NOT NULL,
		notional     DOUBLE PRECISION NOT NULL CHECK (notional > 0),
		maturity     DOUBLE PRECISION NOT NULL DEFAULT 0,
		direction    TEXT NOT NULL DEFAULT '',
		strike       DOUBLE PRECISION
	);

	ALTER TABLE xva.trades ALTER COLUMN strike DROP NOT NULL;
	ALTER TABLE xva.trades ALTER COLUMN strike DROP DEFAULT;

	CREATE INDEX IF NOT EXISTS idx_xva_trades_counterparty ON xva.trades(counterparty);
`

// EnsureSchema creates the xva schema and tables if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create trade book schema: %w", err)
	}
	return nil
}

// SaveNettingSet upserts the counterparty and replaces its trades
// horizon은 maturity=0 거래 검증에만 사용 (저장값은 입력 그대로)
func (r *Repository) SaveNettingSet(ctx context.Context, set *NettingSet, horizon float64) error {
	if err := set.Validate(horizon); err != nil {
		return err
	}

	// Begin transaction
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cp := set.Counterparty
	_, err = tx.Exec(ctx, `
		INSERT INTO xva.counterparties (name, hazard_rate, recovery_rate, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE SET
			hazard_rate = EXCLUDED.hazard_rate,
			recovery_rate = EXCLUDED.recovery_rate,
			updated_at = NOW()
	`, cp.Name, cp.HazardRate, cp.RecoveryRate)
	if err != nil {
		return fmt.Errorf("failed to upsert counterparty: %w", err)
	}

	// Replace trades
	if _, err := tx.Exec(ctx, "DELETE FROM xva.trades WHERE counterparty = $1", cp.Name); err != nil {
		return fmt.Errorf("failed to delete old trades: %w", err)
	}

	batch := &pgx.Batch{}
	for _, trade := range set.Trades {
		batch.Queue(`
			INSERT INTO xva.trades (counterparty, kind, notional, maturity, direction, strike)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, cp.Name, trade.Kind, trade.Notional, trade.Maturity, trade.Direction, trade.Strike)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert trades: %w", err)
	}

	// Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadNettingSet retrieves a counterparty and its trades
// strike가 NULL인 거래는 Strike=nil (행사가 생략)
func (r *Repository) LoadNettingSet(ctx context.Context, name string) (*NettingSet, error) {
	set := &NettingSet{Trades: make([]xva.TradeSpec, 0)}

	err := r.pool.QueryRow(ctx, `
		SELECT name, hazard_rate, recovery_rate
		FROM xva.counterparties
		WHERE name = $1
	`, name).Scan(&set.Counterparty.Name, &set.Counterparty.HazardRate, &set.Counterparty.RecoveryRate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparty: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT kind, notional, maturity, direction, strike
		FROM xva.trades
		WHERE counterparty = $1
		ORDER BY id
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trade xva.TradeSpec
		if err := rows.Scan(&trade.Kind, &trade.Notional, &trade.Maturity, &trade.Direction, &trade.Strike); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		set.Trades = append(set.Trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return set, nil
}

// ListNettingSets returns every stored counterparty with its trade count
func (r *Repository) ListNettingSets(ctx context.Context) ([]Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.name, c.hazard_rate, c.recovery_rate, COUNT(t.id)
		FROM xva.counterparties c
		LEFT JOIN xva.trades t ON t.counterparty = c.name
		GROUP BY c.name, c.hazard_rate, c.recovery_rate
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query netting sets: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Name, &s.HazardRate, &s.RecoveryRate, &s.TradeCount); err != nil {
			return nil, fmt.Errorf("failed to scan netting set: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summaries, nil
}

// DeleteNettingSet removes a counterparty and (cascade) its trades
func (r *Repository) DeleteNettingSet(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM xva.counterparties WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("failed to delete netting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
