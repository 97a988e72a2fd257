package stops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/optrisk/risk"
)

var ErrNotFound = errors.New("trade not found")

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open stops db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply stops schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Track records an open trade.
func (s *SQLite) Track(ctx context.Context, t Trade) error {
	if t.Status == "" {
		t.Status = StatusOpen
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_trades
		(trade_id, underlying, symbol, max_loss, status, opened_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Underlying, t.Symbol, t.MaxLoss, string(t.Status), t.OpenedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("track trade %q: %w", t.TradeID, err)
	}
	return nil
}

// CloseTrade marks a trade closed so it stops contributing hints.
func (s *SQLite) CloseTrade(ctx context.Context, tradeID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tracked_trades
		SET status = ?, closed_at = ?
		WHERE trade_id = ? AND status = ?`,
		string(StatusClosed), at.UTC(), tradeID, string(StatusOpen),
	)
	if err != nil {
		return fmt.Errorf("close trade %q: %w", tradeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("close trade %q: %w", tradeID, ErrNotFound)
	}
	return nil
}

// Get returns a single trade by ID.
func (s *SQLite) Get(ctx context.Context, tradeID string) (Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT trade_id, underlying, symbol, max_loss, status, opened_at, closed_at
		FROM tracked_trades
		WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return Trade{}, err
	}
	return t, nil
}

// ListOpen returns open trades ordered by open time.
func (s *SQLite) ListOpen(ctx context.Context) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, underlying, symbol, max_loss, status, opened_at, closed_at
		FROM tracked_trades
		WHERE status = ?
		ORDER BY opened_at ASC, trade_id ASC`, string(StatusOpen))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MaxLossHints sums the stop-loss amounts of open trades per underlying.
func (s *SQLite) MaxLossHints(ctx context.Context) (risk.MaxLossHints, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT underlying, SUM(max_loss)
		FROM tracked_trades
		WHERE status = ?
		GROUP BY underlying`, string(StatusOpen))
	if err != nil {
		return nil, fmt.Errorf("query max loss hints: %w", err)
	}
	defer rows.Close()

	hints := risk.MaxLossHints{}
	for rows.Next() {
		var (
			underlying string
			amount     float64
		)
		if err := rows.Scan(&underlying, &amount); err != nil {
			return nil, err
		}
		hints[underlying] = amount
	}
	return hints, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (Trade, error) {
	var (
		t        Trade
		status   string
		closedAt sql.NullTime
	)
	if err := row.Scan(
		&t.TradeID,
		&t.Underlying,
		&t.Symbol,
		&t.MaxLoss,
		&status,
		&t.OpenedAt,
		&closedAt,
	); err != nil {
		return Trade{}, err
	}
	t.Status = Status(status)
	if closedAt.Valid {
		ct := closedAt.Time.UTC()
		t.ClosedAt = &ct
	}
	t.OpenedAt = t.OpenedAt.UTC()
	return t, nil
}
