package stops

// Schema is applied on open. Trades stay in the table after close so the
// trade-management side keeps its history; only open rows produce hints.
const Schema = `
CREATE TABLE IF NOT EXISTS tracked_trades (
	trade_id TEXT PRIMARY KEY,
	underlying TEXT NOT NULL,
	symbol TEXT NOT NULL,
	max_loss REAL NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	opened_at DATETIME NOT NULL,
	closed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tracked_trades_open ON tracked_trades(status, underlying);
`
