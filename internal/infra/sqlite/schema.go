package sqlite

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Society members
		`CREATE TABLE IF NOT EXISTS members (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			phone              TEXT NOT NULL DEFAULT '',
			shares             INTEGER NOT NULL CHECK(shares >= 1),
			monthly_rate       INTEGER NOT NULL DEFAULT 1000,
			joined_at          TEXT NOT NULL,
			lifetime_deposited INTEGER NOT NULL DEFAULT 0,
			status             TEXT NOT NULL DEFAULT 'active',
			created_at         TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_members_status ON members(status)`,

		// Treasury (bank) accounts; at most one row carries is_primary=1,
		// enforced by clear-all-then-set inside the assigning transaction
		`CREATE TABLE IF NOT EXISTS treasury_accounts (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			bank_name      TEXT NOT NULL DEFAULT '',
			account_number TEXT NOT NULL DEFAULT '',
			balance        INTEGER NOT NULL DEFAULT 0,
			is_primary     INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// The transaction log — append-mostly; rows leave only via reversal
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id              TEXT PRIMARY KEY,
			member_id       TEXT,
			kind            TEXT NOT NULL,
			category        TEXT NOT NULL,
			subcategory     TEXT NOT NULL DEFAULT '',
			amount          INTEGER NOT NULL CHECK(amount > 0),
			period_month    INTEGER NOT NULL DEFAULT 0,
			period_year     INTEGER NOT NULL DEFAULT 0,
			entry_date      TEXT NOT NULL,
			account_id      TEXT,
			from_account_id TEXT,
			investment_ref  TEXT,
			recorded_by     TEXT NOT NULL,
			remarks         TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_member ON ledger_entries(member_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_account ON ledger_entries(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_investment ON ledger_entries(investment_ref)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_category ON ledger_entries(category)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_period ON ledger_entries(period_year, period_month)`,

		// Capital projects funded from the treasury
		`CREATE TABLE IF NOT EXISTS investments (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			capital_amount     INTEGER NOT NULL CHECK(capital_amount > 0),
			funding_account_id TEXT NOT NULL,
			cumulative_profit  INTEGER NOT NULL DEFAULT 0,
			status             TEXT NOT NULL DEFAULT 'active',
			document_ref       TEXT NOT NULL DEFAULT '',
			recorded_by        TEXT NOT NULL,
			created_at         TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_status ON investments(status)`,

		// Singleton fine policy (id is always 1)
		`CREATE TABLE IF NOT EXISTS fine_policy (
			id           INTEGER PRIMARY KEY CHECK(id = 1),
			grace_months INTEGER NOT NULL CHECK(grace_months >= 0),
			fine_percent REAL NOT NULL CHECK(fine_percent >= 0),
			updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Bell notifications shown to members after commits
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			member_id  TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			read       INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_member ON notifications(member_id, read)`,
	}
}
