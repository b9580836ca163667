package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Fine Policy Operations ─────────────────────────────────────────────────
// The policy is a singleton row (id=1), upsert-only.

func getPolicy(q querier) (domain.FinePolicy, error) {
	var p domain.FinePolicy
	err := q.QueryRow(`SELECT grace_months, fine_percent FROM fine_policy WHERE id = 1`).
		Scan(&p.GraceMonths, &p.FinePercent)
	if err == sql.ErrNoRows {
		return domain.FinePolicy{}, domain.ErrInvalidPolicy
	}
	if err != nil {
		return domain.FinePolicy{}, fmt.Errorf("scan fine policy: %w", err)
	}
	return p, nil
}

// Policy returns the global fine policy, or ErrInvalidPolicy if unset.
func (db *DB) Policy() (domain.FinePolicy, error) { return getPolicy(db.db) }

// Policy returns the fine policy inside the transaction.
func (tx *Tx) Policy() (domain.FinePolicy, error) { return getPolicy(tx.tx) }

// UpsertPolicy writes the singleton fine policy.
func (db *DB) UpsertPolicy(p domain.FinePolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := db.db.Exec(`
		INSERT INTO fine_policy (id, grace_months, fine_percent, updated_at)
		VALUES (1, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			grace_months = excluded.grace_months,
			fine_percent = excluded.fine_percent,
			updated_at   = datetime('now')
	`, p.GraceMonths, p.FinePercent)
	if err != nil {
		return fmt.Errorf("upsert fine policy: %w", err)
	}
	return nil
}
