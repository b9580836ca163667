package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Investment Operations ──────────────────────────────────────────────────

const investmentColumns = `id, name, capital_amount, funding_account_id,
	cumulative_profit, status, document_ref, recorded_by, created_at`

func getInvestment(q querier, id string) (domain.Investment, error) {
	row := q.QueryRow(`SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id)
	var inv domain.Investment
	var created string
	err := row.Scan(&inv.ID, &inv.Name, &inv.CapitalAmount, &inv.FundingAccountID,
		&inv.CumulativeProfit, &inv.Status, &inv.DocumentRef, &inv.RecordedBy, &created)
	if err == sql.ErrNoRows {
		return domain.Investment{}, domain.ErrInvestmentNotFound
	}
	if err != nil {
		return domain.Investment{}, fmt.Errorf("scan investment: %w", err)
	}
	inv.CreatedAt = decodeTime(created)
	return inv, nil
}

// Investment retrieves one investment by id.
func (db *DB) Investment(id string) (domain.Investment, error) { return getInvestment(db.db, id) }

// Investment retrieves one investment inside the transaction.
func (tx *Tx) Investment(id string) (domain.Investment, error) { return getInvestment(tx.tx, id) }

// InsertInvestment creates an investment record inside the transaction
// (funding and the capital ledger entry belong to the same unit).
func (tx *Tx) InsertInvestment(inv domain.Investment) error {
	_, err := tx.tx.Exec(`
		INSERT INTO investments (id, name, capital_amount, funding_account_id, cumulative_profit, status, document_ref, recorded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.Name, inv.CapitalAmount, inv.FundingAccountID, inv.CumulativeProfit,
		inv.Status, inv.DocumentRef, inv.RecordedBy)
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

// AdjustProfit moves cumulative_profit by delta (either sign).
func (tx *Tx) AdjustProfit(investmentID string, delta int64) error {
	res, err := tx.tx.Exec(`
		UPDATE investments SET cumulative_profit = cumulative_profit + ? WHERE id = ?
	`, delta, investmentID)
	if err != nil {
		return fmt.Errorf("adjust investment profit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

// SetDocumentRef overwrites the stored document reference.
func (tx *Tx) SetDocumentRef(investmentID, ref string) error {
	res, err := tx.tx.Exec(`UPDATE investments SET document_ref = ? WHERE id = ?`, ref, investmentID)
	if err != nil {
		return fmt.Errorf("set document ref: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

// DeleteInvestment removes the record; liquidation is the only caller.
func (tx *Tx) DeleteInvestment(id string) error {
	res, err := tx.tx.Exec(`DELETE FROM investments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

// Investments lists all investments, newest first.
func (db *DB) Investments() ([]domain.Investment, error) {
	rows, err := db.db.Query(`SELECT ` + investmentColumns + ` FROM investments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []domain.Investment
	for rows.Next() {
		var inv domain.Investment
		var created string
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.CapitalAmount, &inv.FundingAccountID,
			&inv.CumulativeProfit, &inv.Status, &inv.DocumentRef, &inv.RecordedBy, &created); err != nil {
			return nil, err
		}
		inv.CreatedAt = decodeTime(created)
		out = append(out, inv)
	}
	return out, rows.Err()
}
