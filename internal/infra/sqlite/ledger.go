package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Ledger Entry Operations ────────────────────────────────────────────────

const entryColumns = `id, member_id, kind, category, subcategory, amount,
	period_month, period_year, entry_date, account_id, from_account_id,
	investment_ref, recorded_by, remarks, created_at`

func insertEntry(q querier, e domain.LedgerEntry) error {
	_, err := q.Exec(`
		INSERT INTO ledger_entries (id, member_id, kind, category, subcategory, amount,
			period_month, period_year, entry_date, account_id, from_account_id,
			investment_ref, recorded_by, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, nullable(e.MemberID), string(e.Kind), e.Category, e.Subcategory, e.Amount,
		e.PeriodMonth, e.PeriodYear, encodeTime(e.Date), nullable(e.AccountID), nullable(e.FromAccountID),
		nullable(e.InvestmentRef), e.RecordedBy, e.Remarks)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// InsertEntry appends an entry inside the transaction.
func (tx *Tx) InsertEntry(e domain.LedgerEntry) error { return insertEntry(tx.tx, e) }

func scanEntryRow(scan func(dest ...any) error) (domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var memberID, accountID, fromAccountID, investmentRef sql.NullString
	var entryDate, created string
	err := scan(&e.ID, &memberID, &e.Kind, &e.Category, &e.Subcategory, &e.Amount,
		&e.PeriodMonth, &e.PeriodYear, &entryDate, &accountID, &fromAccountID,
		&investmentRef, &e.RecordedBy, &e.Remarks, &created)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	e.MemberID = memberID.String
	e.AccountID = accountID.String
	e.FromAccountID = fromAccountID.String
	e.InvestmentRef = investmentRef.String
	e.Date = decodeTime(entryDate)
	e.CreatedAt = decodeTime(created)
	return e, nil
}

func getEntry(q querier, id string) (domain.LedgerEntry, error) {
	row := q.QueryRow(`SELECT `+entryColumns+` FROM ledger_entries WHERE id = ?`, id)
	e, err := scanEntryRow(row.Scan)
	if err == sql.ErrNoRows {
		return domain.LedgerEntry{}, domain.ErrEntryNotFound
	}
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("scan ledger entry: %w", err)
	}
	return e, nil
}

// Entry retrieves one ledger entry by id.
func (db *DB) Entry(id string) (domain.LedgerEntry, error) { return getEntry(db.db, id) }

// Entry retrieves one ledger entry inside the transaction.
func (tx *Tx) Entry(id string) (domain.LedgerEntry, error) { return getEntry(tx.tx, id) }

// DeleteEntry removes an entry row. Only the reversal path calls this.
func (tx *Tx) DeleteEntry(id string) error {
	res, err := tx.tx.Exec(`DELETE FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// ─── Queries ────────────────────────────────────────────────────────────────

// EntryFilter narrows a ledger listing. Zero values mean "any".
type EntryFilter struct {
	MemberID      string
	AccountID     string // matches either side of a transfer
	InvestmentRef string
	Category      string
	Kind          domain.EntryKind
	Limit         int
}

// Entries lists ledger entries newest-first.
func (db *DB) Entries(f EntryFilter) ([]domain.LedgerEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE 1=1`
	var args []any

	if f.MemberID != "" {
		q += ` AND member_id = ?`
		args = append(args, f.MemberID)
	}
	if f.AccountID != "" {
		q += ` AND (account_id = ? OR from_account_id = ?)`
		args = append(args, f.AccountID, f.AccountID)
	}
	if f.InvestmentRef != "" {
		q += ` AND investment_ref = ?`
		args = append(args, f.InvestmentRef)
	}
	if f.Category != "" {
		q += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Kind != "" {
		q += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	q += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntryRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func sumFineReductions(q querier, memberID string) (int64, error) {
	var total sql.NullInt64
	err := q.QueryRow(`
		SELECT SUM(amount) FROM ledger_entries
		WHERE member_id = ? AND category IN (?, ?)
	`, memberID, domain.CategoryFineWaiver, domain.CategoryFinePayment).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum fine reductions: %w", err)
	}
	return total.Int64, nil
}

// SumFineReductions totals a member's fine waivers and fine payments.
func (db *DB) SumFineReductions(memberID string) (int64, error) {
	return sumFineReductions(db.db, memberID)
}

// SumFineReductions totals reductions inside the transaction, so the
// deposit-batch collection path sees entries written earlier in the
// same unit.
func (tx *Tx) SumFineReductions(memberID string) (int64, error) {
	return sumFineReductions(tx.tx, memberID)
}

// SumMonthlyDeposits totals a member's share contributions from the
// ledger itself; reconciliation compares this against the cached
// lifetime_deposited counter.
func (db *DB) SumMonthlyDeposits(memberID string) (int64, error) {
	var total sql.NullInt64
	err := db.db.QueryRow(`
		SELECT SUM(amount) FROM ledger_entries
		WHERE member_id = ? AND category = ?
	`, memberID, domain.CategoryMonthlyDeposit).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum monthly deposits: %w", err)
	}
	return total.Int64, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
