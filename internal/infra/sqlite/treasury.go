package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Treasury Account Operations ────────────────────────────────────────────

const accountColumns = `id, name, bank_name, account_number, balance, is_primary, created_at`

func scanAccount(row *sql.Row, missing error) (domain.TreasuryAccount, error) {
	var a domain.TreasuryAccount
	var primary int
	var created string
	err := row.Scan(&a.ID, &a.Name, &a.BankName, &a.AccountNumber, &a.Balance, &primary, &created)
	if err == sql.ErrNoRows {
		return domain.TreasuryAccount{}, missing
	}
	if err != nil {
		return domain.TreasuryAccount{}, fmt.Errorf("scan account: %w", err)
	}
	a.IsPrimary = primary == 1
	a.CreatedAt = decodeTime(created)
	return a, nil
}

func getAccount(q querier, id string) (domain.TreasuryAccount, error) {
	return scanAccount(q.QueryRow(`SELECT `+accountColumns+` FROM treasury_accounts WHERE id = ?`, id),
		domain.ErrAccountNotFound)
}

func getPrimaryAccount(q querier) (domain.TreasuryAccount, error) {
	return scanAccount(q.QueryRow(`SELECT `+accountColumns+` FROM treasury_accounts WHERE is_primary = 1`),
		domain.ErrNoPrimaryAccount)
}

// Account retrieves one treasury account by id.
func (db *DB) Account(id string) (domain.TreasuryAccount, error) { return getAccount(db.db, id) }

// Account retrieves one treasury account inside the transaction.
func (tx *Tx) Account(id string) (domain.TreasuryAccount, error) { return getAccount(tx.tx, id) }

// PrimaryAccount returns the account flagged as the collection target.
func (db *DB) PrimaryAccount() (domain.TreasuryAccount, error) { return getPrimaryAccount(db.db) }

// PrimaryAccount returns the collection target inside the transaction.
func (tx *Tx) PrimaryAccount() (domain.TreasuryAccount, error) { return getPrimaryAccount(tx.tx) }

func createAccount(q querier, a domain.TreasuryAccount) error {
	primary := 0
	if a.IsPrimary {
		primary = 1
	}
	_, err := q.Exec(`
		INSERT INTO treasury_accounts (id, name, bank_name, account_number, balance, is_primary)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.BankName, a.AccountNumber, a.Balance, primary)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// CreateAccount inserts a new treasury account.
func (db *DB) CreateAccount(a domain.TreasuryAccount) error { return createAccount(db.db, a) }

// CreateAccount inserts an account inside the transaction, so creation
// and primary-flag assignment can share one atomic unit.
func (tx *Tx) CreateAccount(a domain.TreasuryAccount) error { return createAccount(tx.tx, a) }

// Accounts lists all treasury accounts, primary first.
func (db *DB) Accounts() ([]domain.TreasuryAccount, error) {
	rows, err := db.db.Query(`SELECT ` + accountColumns + ` FROM treasury_accounts ORDER BY is_primary DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.TreasuryAccount
	for rows.Next() {
		var a domain.TreasuryAccount
		var primary int
		var created string
		if err := rows.Scan(&a.ID, &a.Name, &a.BankName, &a.AccountNumber, &a.Balance, &primary, &created); err != nil {
			return nil, err
		}
		a.IsPrimary = primary == 1
		a.CreatedAt = decodeTime(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

// AdjustBalance moves an account balance by delta (either sign).
func (tx *Tx) AdjustBalance(accountID string, delta int64) error {
	res, err := tx.tx.Exec(`
		UPDATE treasury_accounts SET balance = balance + ? WHERE id = ?
	`, delta, accountID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ClearPrimaryFlags drops the primary flag everywhere. Paired with
// SetPrimaryFlag inside one transaction so the flag stays unique.
func (tx *Tx) ClearPrimaryFlags() error {
	_, err := tx.tx.Exec(`UPDATE treasury_accounts SET is_primary = 0 WHERE is_primary = 1`)
	if err != nil {
		return fmt.Errorf("clear primary flags: %w", err)
	}
	return nil
}

// SetPrimaryFlag marks one account as the collection target.
func (tx *Tx) SetPrimaryFlag(accountID string) error {
	res, err := tx.tx.Exec(`UPDATE treasury_accounts SET is_primary = 1 WHERE id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("set primary flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
