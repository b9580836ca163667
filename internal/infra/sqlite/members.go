package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Member Operations ──────────────────────────────────────────────────────

const memberColumns = `id, name, phone, shares, monthly_rate, joined_at, lifetime_deposited, status`

func scanMember(row *sql.Row) (domain.Member, error) {
	var m domain.Member
	var joined string
	err := row.Scan(&m.ID, &m.Name, &m.Phone, &m.Shares, &m.MonthlyRate, &joined, &m.LifetimeDeposited, &m.Status)
	if err == sql.ErrNoRows {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("scan member: %w", err)
	}
	m.JoinedAt = decodeTime(joined)
	return m, nil
}

func getMember(q querier, id string) (domain.Member, error) {
	return scanMember(q.QueryRow(`SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
}

// Member retrieves one member by id.
func (db *DB) Member(id string) (domain.Member, error) { return getMember(db.db, id) }

// Member retrieves one member inside the transaction.
func (tx *Tx) Member(id string) (domain.Member, error) { return getMember(tx.tx, id) }

// CreateMember inserts a new member record.
func (db *DB) CreateMember(m domain.Member) error {
	_, err := db.db.Exec(`
		INSERT INTO members (id, name, phone, shares, monthly_rate, joined_at, lifetime_deposited, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Phone, m.Shares, m.MonthlyRate, encodeTime(m.JoinedAt), m.LifetimeDeposited, m.Status)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// UpdateMember applies administrative edits (name, phone, shares, rate,
// status). LifetimeDeposited is engine-owned and not touched here.
func (db *DB) UpdateMember(m domain.Member) error {
	res, err := db.db.Exec(`
		UPDATE members SET name = ?, phone = ?, shares = ?, monthly_rate = ?, status = ?
		WHERE id = ?
	`, m.Name, m.Phone, m.Shares, m.MonthlyRate, m.Status, m.ID)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// Members lists all members, active first, then by name.
func (db *DB) Members() ([]domain.Member, error) {
	rows, err := db.db.Query(`SELECT ` + memberColumns + ` FROM members ORDER BY status, name`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		var joined string
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Shares, &m.MonthlyRate, &joined, &m.LifetimeDeposited, &m.Status); err != nil {
			return nil, err
		}
		m.JoinedAt = decodeTime(joined)
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddLifetimeDeposited moves the cached lifetime-deposit counter.
// Delta may be negative (reversals).
func (tx *Tx) AddLifetimeDeposited(memberID string, delta int64) error {
	res, err := tx.tx.Exec(`
		UPDATE members SET lifetime_deposited = lifetime_deposited + ? WHERE id = ?
	`, delta, memberID)
	if err != nil {
		return fmt.Errorf("adjust lifetime deposited: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// SetLifetimeDeposited overwrites the cache; used only by reconciliation.
func (tx *Tx) SetLifetimeDeposited(memberID string, total int64) error {
	res, err := tx.tx.Exec(`
		UPDATE members SET lifetime_deposited = ? WHERE id = ?
	`, total, memberID)
	if err != nil {
		return fmt.Errorf("set lifetime deposited: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
