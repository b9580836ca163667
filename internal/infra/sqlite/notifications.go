package sqlite

import (
	"fmt"
	"time"
)

// ─── Bell Notification Operations ───────────────────────────────────────────
// Rows are written only after a financial commit, never inside one, so a
// notification failure can never roll back money movement.

// Notification is a persisted bell-feed item for one member.
type Notification struct {
	ID        int64     `json:"id"`
	MemberID  string    `json:"member_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// InsertNotification appends a bell notification.
func (db *DB) InsertNotification(memberID, title, body string) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO notifications (member_id, title, body) VALUES (?, ?, ?)
	`, memberID, title, body)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return res.LastInsertId()
}

// Notifications lists a member's notifications, newest first.
func (db *DB) Notifications(memberID string, unreadOnly bool, limit int) ([]Notification, error) {
	q := `SELECT id, member_id, title, body, read, created_at FROM notifications WHERE member_id = ?`
	args := []any{memberID}
	if unreadOnly {
		q += ` AND read = 0`
	}
	q += ` ORDER BY id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var read int
		var created string
		if err := rows.Scan(&n.ID, &n.MemberID, &n.Title, &n.Body, &read, &created); err != nil {
			return nil, err
		}
		n.Read = read == 1
		n.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags one notification as seen.
func (db *DB) MarkNotificationRead(id int64) error {
	_, err := db.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
