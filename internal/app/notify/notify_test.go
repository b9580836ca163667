package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

type recordingDispatcher struct {
	failFor string
	sent    []string
}

func (d *recordingDispatcher) Notify(_ context.Context, memberID, title, body string) error {
	if memberID == d.failFor {
		return errors.New("delivery refused")
	}
	d.sent = append(d.sent, memberID)
	return nil
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSend_PersistsBellRows(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, nil)

	s.Send(context.Background(), []string{"m-1", "m-2"}, "Deposit recorded", "June recorded.")

	for _, id := range []string{"m-1", "m-2"} {
		rows, err := db.Notifications(id, true, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0].Title != "Deposit recorded" {
			t.Errorf("member %s rows = %+v, want one unread", id, rows)
		}
	}
}

func TestSend_OneFailureDoesNotStopTheRest(t *testing.T) {
	db := newTestDB(t)
	d := &recordingDispatcher{failFor: "m-2"}
	s := NewService(db, d)

	s.Send(context.Background(), []string{"m-1", "m-2", "m-3"}, "Notice", "body")

	if len(d.sent) != 2 || d.sent[0] != "m-1" || d.sent[1] != "m-3" {
		t.Errorf("sent = %v, want m-1 and m-3 despite m-2 failing", d.sent)
	}
	// The bell row still lands even when external delivery fails.
	rows, err := db.Notifications("m-2", true, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("m-2 bell rows = %d, want 1", len(rows))
	}
}
