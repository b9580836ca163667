package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return s, db
}

func seedMember(t *testing.T, db *sqlite.DB, id, name string, shares int, joined time.Time, status domain.MemberStatus) {
	t.Helper()
	err := db.CreateMember(domain.Member{
		ID: id, Name: name, Shares: shares,
		MonthlyRate: domain.DefaultMonthlyRate,
		JoinedAt:    joined, Status: status,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMemberDashboard(t *testing.T) {
	s, db := newTestService(t)
	if err := db.UpsertPolicy(domain.FinePolicy{GraceMonths: 1, FinePercent: 5}); err != nil {
		t.Fatal(err)
	}
	seedMember(t, db, "m-1", "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.MemberActive)

	d, err := s.MemberDashboard("m-1")
	if err != nil {
		t.Fatalf("MemberDashboard() error: %v", err)
	}
	if d.Member.Name != "Arif" {
		t.Errorf("member name = %s", d.Member.Name)
	}
	if d.Accrual.NetFine != 250 || d.Accrual.OverdueMonths != 2 {
		t.Errorf("accrual = %+v, want net 250 over 2 months", d.Accrual)
	}
}

func TestMemberDashboard_NoPolicyMeansZeroAccrual(t *testing.T) {
	s, db := newTestService(t)
	seedMember(t, db, "m-1", "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.MemberActive)

	d, err := s.MemberDashboard("m-1")
	if err != nil {
		t.Fatalf("MemberDashboard() error: %v", err)
	}
	if d.Accrual.NetFine != 0 || d.Accrual.GrossFine != 0 {
		t.Errorf("accrual = %+v, want zero without a policy", d.Accrual)
	}
}

func TestMemberDashboard_NotFound(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.MemberDashboard("ghost"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestDefaulters(t *testing.T) {
	s, db := newTestService(t)
	if err := db.UpsertPolicy(domain.FinePolicy{GraceMonths: 1, FinePercent: 5}); err != nil {
		t.Fatal(err)
	}
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	seedMember(t, db, "m-1", "Arif", 1, old, domain.MemberActive)       // fine 250
	seedMember(t, db, "m-2", "Babul", 1, recent, domain.MemberActive)   // inside grace
	seedMember(t, db, "m-3", "Chandra", 1, old, domain.MemberInactive)  // excluded by status
	seedMember(t, db, "m-4", "Dolon", 2, old, domain.MemberActive)      // fine 500, two shares

	got, err := s.Defaulters()
	if err != nil {
		t.Fatalf("Defaulters() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("defaulters = %+v, want 2", got)
	}
	byID := map[string]Defaulter{}
	for _, d := range got {
		byID[d.MemberID] = d
	}
	if d := byID["m-1"]; d.NetFine != 250 || d.OverdueMonths != 2 {
		t.Errorf("m-1 = %+v, want 250/2", d)
	}
	if d := byID["m-4"]; d.NetFine != 500 {
		t.Errorf("m-4 net fine = %d, want 500", d.NetFine)
	}
}

func TestDefaulters_WaiverClearsMember(t *testing.T) {
	s, db := newTestService(t)
	if err := db.UpsertPolicy(domain.FinePolicy{GraceMonths: 1, FinePercent: 5}); err != nil {
		t.Fatal(err)
	}
	seedMember(t, db, "m-1", "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.MemberActive)

	err := db.WithTx(context.Background(), func(tx *sqlite.Tx) error {
		return tx.InsertEntry(domain.LedgerEntry{
			ID: "w-1", MemberID: "m-1",
			Kind: domain.KindDeposit, Category: domain.CategoryFineWaiver,
			Amount: 250, Date: time.Now(), RecordedBy: "admin",
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Defaulters()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("defaulters = %+v, want none after full waiver", got)
	}
}

func TestStatement_FiltersByMember(t *testing.T) {
	s, db := newTestService(t)
	seedMember(t, db, "m-1", "Arif", 1, time.Now(), domain.MemberActive)
	err := db.WithTx(context.Background(), func(tx *sqlite.Tx) error {
		entries := []domain.LedgerEntry{
			{ID: "e-1", MemberID: "m-1", Kind: domain.KindDeposit, Category: domain.CategoryMonthlyDeposit, Amount: 1000, Date: time.Now(), RecordedBy: "admin"},
			{ID: "e-2", Kind: domain.KindExpense, Category: "misc", Amount: 300, Date: time.Now(), RecordedBy: "admin"},
		}
		for _, e := range entries {
			if err := tx.InsertEntry(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Statement(sqlite.EntryFilter{MemberID: "m-1"})
	if err != nil {
		t.Fatalf("Statement() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e-1" {
		t.Errorf("statement = %+v, want only e-1", got)
	}
}

func TestTreasury(t *testing.T) {
	s, db := newTestService(t)
	accounts := []domain.TreasuryAccount{
		{ID: "a-1", Name: "Mother", Balance: 60000, IsPrimary: true},
		{ID: "a-2", Name: "Side", Balance: 15000},
	}
	for _, a := range accounts {
		if err := db.CreateAccount(a); err != nil {
			t.Fatal(err)
		}
	}
	err := db.WithTx(context.Background(), func(tx *sqlite.Tx) error {
		tx.ClearPrimaryFlags()
		return tx.SetPrimaryFlag("a-1")
	})
	if err != nil {
		t.Fatal(err)
	}

	ov, err := s.Treasury()
	if err != nil {
		t.Fatalf("Treasury() error: %v", err)
	}
	if ov.Total != 75000 {
		t.Errorf("total = %d, want 75000", ov.Total)
	}
	if len(ov.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(ov.Accounts))
	}
	var primaries int
	for _, a := range ov.Accounts {
		if a.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Errorf("primary accounts = %d, want 1", primaries)
	}
}
