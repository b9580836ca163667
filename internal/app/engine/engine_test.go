package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

var ctx = context.Background()

// newTestEngine pins the clock to 2024-06-01 so accrual results are
// deterministic.
func newTestEngine(t *testing.T) (*Engine, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	e := New(db, nil, nil)
	e.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return e, db
}

func seedPrimary(t *testing.T, e *Engine, opening int64) domain.TreasuryAccount {
	t.Helper()
	acct, err := e.CreateAccount(ctx, CreateAccountRequest{Name: "Mother Account", OpeningAmount: opening, Primary: true})
	if err != nil {
		t.Fatalf("seed primary account: %v", err)
	}
	return *acct
}

func seedMember(t *testing.T, e *Engine, name string, shares int, joined time.Time) domain.Member {
	t.Helper()
	m, err := e.CreateMember(ctx, CreateMemberRequest{Name: name, Shares: shares, JoinedAt: joined})
	if err != nil {
		t.Fatalf("seed member %s: %v", name, err)
	}
	return *m
}

func countEntries(t *testing.T, db *sqlite.DB) int {
	t.Helper()
	entries, err := db.Entries(sqlite.EntryFilter{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	return len(entries)
}

// checkBalanceInvariant asserts balance == Σ(signed entries) for every
// account.
func checkBalanceInvariant(t *testing.T, db *sqlite.DB) {
	t.Helper()
	accounts, err := db.Accounts()
	if err != nil {
		t.Fatal(err)
	}
	entries, err := db.Entries(sqlite.EntryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range accounts {
		var sum int64
		for _, e := range entries {
			sum += e.SignedEffect(a.ID)
		}
		// Opening amounts are not ledger entries; subtract them out by
		// comparing deltas only when the account started at zero.
		if a.Balance-openingOf(a) != sum {
			t.Errorf("account %s: balance %d (opening %d) != entry sum %d", a.Name, a.Balance, openingOf(a), sum)
		}
	}
}

// openingOf reports the balance an account was created with. Tests
// encode it in the name to keep the helper trivial.
func openingOf(a domain.TreasuryAccount) int64 {
	if v, ok := testOpenings[a.Name]; ok {
		return v
	}
	return 0
}

var testOpenings = map[string]int64{}

func seedAccountWithOpening(t *testing.T, e *Engine, name string, opening int64) domain.TreasuryAccount {
	t.Helper()
	acct, err := e.CreateAccount(ctx, CreateAccountRequest{Name: name, OpeningAmount: opening})
	if err != nil {
		t.Fatal(err)
	}
	testOpenings[name] = opening
	t.Cleanup(func() { delete(testOpenings, name) })
	return *acct
}

// ─── Deposit Batch ──────────────────────────────────────────────────────────

func TestProcessDepositBatch_ThreeMembersTwoShares(t *testing.T) {
	e, db := newTestEngine(t)
	primary := seedPrimary(t, e, 0)
	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{
		seedMember(t, e, "Arif", 2, joined).ID,
		seedMember(t, e, "Babul", 2, joined).ID,
		seedMember(t, e, "Chandra", 2, joined).ID,
	}

	res, err := e.ProcessDepositBatch(ctx, "admin", ids, domain.Period{Month: 6, Year: 2024}, nil)
	if err != nil {
		t.Fatalf("ProcessDepositBatch() error: %v", err)
	}

	if res.ShareTotal != 6000 || res.FineTotal != 0 || res.Members != 3 {
		t.Errorf("result = %+v, want share total 6000 from 3 members", res)
	}
	acct, _ := db.Account(primary.ID)
	if acct.Balance != 6000 {
		t.Errorf("primary balance = %d, want 6000", acct.Balance)
	}
	for _, id := range ids {
		m, _ := db.Member(id)
		if m.LifetimeDeposited != 2000 {
			t.Errorf("member %s lifetime = %d, want 2000", m.Name, m.LifetimeDeposited)
		}
	}
	checkBalanceInvariant(t, db)
}

func TestProcessDepositBatch_FinePayerCollectsNetAccrual(t *testing.T) {
	e, db := newTestEngine(t)
	primary := seedPrimary(t, e, 0)
	if err := e.SetFinePolicy(ctx, domain.FinePolicy{GraceMonths: 1, FinePercent: 5}); err != nil {
		t.Fatal(err)
	}
	// Joined 2024-01-01, evaluated 2024-06-01: net fine 250 for a
	// one-share member (Feb weight 3 + Mar weight 2, rate 50).
	m := seedMember(t, e, "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	res, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, map[string]bool{m.ID: true})
	if err != nil {
		t.Fatalf("ProcessDepositBatch() error: %v", err)
	}

	if res.FineTotal != 250 {
		t.Errorf("fine total = %d, want 250", res.FineTotal)
	}
	if res.FineCollected[m.ID] != 250 {
		t.Errorf("fine collected = %d, want 250", res.FineCollected[m.ID])
	}

	acct, _ := db.Account(primary.ID)
	if acct.Balance != 1250 {
		t.Errorf("primary balance = %d, want 1000 share + 250 fine", acct.Balance)
	}

	// Fine money must not inflate the share counter.
	got, _ := db.Member(m.ID)
	if got.LifetimeDeposited != 1000 {
		t.Errorf("lifetime = %d, want 1000 (shares only)", got.LifetimeDeposited)
	}

	fines, _ := db.Entries(sqlite.EntryFilter{MemberID: m.ID, Category: domain.CategoryFinePayment})
	if len(fines) != 1 || fines[0].Amount != 250 {
		t.Errorf("fine entries = %+v, want one of 250", fines)
	}
	checkBalanceInvariant(t, db)
}

func TestProcessDepositBatch_FineNotCollectedTwice(t *testing.T) {
	e, db := newTestEngine(t)
	seedPrimary(t, e, 0)
	e.SetFinePolicy(ctx, domain.FinePolicy{GraceMonths: 1, FinePercent: 5})
	m := seedMember(t, e, "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	payers := map[string]bool{m.ID: true}

	if _, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, payers); err != nil {
		t.Fatal(err)
	}
	// The payment is now a reduction; recomputing at the same instant
	// yields net zero, so a second batch takes no fine.
	res, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 7, Year: 2024}, payers)
	if err != nil {
		t.Fatal(err)
	}
	if res.FineTotal != 0 {
		t.Errorf("second batch fine total = %d, want 0", res.FineTotal)
	}

	fines, _ := db.Entries(sqlite.EntryFilter{MemberID: m.ID, Category: domain.CategoryFinePayment})
	if len(fines) != 1 {
		t.Errorf("fine payment entries = %d, want 1", len(fines))
	}
}

func TestProcessDepositBatch_NoPrimaryAborts(t *testing.T) {
	e, db := newTestEngine(t)
	m := seedMember(t, e, "Arif", 1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	_, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, nil)
	if !errors.Is(err, domain.ErrNoPrimaryAccount) {
		t.Fatalf("err = %v, want ErrNoPrimaryAccount", err)
	}

	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0 after abort", n)
	}
	got, _ := db.Member(m.ID)
	if got.LifetimeDeposited != 0 {
		t.Errorf("lifetime = %d, want 0 after abort", got.LifetimeDeposited)
	}
}

func TestProcessDepositBatch_MissingMemberAbortsWholeBatch(t *testing.T) {
	e, db := newTestEngine(t)
	primary := seedPrimary(t, e, 0)
	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a := seedMember(t, e, "Arif", 2, joined)
	b := seedMember(t, e, "Babul", 2, joined)

	_, err := e.ProcessDepositBatch(ctx, "admin", []string{a.ID, b.ID, "ghost"}, domain.Period{Month: 6, Year: 2024}, nil)
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}

	// Nothing from the first two members may survive.
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
	acct, _ := db.Account(primary.ID)
	if acct.Balance != 0 {
		t.Errorf("balance = %d, want 0", acct.Balance)
	}
	m, _ := db.Member(a.ID)
	if m.LifetimeDeposited != 0 {
		t.Errorf("lifetime = %d, want 0", m.LifetimeDeposited)
	}
}

func TestProcessDepositBatch_FinePayerWithoutPolicyAborts(t *testing.T) {
	e, db := newTestEngine(t)
	seedPrimary(t, e, 0)
	m := seedMember(t, e, "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, map[string]bool{m.ID: true})
	if !errors.Is(err, domain.ErrInvalidPolicy) {
		t.Fatalf("err = %v, want ErrInvalidPolicy", err)
	}
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0 after abort", n)
	}
}

func TestProcessDepositBatch_Validation(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.ProcessDepositBatch(ctx, "", []string{"x"}, domain.Period{Month: 6, Year: 2024}, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing actor: err = %v, want ErrValidation", err)
	}
	if _, err := e.ProcessDepositBatch(ctx, "admin", nil, domain.Period{Month: 6, Year: 2024}, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty batch: err = %v, want ErrValidation", err)
	}
	if _, err := e.ProcessDepositBatch(ctx, "admin", []string{"x"}, domain.Period{Month: 13, Year: 2024}, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad period: err = %v, want ErrValidation", err)
	}
}

// ─── Fine Waivers ───────────────────────────────────────────────────────────

func TestAddFineWaiver_ReducesNetWithoutTouchingBalances(t *testing.T) {
	e, db := newTestEngine(t)
	primary := seedPrimary(t, e, 0)
	e.SetFinePolicy(ctx, domain.FinePolicy{GraceMonths: 1, FinePercent: 5})
	m := seedMember(t, e, "Arif", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if err := e.AddFineWaiver(ctx, "admin", m.ID, 100, "hardship"); err != nil {
		t.Fatalf("AddFineWaiver() error: %v", err)
	}

	acct, _ := db.Account(primary.ID)
	if acct.Balance != 0 {
		t.Errorf("balance = %d, want 0; waivers never move money", acct.Balance)
	}

	// Net fine drops from 250 to 150, so the next batch collects 150.
	res, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, map[string]bool{m.ID: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.FineTotal != 150 {
		t.Errorf("fine total = %d, want 150 after 100 waiver", res.FineTotal)
	}
	checkBalanceInvariant(t, db)
}

// ─── Expenses ───────────────────────────────────────────────────────────────

func TestAddExpense(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 5000)

	err := e.AddExpense(ctx, "admin", ExpenseRequest{AccountID: acct.ID, Amount: 1200, Category: "office_rent"})
	if err != nil {
		t.Fatalf("AddExpense() error: %v", err)
	}

	got, _ := db.Account(acct.ID)
	if got.Balance != 3800 {
		t.Errorf("balance = %d, want 3800", got.Balance)
	}
	checkBalanceInvariant(t, db)
}

func TestAddExpense_MayGoNegative(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 100)

	if err := e.AddExpense(ctx, "admin", ExpenseRequest{AccountID: acct.ID, Amount: 500, Category: "repair"}); err != nil {
		t.Fatalf("AddExpense() error: %v", err)
	}
	got, _ := db.Account(acct.ID)
	if got.Balance != -400 {
		t.Errorf("balance = %d, want -400 (no floor check)", got.Balance)
	}
}

func TestAddExpense_MissingAccount(t *testing.T) {
	e, db := newTestEngine(t)
	err := e.AddExpense(ctx, "admin", ExpenseRequest{AccountID: "ghost", Amount: 100, Category: "misc"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

// ─── Transfers ──────────────────────────────────────────────────────────────

func TestTransferBalance(t *testing.T) {
	e, db := newTestEngine(t)
	src := seedAccountWithOpening(t, e, "Source", 5000)
	dst := seedAccountWithOpening(t, e, "Destination", 0)

	if err := e.TransferBalance(ctx, "admin", src.ID, dst.ID, 3000, "rebalance"); err != nil {
		t.Fatalf("TransferBalance() error: %v", err)
	}

	s, _ := db.Account(src.ID)
	d, _ := db.Account(dst.ID)
	if s.Balance != 2000 || d.Balance != 3000 {
		t.Errorf("balances = %d/%d, want 2000/3000", s.Balance, d.Balance)
	}

	entries, _ := db.Entries(sqlite.EntryFilter{Kind: domain.KindTransfer})
	if len(entries) != 1 {
		t.Fatalf("transfer entries = %d, want exactly 1 for the double movement", len(entries))
	}
	if entries[0].AccountID != dst.ID || entries[0].FromAccountID != src.ID {
		t.Errorf("entry refs = %s/%s, want linked to destination with source ref", entries[0].AccountID, entries[0].FromAccountID)
	}
	checkBalanceInvariant(t, db)
}

func TestTransferBalance_InsufficientFunds(t *testing.T) {
	e, db := newTestEngine(t)
	src := seedAccountWithOpening(t, e, "Source", 100)
	dst := seedAccountWithOpening(t, e, "Destination", 0)

	err := e.TransferBalance(ctx, "admin", src.ID, dst.ID, 500, "")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	s, _ := db.Account(src.ID)
	d, _ := db.Account(dst.ID)
	if s.Balance != 100 || d.Balance != 0 {
		t.Errorf("balances changed on failed transfer: %d/%d", s.Balance, d.Balance)
	}
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestTransferBalance_SameAccountRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.TransferBalance(ctx, "admin", "a", "a", 100, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

// ─── Investments ────────────────────────────────────────────────────────────

func TestFundInvestment(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)

	inv, err := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 30000, AccountID: acct.ID})
	if err != nil {
		t.Fatalf("FundInvestment() error: %v", err)
	}
	if inv.Status != domain.InvestmentActive || inv.CapitalAmount != 30000 {
		t.Errorf("investment = %+v", inv)
	}

	got, _ := db.Account(acct.ID)
	if got.Balance != 20000 {
		t.Errorf("balance = %d, want 20000", got.Balance)
	}

	entries, _ := db.Entries(sqlite.EntryFilter{InvestmentRef: inv.ID})
	if len(entries) != 1 || entries[0].Kind != domain.KindInvestmentCapital {
		t.Errorf("capital entries = %+v", entries)
	}
	checkBalanceInvariant(t, db)
}

func TestFundInvestment_InsufficientFundsLeavesNothing(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 100)

	_, err := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 500, AccountID: acct.ID})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	got, _ := db.Account(acct.ID)
	if got.Balance != 100 {
		t.Errorf("balance = %d, want 100 unchanged", got.Balance)
	}
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
	invs, _ := db.Investments()
	if len(invs) != 0 {
		t.Errorf("investments = %d, want 0", len(invs))
	}
}

func TestRecordInvestmentOutcome(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)
	inv, _ := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 30000, AccountID: acct.ID})

	if err := e.RecordInvestmentOutcome(ctx, "admin", inv.ID, 5000, domain.OutcomeProfit, acct.ID, ""); err != nil {
		t.Fatalf("profit outcome error: %v", err)
	}
	if err := e.RecordInvestmentOutcome(ctx, "admin", inv.ID, 2000, domain.OutcomeExpense, acct.ID, ""); err != nil {
		t.Fatalf("expense outcome error: %v", err)
	}

	got, _ := db.Investment(inv.ID)
	if got.CumulativeProfit != 3000 {
		t.Errorf("cumulative profit = %d, want 3000", got.CumulativeProfit)
	}
	a, _ := db.Account(acct.ID)
	if a.Balance != 23000 { // 50000 - 30000 + 5000 - 2000
		t.Errorf("balance = %d, want 23000", a.Balance)
	}
	checkBalanceInvariant(t, db)
}

func TestRecordInvestmentOutcome_MissingAccountAborts(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)
	inv, _ := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 30000, AccountID: acct.ID})
	before := countEntries(t, db)

	err := e.RecordInvestmentOutcome(ctx, "admin", inv.ID, 5000, domain.OutcomeProfit, "ghost", "")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
	got, _ := db.Investment(inv.ID)
	if got.CumulativeProfit != 0 {
		t.Errorf("profit = %d, want 0 after abort", got.CumulativeProfit)
	}
	if n := countEntries(t, db); n != before {
		t.Errorf("entries = %d, want %d", n, before)
	}
}

func TestLiquidateInvestment(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)
	inv, _ := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 30000, AccountID: acct.ID})

	if err := e.LiquidateInvestment(ctx, "admin", inv.ID, 34000, acct.ID); err != nil {
		t.Fatalf("LiquidateInvestment() error: %v", err)
	}

	a, _ := db.Account(acct.ID)
	if a.Balance != 54000 { // 50000 - 30000 + 34000
		t.Errorf("balance = %d, want 54000", a.Balance)
	}
	if _, err := db.Investment(inv.ID); !errors.Is(err, domain.ErrInvestmentNotFound) {
		t.Errorf("investment still present after liquidation: %v", err)
	}
	entries, _ := db.Entries(sqlite.EntryFilter{Category: domain.CategoryInvestmentLiquidation})
	if len(entries) != 1 || entries[0].Amount != 34000 {
		t.Errorf("liquidation entries = %+v", entries)
	}
	checkBalanceInvariant(t, db)
}

func TestLiquidateInvestment_ZeroClosingValueOnlyRemoves(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)
	inv, _ := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Failed Venture", Amount: 30000, AccountID: acct.ID})
	before := countEntries(t, db)

	if err := e.LiquidateInvestment(ctx, "admin", inv.ID, 0, ""); err != nil {
		t.Fatalf("LiquidateInvestment() error: %v", err)
	}

	a, _ := db.Account(acct.ID)
	if a.Balance != 20000 {
		t.Errorf("balance = %d, want 20000 untouched", a.Balance)
	}
	if n := countEntries(t, db); n != before {
		t.Errorf("entries = %d, want %d, no ledger effect", n, before)
	}
	if _, err := db.Investment(inv.ID); !errors.Is(err, domain.ErrInvestmentNotFound) {
		t.Error("investment record should be gone")
	}
}

// ─── Reversal ───────────────────────────────────────────────────────────────

func TestDeleteLedgerEntry_InvertsDeposit(t *testing.T) {
	e, db := newTestEngine(t)
	primary := seedPrimary(t, e, 0)
	m := seedMember(t, e, "Arif", 2, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if _, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, nil); err != nil {
		t.Fatal(err)
	}

	entries, _ := db.Entries(sqlite.EntryFilter{MemberID: m.ID, Category: domain.CategoryMonthlyDeposit})
	if err := e.DeleteLedgerEntry(ctx, entries[0].ID); err != nil {
		t.Fatalf("DeleteLedgerEntry() error: %v", err)
	}

	acct, _ := db.Account(primary.ID)
	if acct.Balance != 0 {
		t.Errorf("balance = %d, want 0 restored", acct.Balance)
	}
	got, _ := db.Member(m.ID)
	if got.LifetimeDeposited != 0 {
		t.Errorf("lifetime = %d, want 0 restored", got.LifetimeDeposited)
	}
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestDeleteLedgerEntry_InvertsExpense(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 5000)
	e.AddExpense(ctx, "admin", ExpenseRequest{AccountID: acct.ID, Amount: 1200, Category: "office_rent"})

	entries, _ := db.Entries(sqlite.EntryFilter{Kind: domain.KindExpense})
	if err := e.DeleteLedgerEntry(ctx, entries[0].ID); err != nil {
		t.Fatal(err)
	}
	got, _ := db.Account(acct.ID)
	if got.Balance != 5000 {
		t.Errorf("balance = %d, want 5000 restored", got.Balance)
	}
}

func TestDeleteLedgerEntry_InvertsTransferBothSides(t *testing.T) {
	e, db := newTestEngine(t)
	src := seedAccountWithOpening(t, e, "Source", 5000)
	dst := seedAccountWithOpening(t, e, "Destination", 0)
	e.TransferBalance(ctx, "admin", src.ID, dst.ID, 3000, "")

	entries, _ := db.Entries(sqlite.EntryFilter{Kind: domain.KindTransfer})
	if err := e.DeleteLedgerEntry(ctx, entries[0].ID); err != nil {
		t.Fatal(err)
	}
	s, _ := db.Account(src.ID)
	d, _ := db.Account(dst.ID)
	if s.Balance != 5000 || d.Balance != 0 {
		t.Errorf("balances = %d/%d, want 5000/0 restored", s.Balance, d.Balance)
	}
}

func TestDeleteLedgerEntry_InvertsInvestmentProfit(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)
	inv, _ := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 30000, AccountID: acct.ID})
	e.RecordInvestmentOutcome(ctx, "admin", inv.ID, 5000, domain.OutcomeProfit, acct.ID, "")

	entries, _ := db.Entries(sqlite.EntryFilter{Category: domain.CategoryInvestmentProfit})
	if err := e.DeleteLedgerEntry(ctx, entries[0].ID); err != nil {
		t.Fatal(err)
	}

	got, _ := db.Investment(inv.ID)
	if got.CumulativeProfit != 0 {
		t.Errorf("profit = %d, want 0 restored", got.CumulativeProfit)
	}
	a, _ := db.Account(acct.ID)
	if a.Balance != 20000 {
		t.Errorf("balance = %d, want 20000 restored", a.Balance)
	}
	checkBalanceInvariant(t, db)
}

func TestDeleteLedgerEntry_SkipsDeletedInvestment(t *testing.T) {
	e, db := newTestEngine(t)
	acct := seedAccountWithOpening(t, e, "Operating", 50000)
	inv, _ := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Rice Mill", Amount: 30000, AccountID: acct.ID})
	capital, _ := db.Entries(sqlite.EntryFilter{Kind: domain.KindInvestmentCapital})

	// Investment record vanishes with a zero-value liquidation; the
	// capital entry outlives it.
	if err := e.LiquidateInvestment(ctx, "admin", inv.ID, 0, ""); err != nil {
		t.Fatal(err)
	}

	if err := e.DeleteLedgerEntry(ctx, capital[0].ID); err != nil {
		t.Fatalf("reversal with missing investment should succeed: %v", err)
	}
	a, _ := db.Account(acct.ID)
	if a.Balance != 50000 {
		t.Errorf("balance = %d, want 50000 (capital restored)", a.Balance)
	}
	if n := countEntries(t, db); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestDeleteLedgerEntry_NotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.DeleteLedgerEntry(ctx, "ghost"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}

// ─── Primary Flag ───────────────────────────────────────────────────────────

func TestSetPrimaryAccount_AlwaysExactlyOne(t *testing.T) {
	e, db := newTestEngine(t)
	a, _ := e.CreateAccount(ctx, CreateAccountRequest{Name: "A", Primary: true})
	b, _ := e.CreateAccount(ctx, CreateAccountRequest{Name: "B"})
	c, _ := e.CreateAccount(ctx, CreateAccountRequest{Name: "C"})

	for _, id := range []string{b.ID, c.ID, a.ID, c.ID} {
		if err := e.SetPrimaryAccount(ctx, id); err != nil {
			t.Fatalf("SetPrimaryAccount(%s) error: %v", id, err)
		}
		accounts, _ := db.Accounts()
		var primaries []string
		for _, acct := range accounts {
			if acct.IsPrimary {
				primaries = append(primaries, acct.ID)
			}
		}
		if len(primaries) != 1 || primaries[0] != id {
			t.Fatalf("after set %s: primaries = %v, want exactly [%s]", id, primaries, id)
		}
	}
}

func TestSetPrimaryAccount_MissingAccount(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.SetPrimaryAccount(ctx, "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

// ─── Reconciliation ─────────────────────────────────────────────────────────

func TestReconcileLifetimeDeposits(t *testing.T) {
	e, db := newTestEngine(t)
	seedPrimary(t, e, 0)
	m := seedMember(t, e, "Arif", 2, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if _, err := e.ProcessDepositBatch(ctx, "admin", []string{m.ID}, domain.Period{Month: 6, Year: 2024}, nil); err != nil {
		t.Fatal(err)
	}

	// No drift after a clean batch.
	drifts, err := e.ReconcileLifetimeDeposits(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 0 {
		t.Errorf("drifts = %+v, want none", drifts)
	}

	// Corrupt the cache, then detect and repair.
	if err := db.WithTx(ctx, func(tx *sqlite.Tx) error {
		return tx.SetLifetimeDeposited(m.ID, 99)
	}); err != nil {
		t.Fatal(err)
	}

	drifts, err = e.ReconcileLifetimeDeposits(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 1 || drifts[0].Cached != 99 || drifts[0].Ledger != 2000 {
		t.Fatalf("drifts = %+v, want one of 99 vs 2000", drifts)
	}

	got, _ := db.Member(m.ID)
	if got.LifetimeDeposited != 2000 {
		t.Errorf("lifetime = %d, want repaired to 2000", got.LifetimeDeposited)
	}
}

// ─── Balance Invariant Across a Mixed Sequence ──────────────────────────────

func TestBalanceInvariant_MixedOperationSequence(t *testing.T) {
	e, db := newTestEngine(t)
	primary := seedPrimary(t, e, 0)
	side := seedAccountWithOpening(t, e, "Side", 0)
	e.SetFinePolicy(ctx, domain.FinePolicy{GraceMonths: 1, FinePercent: 5})
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := seedMember(t, e, "Arif", 2, joined)
	b := seedMember(t, e, "Babul", 1, joined)

	if _, err := e.ProcessDepositBatch(ctx, "admin", []string{a.ID, b.ID}, domain.Period{Month: 6, Year: 2024},
		map[string]bool{b.ID: true}); err != nil {
		t.Fatal(err)
	}
	if err := e.TransferBalance(ctx, "admin", primary.ID, side.ID, 1000, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddExpense(ctx, "admin", ExpenseRequest{AccountID: side.ID, Amount: 300, Category: "misc"}); err != nil {
		t.Fatal(err)
	}
	inv, err := e.FundInvestment(ctx, "admin", FundInvestmentRequest{Name: "Shop", Amount: 500, AccountID: side.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.RecordInvestmentOutcome(ctx, "admin", inv.ID, 120, domain.OutcomeProfit, side.ID, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddFineWaiver(ctx, "admin", a.ID, 50, ""); err != nil {
		t.Fatal(err)
	}

	checkBalanceInvariant(t, db)

	// Reverse everything and the invariant must still hold with all
	// balances back at their opening values.
	entries, _ := db.Entries(sqlite.EntryFilter{})
	for _, entry := range entries {
		if err := e.DeleteLedgerEntry(ctx, entry.ID); err != nil {
			t.Fatalf("reverse %s (%s): %v", entry.ID, entry.Category, err)
		}
	}
	checkBalanceInvariant(t, db)

	p, _ := db.Account(primary.ID)
	s, _ := db.Account(side.ID)
	if p.Balance != 0 || s.Balance != 0 {
		t.Errorf("balances = %d/%d, want 0/0 after full reversal", p.Balance, s.Balance)
	}
	got, _ := db.Member(a.ID)
	if got.LifetimeDeposited != 0 {
		t.Errorf("lifetime = %d, want 0 after full reversal", got.LifetimeDeposited)
	}
}
