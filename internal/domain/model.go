// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application — it depends on nothing.
package domain

import (
	"fmt"
	"time"
)

// DefaultMonthlyRate is the standard monthly subscription per share.
const DefaultMonthlyRate int64 = 1000

// ─── Member Types ───────────────────────────────────────────────────────────

// MemberStatus indicates whether a member still contributes.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

// Member is a society member holding one or more shares.
type Member struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Phone             string       `json:"phone,omitempty"`
	Shares            int          `json:"shares"`
	MonthlyRate       int64        `json:"monthly_rate"` // subscription per share per month
	JoinedAt          time.Time    `json:"joined_at"`
	LifetimeDeposited int64        `json:"lifetime_deposited"` // cached sum of monthly_deposit entries
	Status            MemberStatus `json:"status"`
}

// MonthlyInstallment returns the member's full monthly contribution.
func (m Member) MonthlyInstallment() int64 {
	return int64(m.Shares) * m.MonthlyRate
}

// ─── Treasury Types ─────────────────────────────────────────────────────────

// TreasuryAccount is a society bank account holding pooled funds.
// At most one account carries the primary flag; it is the default
// collection target for member deposits.
type TreasuryAccount struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BankName      string    `json:"bank_name,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	Balance       int64     `json:"balance"`
	IsPrimary     bool      `json:"is_primary"`
	CreatedAt     time.Time `json:"created_at"`
}

// ─── Ledger Types ───────────────────────────────────────────────────────────

// EntryKind classifies how a ledger entry moves money.
type EntryKind string

const (
	KindDeposit           EntryKind = "deposit"
	KindExpense           EntryKind = "expense"
	KindTransfer          EntryKind = "transfer"
	KindInvestmentCapital EntryKind = "investment_capital"
)

// Well-known entry categories. Category is otherwise free-form.
const (
	CategoryMonthlyDeposit        = "monthly_deposit"
	CategoryFinePayment           = "fine_payment"
	CategoryFineWaiver            = "fine_waiver"
	CategoryInvestmentProfit      = "investment_profit"
	CategoryInvestmentExpense     = "investment_expense"
	CategoryInvestmentLiquidation = "investment_liquidation"
)

// LedgerEntry is one immutable record of money movement. The only
// permitted mutation is an explicit reversal, which deletes the entry
// after inverting its effects.
type LedgerEntry struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"member_id,omitempty"` // empty = society-level
	Kind          EntryKind `json:"kind"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	Amount        int64     `json:"amount"` // positive magnitude; sign comes from Kind
	PeriodMonth   int       `json:"period_month,omitempty"`
	PeriodYear    int       `json:"period_year,omitempty"`
	Date          time.Time `json:"date"`
	AccountID     string    `json:"account_id,omitempty"`      // pure waivers carry no account
	FromAccountID string    `json:"from_account_id,omitempty"` // transfers only: the debited side
	InvestmentRef string    `json:"investment_ref,omitempty"`
	RecordedBy    string    `json:"recorded_by"`
	Remarks       string    `json:"remarks,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SignedEffect returns the balance change this entry caused on the given
// account. A transfer entry touches two accounts: positive on the
// destination, negative on the source. Fine waivers never touch a balance.
func (e LedgerEntry) SignedEffect(accountID string) int64 {
	if e.Category == CategoryFineWaiver {
		return 0
	}
	switch e.Kind {
	case KindDeposit:
		if e.AccountID == accountID {
			return e.Amount
		}
	case KindExpense, KindInvestmentCapital:
		if e.AccountID == accountID {
			return -e.Amount
		}
	case KindTransfer:
		if e.AccountID == accountID {
			return e.Amount
		}
		if e.FromAccountID == accountID {
			return -e.Amount
		}
	}
	return 0
}

// Period identifies the contribution month a deposit covers.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Validate checks the period is a real calendar month.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: period month %d out of range", ErrValidation, p.Month)
	}
	if p.Year < 2000 || p.Year > 2200 {
		return fmt.Errorf("%w: period year %d out of range", ErrValidation, p.Year)
	}
	return nil
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ─── Investment Types ───────────────────────────────────────────────────────

// InvestmentStatus tracks an investment's lifecycle.
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

// Investment is a capital project funded from a treasury account.
// CumulativeProfit moves only through profit/expense ledger entries
// that reference this investment.
type Investment struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	CapitalAmount    int64            `json:"capital_amount"`
	FundingAccountID string           `json:"funding_account_id"`
	CumulativeProfit int64            `json:"cumulative_profit"`
	Status           InvestmentStatus `json:"status"`
	DocumentRef      string           `json:"document_ref,omitempty"`
	RecordedBy       string           `json:"recorded_by"`
	CreatedAt        time.Time        `json:"created_at"`
}

// OutcomeKind is the direction of an investment outcome.
type OutcomeKind string

const (
	OutcomeProfit  OutcomeKind = "profit"
	OutcomeExpense OutcomeKind = "expense"
)

// ─── Fine Policy ────────────────────────────────────────────────────────────

// FinePolicy is the single global late-payment configuration.
// It is passed explicitly into the accrual calculator so the
// calculation stays pure.
type FinePolicy struct {
	GraceMonths int     `json:"grace_months"`
	FinePercent float64 `json:"fine_percent"`
}

// Validate rejects nonsensical policy values.
func (p FinePolicy) Validate() error {
	if p.GraceMonths < 0 {
		return fmt.Errorf("%w: grace months must be >= 0", ErrInvalidPolicy)
	}
	if p.FinePercent < 0 {
		return fmt.Errorf("%w: fine percent must be >= 0", ErrInvalidPolicy)
	}
	return nil
}
