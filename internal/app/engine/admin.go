package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// ─── Administrative Operations ──────────────────────────────────────────────
// Registry edits that either need the primary-flag invariant or are kept
// behind the engine so there is one write front door.

// CreateAccountRequest describes a new treasury account.
type CreateAccountRequest struct {
	Name          string `json:"name"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	OpeningAmount int64  `json:"opening_amount,omitempty"`
	Primary       bool   `json:"primary,omitempty"`
}

// CreateAccount registers a treasury account. When Primary is set, the
// flag move shares the transaction with the insert, so two primaries can
// never coexist.
func (e *Engine) CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.TreasuryAccount, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", domain.ErrValidation)
	}
	if req.OpeningAmount < 0 {
		return nil, fmt.Errorf("%w: opening amount cannot be negative", domain.ErrValidation)
	}

	acct := domain.TreasuryAccount{
		ID:            e.newEntryID(),
		Name:          req.Name,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Balance:       req.OpeningAmount,
	}

	err := e.run(ctx, "create_account", func(tx *sqlite.Tx) error {
		if err := tx.CreateAccount(acct); err != nil {
			return err
		}
		if req.Primary {
			if err := tx.ClearPrimaryFlags(); err != nil {
				return err
			}
			if err := tx.SetPrimaryFlag(acct.ID); err != nil {
				return err
			}
			acct.IsPrimary = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// SetPrimaryAccount moves the collection-target flag. Clear-all-then-set
// inside one transaction keeps the flag unique under concurrent calls.
func (e *Engine) SetPrimaryAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: account id is required", domain.ErrValidation)
	}
	return e.run(ctx, "set_primary", func(tx *sqlite.Tx) error {
		if _, err := tx.Account(accountID); err != nil {
			return err
		}
		if err := tx.ClearPrimaryFlags(); err != nil {
			return err
		}
		return tx.SetPrimaryFlag(accountID)
	})
}

// CreateMemberRequest describes a new society member.
type CreateMemberRequest struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Shares      int       `json:"shares"`
	MonthlyRate int64     `json:"monthly_rate,omitempty"` // 0 means the standard rate
	JoinedAt    time.Time `json:"joined_at"`
}

// CreateMember registers a member. The monthly rate defaults to the
// society standard when omitted.
func (e *Engine) CreateMember(ctx context.Context, req CreateMemberRequest) (*domain.Member, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: member name is required", domain.ErrValidation)
	}
	if req.Shares < 1 {
		return nil, fmt.Errorf("%w: shares must be >= 1", domain.ErrValidation)
	}
	if req.JoinedAt.IsZero() {
		return nil, fmt.Errorf("%w: joining date is required", domain.ErrValidation)
	}
	rate := req.MonthlyRate
	if rate == 0 {
		rate = domain.DefaultMonthlyRate
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: monthly rate cannot be negative", domain.ErrValidation)
	}

	m := domain.Member{
		ID:          e.newEntryID(),
		Name:        req.Name,
		Phone:       req.Phone,
		Shares:      req.Shares,
		MonthlyRate: rate,
		JoinedAt:    req.JoinedAt,
		Status:      domain.MemberActive,
	}
	if err := e.db.CreateMember(m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMember applies administrative edits to shares, rate, contact
// details, or status. The lifetime-deposit cache stays engine-owned.
func (e *Engine) UpdateMember(ctx context.Context, m domain.Member) error {
	if m.ID == "" {
		return fmt.Errorf("%w: member id is required", domain.ErrValidation)
	}
	if m.Shares < 1 {
		return fmt.Errorf("%w: shares must be >= 1", domain.ErrValidation)
	}
	if m.Status != domain.MemberActive && m.Status != domain.MemberInactive {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, m.Status)
	}
	return e.db.UpdateMember(m)
}

// SetFinePolicy upserts the global fine settings.
func (e *Engine) SetFinePolicy(ctx context.Context, p domain.FinePolicy) error {
	return e.db.UpsertPolicy(p)
}
