// Package engine is the ledger engine: the single write path for all
// money movement in the society. Every operation reads and writes its
// two-to-four stores inside one SQL transaction; any error aborts the
// whole unit with no partial state. Notifications and document cleanup
// run only after commit and can never undo one.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/notify"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/docstore"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/metrics"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// Engine orchestrates the atomic write operations.
type Engine struct {
	db       *sqlite.DB
	docs     *docstore.Store // nil disables document handling
	notifier *notify.Service // nil disables notifications
	now      func() time.Time
}

// New creates the ledger engine. docs and notifier may be nil.
func New(db *sqlite.DB, docs *docstore.Store, notifier *notify.Service) *Engine {
	return &Engine{db: db, docs: docs, notifier: notifier, now: time.Now}
}

// run executes one atomic unit and keeps the commit/abort counters.
func (e *Engine) run(ctx context.Context, op string, fn func(*sqlite.Tx) error) error {
	if err := e.db.WithTx(ctx, fn); err != nil {
		metrics.OperationsAborted.WithLabelValues(op).Inc()
		return err
	}
	metrics.OperationsCommitted.WithLabelValues(op).Inc()
	return nil
}

// sendNotifications dispatches fire-and-forget, after commit only.
func (e *Engine) sendNotifications(memberIDs []string, title, body string) {
	if e.notifier == nil || len(memberIDs) == 0 {
		return
	}
	go e.notifier.Send(context.Background(), memberIDs, title, body)
}

func (e *Engine) newEntryID() string { return uuid.NewString() }

// ─── Deposit Batch ──────────────────────────────────────────────────────────

// DepositBatchResult summarizes one committed deposit batch.
type DepositBatchResult struct {
	Period        domain.Period    `json:"period"`
	Members       int              `json:"members"`
	ShareTotal    int64            `json:"share_total"`
	FineTotal     int64            `json:"fine_total"`
	FineCollected map[string]int64 `json:"fine_collected,omitempty"` // memberID → net fine taken
}

// ProcessDepositBatch records one contribution period for the given
// members against the primary account. Members listed in finePayers
// additionally settle their current net fine accrual. The whole batch —
// every entry, every lifetime-deposit bump, and the single aggregated
// primary-account increment — commits or aborts together.
//
// Fine payments raise the treasury balance but never the member's
// lifetime-deposit counter; that counter tracks share contributions only.
func (e *Engine) ProcessDepositBatch(ctx context.Context, actor string, memberIDs []string, period domain.Period, finePayers map[string]bool) (*DepositBatchResult, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", domain.ErrValidation)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: no members in batch", domain.ErrValidation)
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	now := e.now()
	res := &DepositBatchResult{Period: period, FineCollected: map[string]int64{}}

	err := e.run(ctx, "deposit_batch", func(tx *sqlite.Tx) error {
		primary, err := tx.PrimaryAccount()
		if err != nil {
			return err
		}

		var policy domain.FinePolicy
		policyLoaded := false

		for _, id := range memberIDs {
			m, err := tx.Member(id)
			if err != nil {
				return fmt.Errorf("member %s: %w", id, err)
			}

			if finePayers[id] {
				if !policyLoaded {
					if policy, err = tx.Policy(); err != nil {
						return err
					}
					policyLoaded = true
				}
				reductions, err := tx.SumFineReductions(id)
				if err != nil {
					return err
				}
				accrual := domain.ComputeFine(m, policy, reductions, now)
				if accrual.NetFine > 0 {
					if err := tx.InsertEntry(domain.LedgerEntry{
						ID:          e.newEntryID(),
						MemberID:    id,
						Kind:        domain.KindDeposit,
						Category:    domain.CategoryFinePayment,
						Amount:      accrual.NetFine,
						PeriodMonth: period.Month,
						PeriodYear:  period.Year,
						Date:        now,
						AccountID:   primary.ID,
						RecordedBy:  actor,
					}); err != nil {
						return err
					}
					res.FineTotal += accrual.NetFine
					res.FineCollected[id] = accrual.NetFine
				}
			}

			share := m.MonthlyInstallment()
			if err := tx.InsertEntry(domain.LedgerEntry{
				ID:          e.newEntryID(),
				MemberID:    id,
				Kind:        domain.KindDeposit,
				Category:    domain.CategoryMonthlyDeposit,
				Amount:      share,
				PeriodMonth: period.Month,
				PeriodYear:  period.Year,
				Date:        now,
				AccountID:   primary.ID,
				RecordedBy:  actor,
			}); err != nil {
				return err
			}
			if err := tx.AddLifetimeDeposited(id, share); err != nil {
				return err
			}
			res.ShareTotal += share
			res.Members++
		}

		// One aggregated increment for the whole batch, not N separate
		// ones, so concurrent batches cannot interleave lost updates.
		return tx.AdjustBalance(primary.ID, res.ShareTotal+res.FineTotal)
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerEntriesWritten.WithLabelValues(domain.CategoryMonthlyDeposit).Add(float64(res.Members))
	e.sendNotifications(memberIDs, "Deposit recorded",
		fmt.Sprintf("Your contribution for %s has been recorded.", period))
	return res, nil
}

// AddFineWaiver forgives part of a member's fine accrual. A waiver is a
// pure reduction: it lowers the net fine owed but never touches any
// treasury balance.
func (e *Engine) AddFineWaiver(ctx context.Context, actor, memberID string, amount int64, remarks string) error {
	if actor == "" || memberID == "" {
		return fmt.Errorf("%w: actor and member are required", domain.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: waiver amount must be positive", domain.ErrValidation)
	}

	return e.run(ctx, "fine_waiver", func(tx *sqlite.Tx) error {
		if _, err := tx.Member(memberID); err != nil {
			return err
		}
		return tx.InsertEntry(domain.LedgerEntry{
			ID:         e.newEntryID(),
			MemberID:   memberID,
			Kind:       domain.KindDeposit,
			Category:   domain.CategoryFineWaiver,
			Amount:     amount,
			Date:       e.now(),
			RecordedBy: actor,
			Remarks:    remarks,
		})
	})
}

// ─── Expenses & Transfers ───────────────────────────────────────────────────

// ExpenseRequest describes a society expense.
type ExpenseRequest struct {
	AccountID   string    `json:"account_id"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
}

// AddExpense records an expense and debits the account. No floor check:
// whether an account may go negative is a governance decision made by
// the caller, not the engine.
func (e *Engine) AddExpense(ctx context.Context, actor string, req ExpenseRequest) error {
	if actor == "" || req.AccountID == "" || req.Category == "" {
		return fmt.Errorf("%w: actor, account and category are required", domain.ErrValidation)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: expense amount must be positive", domain.ErrValidation)
	}
	date := req.Date
	if date.IsZero() {
		date = e.now()
	}

	return e.run(ctx, "expense", func(tx *sqlite.Tx) error {
		if _, err := tx.Account(req.AccountID); err != nil {
			return err
		}
		if err := tx.InsertEntry(domain.LedgerEntry{
			ID:          e.newEntryID(),
			Kind:        domain.KindExpense,
			Category:    req.Category,
			Subcategory: req.Subcategory,
			Amount:      req.Amount,
			Date:        date,
			AccountID:   req.AccountID,
			RecordedBy:  actor,
			Remarks:     req.Remarks,
		}); err != nil {
			return err
		}
		return tx.AdjustBalance(req.AccountID, -req.Amount)
	})
}

// TransferBalance moves funds between two treasury accounts. One entry
// models the double movement; it is linked to the destination account
// and carries the source in from_account_id.
func (e *Engine) TransferBalance(ctx context.Context, actor, fromID, toID string, amount int64, remarks string) error {
	if actor == "" || fromID == "" || toID == "" {
		return fmt.Errorf("%w: actor and both accounts are required", domain.ErrValidation)
	}
	if fromID == toID {
		return fmt.Errorf("%w: cannot transfer to the same account", domain.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrValidation)
	}

	return e.run(ctx, "transfer", func(tx *sqlite.Tx) error {
		src, err := tx.Account(fromID)
		if err != nil {
			return fmt.Errorf("source account: %w", err)
		}
		if _, err := tx.Account(toID); err != nil {
			return fmt.Errorf("destination account: %w", err)
		}
		if src.Balance < amount {
			return fmt.Errorf("%w: balance %d < transfer %d", domain.ErrInsufficientFunds, src.Balance, amount)
		}
		if err := tx.AdjustBalance(fromID, -amount); err != nil {
			return err
		}
		if err := tx.AdjustBalance(toID, amount); err != nil {
			return err
		}
		return tx.InsertEntry(domain.LedgerEntry{
			ID:            e.newEntryID(),
			Kind:          domain.KindTransfer,
			Category:      "transfer",
			Amount:        amount,
			Date:          e.now(),
			AccountID:     toID,
			FromAccountID: fromID,
			RecordedBy:    actor,
			Remarks:       remarks,
		})
	})
}
