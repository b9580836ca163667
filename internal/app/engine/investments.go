package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// ─── Investment Operations ──────────────────────────────────────────────────

// FundInvestmentRequest describes a new capital project.
type FundInvestmentRequest struct {
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	AccountID   string `json:"account_id"`
	DocumentRef string `json:"document_ref,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

// FundInvestment allocates capital from a treasury account into a new
// investment. The investment row, the account debit, and the capital
// ledger entry commit together; a funding account short of the amount
// aborts with ErrInsufficientFunds and leaves everything untouched.
func (e *Engine) FundInvestment(ctx context.Context, actor string, req FundInvestmentRequest) (*domain.Investment, error) {
	if actor == "" || req.Name == "" || req.AccountID == "" {
		return nil, fmt.Errorf("%w: actor, name and funding account are required", domain.ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: capital amount must be positive", domain.ErrValidation)
	}

	inv := domain.Investment{
		ID:               e.newEntryID(),
		Name:             req.Name,
		CapitalAmount:    req.Amount,
		FundingAccountID: req.AccountID,
		Status:           domain.InvestmentActive,
		DocumentRef:      req.DocumentRef,
		RecordedBy:       actor,
	}

	err := e.run(ctx, "fund_investment", func(tx *sqlite.Tx) error {
		acct, err := tx.Account(req.AccountID)
		if err != nil {
			return err
		}
		if acct.Balance < req.Amount {
			return fmt.Errorf("%w: balance %d < capital %d", domain.ErrInsufficientFunds, acct.Balance, req.Amount)
		}
		if err := tx.InsertInvestment(inv); err != nil {
			return err
		}
		if err := tx.AdjustBalance(req.AccountID, -req.Amount); err != nil {
			return err
		}
		return tx.InsertEntry(domain.LedgerEntry{
			ID:            e.newEntryID(),
			Kind:          domain.KindInvestmentCapital,
			Category:      "investment_capital",
			Amount:        req.Amount,
			Date:          e.now(),
			AccountID:     req.AccountID,
			InvestmentRef: inv.ID,
			RecordedBy:    actor,
			Remarks:       req.Remarks,
		})
	})
	if err != nil {
		return nil, err
	}

	e.notifyActiveMembers("New investment",
		fmt.Sprintf("The society has invested %d in %s.", req.Amount, req.Name))
	return &inv, nil
}

// RecordInvestmentOutcome books a realized profit or expense against an
// investment: cumulative profit and the bank balance move in the same
// direction, and a categorized entry referencing the investment is
// appended — all in one unit.
func (e *Engine) RecordInvestmentOutcome(ctx context.Context, actor, investmentID string, amount int64, kind domain.OutcomeKind, accountID, remarks string) error {
	if actor == "" || investmentID == "" || accountID == "" {
		return fmt.Errorf("%w: actor, investment and account are required", domain.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: outcome amount must be positive", domain.ErrValidation)
	}
	if kind != domain.OutcomeProfit && kind != domain.OutcomeExpense {
		return fmt.Errorf("%w: outcome kind %q", domain.ErrValidation, kind)
	}

	return e.run(ctx, "investment_outcome", func(tx *sqlite.Tx) error {
		if _, err := tx.Investment(investmentID); err != nil {
			return err
		}
		if _, err := tx.Account(accountID); err != nil {
			return err
		}

		delta := amount
		entryKind := domain.KindDeposit
		category := domain.CategoryInvestmentProfit
		if kind == domain.OutcomeExpense {
			delta = -amount
			entryKind = domain.KindExpense
			category = domain.CategoryInvestmentExpense
		}

		if err := tx.AdjustProfit(investmentID, delta); err != nil {
			return err
		}
		if err := tx.AdjustBalance(accountID, delta); err != nil {
			return err
		}
		return tx.InsertEntry(domain.LedgerEntry{
			ID:            e.newEntryID(),
			Kind:          entryKind,
			Category:      category,
			Amount:        amount,
			Date:          e.now(),
			AccountID:     accountID,
			InvestmentRef: investmentID,
			RecordedBy:    actor,
			Remarks:       remarks,
		})
	})
}

// LiquidateInvestment closes a project: the closing value is credited to
// the target account with a liquidation entry, and the investment record
// is removed. A zero closing value removes the record with no ledger or
// balance effect. The supporting document, if any, is deleted only after
// commit.
func (e *Engine) LiquidateInvestment(ctx context.Context, actor, investmentID string, closingValue int64, accountID string) error {
	if actor == "" || investmentID == "" {
		return fmt.Errorf("%w: actor and investment are required", domain.ErrValidation)
	}
	if closingValue < 0 {
		return fmt.Errorf("%w: closing value cannot be negative", domain.ErrValidation)
	}
	if closingValue > 0 && accountID == "" {
		return fmt.Errorf("%w: target account required for a closing value", domain.ErrValidation)
	}

	var docRef string
	err := e.run(ctx, "liquidate_investment", func(tx *sqlite.Tx) error {
		inv, err := tx.Investment(investmentID)
		if err != nil {
			return err
		}
		docRef = inv.DocumentRef

		if closingValue > 0 {
			if _, err := tx.Account(accountID); err != nil {
				return err
			}
			if err := tx.AdjustBalance(accountID, closingValue); err != nil {
				return err
			}
			if err := tx.InsertEntry(domain.LedgerEntry{
				ID:            e.newEntryID(),
				Kind:          domain.KindDeposit,
				Category:      domain.CategoryInvestmentLiquidation,
				Amount:        closingValue,
				Date:          e.now(),
				AccountID:     accountID,
				InvestmentRef: investmentID,
				RecordedBy:    actor,
				Remarks:       fmt.Sprintf("liquidation of %s", inv.Name),
			}); err != nil {
				return err
			}
		}
		return tx.DeleteInvestment(investmentID)
	})
	if err != nil {
		return err
	}

	if docRef != "" && e.docs != nil {
		if err := e.docs.Delete(docRef); err != nil {
			log.Printf("engine: delete document %s for liquidated investment %s: %v", docRef, investmentID, err)
		}
	}
	return nil
}

// ReplaceInvestmentDocument swaps the stored document reference. The old
// document is deleted from the store only after the reference update
// committed.
func (e *Engine) ReplaceInvestmentDocument(ctx context.Context, investmentID, ref string) error {
	if investmentID == "" || ref == "" {
		return fmt.Errorf("%w: investment and document reference are required", domain.ErrValidation)
	}

	var oldRef string
	err := e.run(ctx, "replace_document", func(tx *sqlite.Tx) error {
		inv, err := tx.Investment(investmentID)
		if err != nil {
			return err
		}
		oldRef = inv.DocumentRef
		return tx.SetDocumentRef(investmentID, ref)
	})
	if err != nil {
		return err
	}

	if oldRef != "" && oldRef != ref && e.docs != nil {
		if err := e.docs.Delete(oldRef); err != nil {
			log.Printf("engine: delete replaced document %s: %v", oldRef, err)
		}
	}
	return nil
}

// notifyActiveMembers fans a message out to every active member.
func (e *Engine) notifyActiveMembers(title, body string) {
	if e.notifier == nil {
		return
	}
	members, err := e.db.Members()
	if err != nil {
		log.Printf("engine: list members for notification: %v", err)
		return
	}
	var ids []string
	for _, m := range members {
		if m.Status == domain.MemberActive {
			ids = append(ids, m.ID)
		}
	}
	e.sendNotifications(ids, title, body)
}
