package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// ─── Reversal ───────────────────────────────────────────────────────────────

// DeleteLedgerEntry is the only mutation of an existing entry's effects.
// It inverts exactly what the entry originally caused — account balance,
// lifetime-deposit cache, cumulative investment profit — and then removes
// the entry, all in one unit. If a referenced account, member, or
// investment has since been deleted, that part of the inversion is
// skipped, but the entry is still removed.
func (e *Engine) DeleteLedgerEntry(ctx context.Context, entryID string) error {
	if entryID == "" {
		return fmt.Errorf("%w: entry id is required", domain.ErrValidation)
	}

	return e.run(ctx, "delete_entry", func(tx *sqlite.Tx) error {
		entry, err := tx.Entry(entryID)
		if err != nil {
			return err
		}

		switch entry.Kind {
		case domain.KindDeposit:
			// Waivers never touched a balance, so there is nothing to
			// give back. Every other deposit credited its account.
			if entry.Category != domain.CategoryFineWaiver && entry.AccountID != "" {
				if err := adjustBalanceIfPresent(tx, entry.AccountID, -entry.Amount); err != nil {
					return err
				}
			}
			if entry.Category == domain.CategoryMonthlyDeposit && entry.MemberID != "" {
				if err := adjustLifetimeIfPresent(tx, entry.MemberID, -entry.Amount); err != nil {
					return err
				}
			}

		case domain.KindExpense:
			if err := adjustBalanceIfPresent(tx, entry.AccountID, entry.Amount); err != nil {
				return err
			}

		case domain.KindTransfer:
			if err := adjustBalanceIfPresent(tx, entry.AccountID, -entry.Amount); err != nil {
				return err
			}
			if err := adjustBalanceIfPresent(tx, entry.FromAccountID, entry.Amount); err != nil {
				return err
			}

		case domain.KindInvestmentCapital:
			if err := adjustBalanceIfPresent(tx, entry.AccountID, entry.Amount); err != nil {
				return err
			}
		}

		if entry.InvestmentRef != "" {
			// Invert the profit adjustment the same way it was applied.
			switch entry.Category {
			case domain.CategoryInvestmentProfit:
				if err := adjustProfitIfPresent(tx, entry.InvestmentRef, -entry.Amount); err != nil {
					return err
				}
			case domain.CategoryInvestmentExpense:
				if err := adjustProfitIfPresent(tx, entry.InvestmentRef, entry.Amount); err != nil {
					return err
				}
			}
		}

		return tx.DeleteEntry(entryID)
	})
}

func adjustBalanceIfPresent(tx *sqlite.Tx, accountID string, delta int64) error {
	if accountID == "" {
		return nil
	}
	err := tx.AdjustBalance(accountID, delta)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil
	}
	return err
}

func adjustLifetimeIfPresent(tx *sqlite.Tx, memberID string, delta int64) error {
	err := tx.AddLifetimeDeposited(memberID, delta)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil
	}
	return err
}

func adjustProfitIfPresent(tx *sqlite.Tx, investmentID string, delta int64) error {
	err := tx.AdjustProfit(investmentID, delta)
	if errors.Is(err, domain.ErrInvestmentNotFound) {
		return nil
	}
	return err
}
