package engine

import (
	"context"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// ─── Reconciliation ─────────────────────────────────────────────────────────
// lifetime_deposited is a read-performance cache over the ledger. It is
// eventually reconcilable: a full scan of monthly_deposit entries is the
// truth, and this maintenance routine closes any drift.

// Drift reports one member whose cached counter disagrees with the ledger.
type Drift struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Cached   int64  `json:"cached"`
	Ledger   int64  `json:"ledger"`
}

// ReconcileLifetimeDeposits compares every member's cached counter with
// the ledger sum. With repair set, all corrections are applied in one
// transaction.
func (e *Engine) ReconcileLifetimeDeposits(ctx context.Context, repair bool) ([]Drift, error) {
	members, err := e.db.Members()
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, m := range members {
		ledgerTotal, err := e.db.SumMonthlyDeposits(m.ID)
		if err != nil {
			return nil, err
		}
		if ledgerTotal != m.LifetimeDeposited {
			drifts = append(drifts, Drift{
				MemberID: m.ID,
				Name:     m.Name,
				Cached:   m.LifetimeDeposited,
				Ledger:   ledgerTotal,
			})
		}
	}

	if repair && len(drifts) > 0 {
		err := e.run(ctx, "reconcile", func(tx *sqlite.Tx) error {
			for _, d := range drifts {
				if err := tx.SetLifetimeDeposited(d.MemberID, d.Ledger); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return drifts, err
		}
	}
	return drifts, nil
}
