package domain

import (
	"math"
	"time"
)

// ─── Fine Accrual ───────────────────────────────────────────────────────────
// The fine is never persisted. It is recomputed from the member record,
// the policy, and the sum of that member's fine reductions (waivers plus
// payments already collected) every time it is needed, so the dashboard,
// the defaulter list, and the deposit-batch collection path all see the
// same figure.

// FineAccrual is the derived late-payment liability for one member.
type FineAccrual struct {
	GrossFine     int64 `json:"gross_fine"`
	OverdueMonths int   `json:"overdue_months"`
	TotalReduced  int64 `json:"total_reduced"`
	NetFine       int64 `json:"net_fine"`
}

// ComputeFine derives a member's current fine liability as of now.
//
// Every completed calendar month after the joining month is examined.
// A month that finished more than GraceMonths full months ago contributes
// monthsAgoFinished × monthlyFineRate to the gross total — an older unpaid
// month deliberately weighs more than a recent one, and the total grows
// faster than linearly with overdue duration. That weighting is the
// society's standing policy; changing it is not this function's call.
func ComputeFine(m Member, p FinePolicy, totalReductions int64, now time.Time) FineAccrual {
	monthlyRate := float64(m.MonthlyInstallment()) * p.FinePercent / 100

	cur := monthIndex(now)
	first := monthIndex(m.JoinedAt) + 1 // first chargeable month is the one after joining

	var gross float64
	var overdue int
	for idx := first; idx < cur; idx++ {
		monthsAgoFinished := cur - idx - 1
		if monthsAgoFinished > p.GraceMonths {
			gross += float64(monthsAgoFinished) * monthlyRate
			overdue++
		}
	}

	rounded := int64(math.Round(gross))
	net := rounded - totalReductions
	if net < 0 {
		net = 0
	}
	return FineAccrual{
		GrossFine:     rounded,
		OverdueMonths: overdue,
		TotalReduced:  totalReductions,
		NetFine:       net,
	}
}

// monthIndex flattens a date to a linear calendar-month index, so that
// idx(b) - idx(a) is the number of month boundaries between a and b.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
