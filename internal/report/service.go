// Package report builds the read-side projections: member dashboards,
// defaulter lists, ledger statements, and the treasury overview. It only
// reads; every write goes through the engine.
package report

import (
	"errors"
	"time"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/metrics"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// Service answers read queries over the stores.
type Service struct {
	db  *sqlite.DB
	now func() time.Time
}

// New creates the report service.
func New(db *sqlite.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// ─── Member Dashboard ───────────────────────────────────────────────────────

// Dashboard is everything a member sees on their home screen.
type Dashboard struct {
	Member  domain.Member      `json:"member"`
	Accrual domain.FineAccrual `json:"accrual"`
}

// MemberDashboard returns the member record together with their current
// fine accrual. With no fine policy configured the accrual is zero.
func (s *Service) MemberDashboard(memberID string) (*Dashboard, error) {
	m, err := s.db.Member(memberID)
	if err != nil {
		return nil, err
	}
	accrual, err := s.accrualFor(m)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Member: m, Accrual: accrual}, nil
}

func (s *Service) accrualFor(m domain.Member) (domain.FineAccrual, error) {
	policy, err := s.db.Policy()
	if errors.Is(err, domain.ErrInvalidPolicy) {
		return domain.FineAccrual{}, nil
	}
	if err != nil {
		return domain.FineAccrual{}, err
	}
	reductions, err := s.db.SumFineReductions(m.ID)
	if err != nil {
		return domain.FineAccrual{}, err
	}
	return domain.ComputeFine(m, policy, reductions, s.now()), nil
}

// ─── Defaulters ─────────────────────────────────────────────────────────────

// Defaulter is an active member carrying an unpaid fine.
type Defaulter struct {
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	OverdueMonths int    `json:"overdue_months"`
	NetFine       int64  `json:"net_fine"`
}

// Defaulters lists every active member whose net fine is positive,
// computed fresh from the ledger at call time.
func (s *Service) Defaulters() ([]Defaulter, error) {
	members, err := s.db.Members()
	if err != nil {
		return nil, err
	}

	var out []Defaulter
	for _, m := range members {
		if m.Status != domain.MemberActive {
			continue
		}
		accrual, err := s.accrualFor(m)
		if err != nil {
			return nil, err
		}
		if accrual.NetFine <= 0 {
			continue
		}
		out = append(out, Defaulter{
			MemberID:      m.ID,
			Name:          m.Name,
			Phone:         m.Phone,
			OverdueMonths: accrual.OverdueMonths,
			NetFine:       accrual.NetFine,
		})
	}
	return out, nil
}

// ─── Statements ─────────────────────────────────────────────────────────────

// Statement returns ledger history for a member, an account, or an
// investment, most recent first.
func (s *Service) Statement(f sqlite.EntryFilter) ([]domain.LedgerEntry, error) {
	return s.db.Entries(f)
}

// ─── Treasury Overview ──────────────────────────────────────────────────────

// TreasuryOverview is the full account picture.
type TreasuryOverview struct {
	Accounts []domain.TreasuryAccount `json:"accounts"`
	Total    int64                    `json:"total"`
}

// Treasury returns every account with its cached balance and the pooled
// total across all of them.
func (s *Service) Treasury() (*TreasuryOverview, error) {
	accounts, err := s.db.Accounts()
	if err != nil {
		return nil, err
	}
	ov := &TreasuryOverview{Accounts: accounts}
	for _, a := range accounts {
		ov.Total += a.Balance
		metrics.TreasuryBalance.WithLabelValues(a.Name).Set(float64(a.Balance))
	}
	return ov, nil
}
