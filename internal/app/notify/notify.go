// Package notify delivers post-commit notifications to members.
// Everything here is best-effort: the engine calls it only after a
// successful commit, failures are logged per recipient, and nothing
// can propagate back into the financial write path.
package notify

import (
	"context"
	"log"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/metrics"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// Service persists bell notifications and fans out to the dispatcher.
type Service struct {
	db         *sqlite.DB
	dispatcher domain.Dispatcher // nil disables external delivery
}

// NewService creates the notification service. dispatcher may be nil.
func NewService(db *sqlite.DB, dispatcher domain.Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

// Send records a bell notification for each member and forwards it to
// the dispatcher. Each recipient is isolated: one failure is logged and
// counted, the rest still go out.
func (s *Service) Send(ctx context.Context, memberIDs []string, title, body string) {
	for _, id := range memberIDs {
		if _, err := s.db.InsertNotification(id, title, body); err != nil {
			log.Printf("notify: persist bell for member %s: %v", id, err)
			metrics.NotificationFailures.Inc()
			continue
		}
		if s.dispatcher == nil {
			continue
		}
		if err := s.dispatcher.Notify(ctx, id, title, body); err != nil {
			log.Printf("notify: dispatch to member %s: %v", id, err)
			metrics.NotificationFailures.Inc()
			continue
		}
		metrics.NotificationsDispatched.Inc()
	}
}

// ─── Log Dispatcher ─────────────────────────────────────────────────────────

// LogDispatcher writes notifications to the process log. It stands in
// for push/email delivery, which live outside this repository.
type LogDispatcher struct{}

// Notify implements domain.Dispatcher.
func (LogDispatcher) Notify(_ context.Context, memberID, title, body string) error {
	log.Printf("notify: member=%s title=%q body=%q", memberID, title, body)
	return nil
}
