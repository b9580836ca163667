package domain

import (
	"context"
	"io"
)

// ─── Collaborator Interfaces ────────────────────────────────────────────────
// These define boundaries to the best-effort side channels. The engine
// only ever calls them after a successful commit; their failures are
// logged, never surfaced as failures of the financial operation.

// Dispatcher delivers a notification to a single member. Implementations
// may fan out to push/email; errors are isolated per recipient.
type Dispatcher interface {
	Notify(ctx context.Context, memberID, title, body string) error
}

// DocumentStore holds supporting documents for investments. The engine
// stores only the returned reference string and asks the store to delete
// the old reference when a document is replaced.
type DocumentStore interface {
	Save(name string, r io.Reader) (ref string, err error)
	Delete(ref string) error
}
