package automation

import (
	"context"

	"sicbot/internal/core/registro"
)

// The orchestrator only ever talks to the two web surfaces through these
// capability interfaces, keeping the selector-level logic swappable and
// the workflow testable with fakes.

// Authenticator logs a session into the portal.
type Authenticator interface {
	Login(ctx context.Context) error
}

// FormFiller populates and submits the portal's creation form.
type FormFiller interface {
	FillForm(ctx context.Context, r *registro.Registro) error
}

// ListingReader recovers the portal-assigned ticket from the listing view.
type ListingReader interface {
	FindTicket(ctx context.Context, nit, empresa string) (string, error)
}

// MessageSender delivers notifications over the messaging surface.
type MessageSender interface {
	SendToGroup(ctx context.Context, groupName, message string) error
	SendToNumber(ctx context.Context, number, message string) error
}

// Diagnostics exposes failure-time captures of the live page.
type Diagnostics interface {
	Screenshot() ([]byte, error)
	PageHTML() (string, error)
}

// PortalRun is one live portal session, owned by a single run.
type PortalRun interface {
	Authenticator
	FormFiller
	ListingReader
	Diagnostics
	Close()
}

// SenderRun is one live messaging session, owned by a single run.
type SenderRun interface {
	MessageSender
	Diagnostics
	Close()
}

// PortalFactory opens a fresh, started portal session.
type PortalFactory func() (PortalRun, error)

// SenderFactory opens a fresh, authenticated messaging session.
type SenderFactory func() (SenderRun, error)

// StatusTracker records workflow state transitions. Implementations are
// best-effort and must never fail the run.
type StatusTracker interface {
	MarkRunning(ctx context.Context, id int64)
	MarkTerminal(ctx context.Context, id int64, estado registro.Estado, errMsg string)
	PersistTicket(ctx context.Context, id int64, ticket string)
}

// RegistroSource loads the registro a queued run refers to.
type RegistroSource interface {
	GetByID(ctx context.Context, id int64) (*registro.Registro, error)
}
