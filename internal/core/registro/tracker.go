package registro

import (
	"context"

	"sicbot/internal/logger"
	"sicbot/internal/platform/redis"
)

// Tracker records workflow state transitions against a registro. All writes
// are best-effort: a run must not fail merely because a status write did.
type Tracker struct {
	log   *logger.Logger
	repo  *Repository
	cache *redis.Service
}

func NewTracker(repo *Repository, cache *redis.Service) *Tracker {
	return &Tracker{log: logger.New("StatusTracker"), repo: repo, cache: cache}
}

// MarkRunning sets EN_PROCESO and clears the last error.
func (t *Tracker) MarkRunning(ctx context.Context, id int64) {
	if err := t.repo.SetEstado(ctx, id, EstadoEnProceso, nil); err != nil {
		t.log.LogErrorf("registro %d: mark running failed: %v", id, err)
		return
	}
	t.invalidate(ctx, id)
}

// MarkTerminal sets COMPLETADO or ERROR. errMsg is stored only for ERROR.
func (t *Tracker) MarkTerminal(ctx context.Context, id int64, estado Estado, errMsg string) {
	var ultimoError *string
	if estado == EstadoError && errMsg != "" {
		ultimoError = &errMsg
	}
	if err := t.repo.SetEstado(ctx, id, estado, ultimoError); err != nil {
		t.log.LogErrorf("registro %d: mark %s failed: %v", id, estado, err)
		return
	}
	t.invalidate(ctx, id)
}

// PersistTicket stores the recovered ticket. No-op on empty ticket.
func (t *Tracker) PersistTicket(ctx context.Context, id int64, ticket string) {
	if ticket == "" {
		return
	}
	if err := t.repo.SetTicket(ctx, id, ticket); err != nil {
		t.log.LogErrorf("registro %d: persist ticket %s failed: %v", id, ticket, err)
		return
	}
	t.invalidate(ctx, id)
}

// invalidate drops the cached read so pollers see the new state before the
// TTL expires.
func (t *Tracker) invalidate(ctx context.Context, id int64) {
	if t.cache == nil {
		return
	}
	if err := t.cache.CacheDel(ctx, cacheKey(id)); err != nil {
		t.log.LogDebugf("registro %d: cache invalidate failed: %v", id, err)
	}
}
