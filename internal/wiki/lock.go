package wiki

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bramble/internal/models"
	"bramble/internal/page"
)

// DefaultLockTTL is how long a writer's claim on a page lasts before it is
// reclaimable. The lock is self-expiring; a crashed writer never wedges a
// page for longer than this.
const DefaultLockTTL = 60 * time.Second

// LockManager hands out time-boxed exclusive edit locks on pages. Exclusion
// rests entirely on the store's conditional update; no in-process mutex is
// involved, so it holds across processes sharing the database.
type LockManager struct {
	pages *page.Repository
	ttl   time.Duration
}

// NewLockManager creates a lock manager with the given lock lifetime. A zero
// ttl means DefaultLockTTL.
func NewLockManager(pages *page.Repository, ttl time.Duration) *LockManager {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &LockManager{pages: pages, ttl: ttl}
}

// Acquire claims the edit lock on a page. An expired leftover lock is
// cleared first; then a fresh token is written with a conditional update
// that only succeeds while no token is set, and a confirming read filtered
// on the new token decides who won. Losing the race is ErrPageLocked.
func (m *LockManager) Acquire(ctx context.Context, pg *models.Page) (*models.Page, error) {
	now := time.Now()

	if pg.LockExpiry != nil && !now.Before(*pg.LockExpiry) {
		if err := m.pages.Unlock(ctx, pg.ID); err != nil {
			return nil, fmt.Errorf("error clearing expired lock: %w", err)
		}
	}

	token := uuid.NewString()
	expiry := now.Add(m.ttl)

	if err := m.pages.TryLock(ctx, pg.ID, token, expiry); err != nil {
		return nil, err
	}

	locked, err := m.pages.FindLocked(pg.Title, token, expiry)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, ErrPageLocked
	}
	return locked, nil
}
