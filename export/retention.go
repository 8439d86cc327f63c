package export

import (
	"context"
	"time"
)

// DefaultRetentionTTL is how long artifacts survive the sweep. The
// per-artifact release timer usually wins; the sweep catches artifacts
// from interrupted runs.
const DefaultRetentionTTL = time.Hour

// Retention sweeps expired artifacts out of a store.
type Retention struct {
	Store  ArtifactStore
	TTL    time.Duration
	Logger Logger
}

// Cleanup deletes artifacts older than TTL and returns how many were
// removed. Artifacts without a creation time are treated as expired.
func (r Retention) Cleanup(ctx context.Context, now time.Time) (int, error) {
	if r.Store == nil {
		return 0, nil
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = DefaultRetentionTTL
	}
	logger := r.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	refs, err := r.Store.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, ref := range refs {
		if ref.Meta.CreatedAt.Add(ttl).After(now) && !ref.Meta.CreatedAt.IsZero() {
			continue
		}
		if err := r.Store.Delete(ctx, ref.Key); err != nil {
			if KindFromError(err) == KindErrNotFound {
				continue
			}
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		logger.Infof("retention sweep removed %d artifact(s)", removed)
	}
	return removed, nil
}
