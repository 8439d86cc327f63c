package export

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestRetentionCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	put := func(key string, age time.Duration) {
		t.Helper()
		_, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), ArtifactMeta{CreatedAt: now.Add(-age)})
		if err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	put("exports/old.png", 2*time.Hour)
	put("exports/fresh.png", time.Minute)

	removed, err := Retention{Store: store, TTL: time.Hour}.Cleanup(ctx, now)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}

	if _, _, err := store.Open(ctx, "exports/fresh.png"); err != nil {
		t.Fatalf("fresh artifact must survive: %v", err)
	}
	if _, _, err := store.Open(ctx, "exports/old.png"); KindFromError(err) != KindErrNotFound {
		t.Fatalf("old artifact must be gone, got %v", err)
	}
}

func TestRetentionNilStoreIsNoop(t *testing.T) {
	removed, err := Retention{}.Cleanup(context.Background(), time.Now())
	if err != nil || removed != 0 {
		t.Fatalf("expected no-op, got %d, %v", removed, err)
	}
}
