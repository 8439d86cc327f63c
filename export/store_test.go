package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

func testStores(t *testing.T) map[string]ArtifactStore {
	t.Helper()
	return map[string]ArtifactStore{
		"memory": NewMemoryStore(),
		"fs":     NewFSStore(t.TempDir()),
	}
}

func TestStorePutOpenDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			meta := ArtifactMeta{
				Filename:    "consejo-de-barrio-07-03-2024.png",
				ContentType: ContentTypePNG,
				CreatedAt:   time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC),
			}

			ref, err := store.Put(ctx, "exports/1.png", bytes.NewReader([]byte("png-bytes")), meta)
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if ref.Meta.Size != int64(len("png-bytes")) {
				t.Fatalf("expected size to be recorded, got %d", ref.Meta.Size)
			}

			rc, gotMeta, err := store.Open(ctx, "exports/1.png")
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(data) != "png-bytes" {
				t.Fatalf("unexpected data %q", data)
			}
			if gotMeta.Filename != meta.Filename || gotMeta.ContentType != meta.ContentType {
				t.Fatalf("unexpected meta %+v", gotMeta)
			}

			if err := store.Delete(ctx, "exports/1.png"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, _, err := store.Open(ctx, "exports/1.png"); KindFromError(err) != KindErrNotFound {
				t.Fatalf("expected not found after delete, got %v", err)
			}
			if err := store.Delete(ctx, "exports/1.png"); KindFromError(err) != KindErrNotFound {
				t.Fatalf("expected not found on double delete, got %v", err)
			}
		})
	}
}

func TestStoreListOldestFirst(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)

			for i, key := range []string{"exports/b.png", "exports/a.png"} {
				_, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), ArtifactMeta{
					CreatedAt: base.Add(time.Duration(1-i) * time.Hour),
				})
				if err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}

			refs, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(refs) != 2 {
				t.Fatalf("expected 2 refs, got %d", len(refs))
			}
			if refs[0].Key != "exports/a.png" {
				t.Fatalf("expected oldest first, got %q", refs[0].Key)
			}
		})
	}
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	store := NewFSStore(t.TempDir())
	_, err := store.Put(context.Background(), "../escape.png", bytes.NewReader([]byte("x")), ArtifactMeta{})
	if KindFromError(err) != KindErrValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, err := store.Open(context.Background(), "../../etc/passwd"); KindFromError(err) != KindErrValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFSStoreListEmptyDir(t *testing.T) {
	store := NewFSStore(t.TempDir() + "/missing")
	refs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected empty list, got %d", len(refs))
	}
}
