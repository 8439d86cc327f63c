package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore stores artifacts in memory (test/dev only).
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	meta ArtifactMeta
}

// NewMemoryStore creates an in-memory artifact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

// Put stores an artifact.
func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	_ = ctx
	if key == "" {
		return ArtifactRef{}, NewError(KindErrValidation, "artifact key is required", nil)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ArtifactRef{}, err
	}
	meta.Size = int64(len(data))
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, meta: meta}
	s.mu.Unlock()

	return ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact.
func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error) {
	_ = ctx
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ArtifactMeta{}, NewError(KindErrNotFound, fmt.Sprintf("artifact %q not found", key), nil)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}

// Delete removes an artifact.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return NewError(KindErrNotFound, fmt.Sprintf("artifact %q not found", key), nil)
	}
	delete(s.objects, key)
	return nil
}

// List returns stored artifacts, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]ArtifactRef, error) {
	_ = ctx
	s.mu.RLock()
	refs := make([]ArtifactRef, 0, len(s.objects))
	for key, obj := range s.objects {
		refs = append(refs, ArtifactRef{Key: key, Meta: obj.meta})
	}
	s.mu.RUnlock()

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Meta.CreatedAt.Before(refs[j].Meta.CreatedAt)
	})
	return refs, nil
}

// FSStore stores artifacts on the filesystem under a base directory.
// The artifact bytes live next to a small sidecar carrying the meta.
type FSStore struct {
	dir string
}

// NewFSStore creates a filesystem artifact store rooted at dir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

func (s *FSStore) paths(key string) (string, string, error) {
	clean := filepath.Clean(strings.ReplaceAll(key, "/", string(filepath.Separator)))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", "", NewError(KindErrValidation, fmt.Sprintf("invalid artifact key %q", key), nil)
	}
	data := filepath.Join(s.dir, clean)
	return data, data + ".meta", nil
}

// Put stores an artifact.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	_ = ctx
	if key == "" {
		return ArtifactRef{}, NewError(KindErrValidation, "artifact key is required", nil)
	}
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return ArtifactRef{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return ArtifactRef{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ArtifactRef{}, err
	}
	meta.Size = int64(len(data))
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return ArtifactRef{}, err
	}
	if err := os.WriteFile(metaPath, encodeMeta(meta), 0o644); err != nil {
		_ = os.Remove(dataPath)
		return ArtifactRef{}, err
	}

	return ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact.
func (s *FSStore) Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error) {
	_ = ctx
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return nil, ArtifactMeta{}, err
	}

	metaRaw, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ArtifactMeta{}, NewError(KindErrNotFound, fmt.Sprintf("artifact %q not found", key), nil)
		}
		return nil, ArtifactMeta{}, err
	}
	meta := decodeMeta(metaRaw)

	f, err := os.Open(dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ArtifactMeta{}, NewError(KindErrNotFound, fmt.Sprintf("artifact %q not found", key), nil)
		}
		return nil, ArtifactMeta{}, err
	}
	if info, err := f.Stat(); err == nil {
		meta.Size = info.Size()
	}
	return f, meta, nil
}

// Delete removes an artifact and its sidecar.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dataPath); err != nil {
		if os.IsNotExist(err) {
			return NewError(KindErrNotFound, fmt.Sprintf("artifact %q not found", key), nil)
		}
		return err
	}
	_ = os.Remove(metaPath)
	return nil
}

// List walks the base directory and returns artifacts, oldest first.
func (s *FSStore) List(ctx context.Context) ([]ArtifactRef, error) {
	_ = ctx
	var refs []ArtifactRef
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta") {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		meta := ArtifactMeta{}
		if raw, err := os.ReadFile(path + ".meta"); err == nil {
			meta = decodeMeta(raw)
		} else if info, err := d.Info(); err == nil {
			meta.Size = info.Size()
			meta.CreatedAt = info.ModTime()
		}
		refs = append(refs, ArtifactRef{Key: key, Meta: meta})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Meta.CreatedAt.Before(refs[j].Meta.CreatedAt)
	})
	return refs, nil
}

// Sidecar format: filename, content type and creation time, one per
// line. Enough for serving downloads; not a general metadata codec.
func encodeMeta(meta ArtifactMeta) []byte {
	return []byte(meta.Filename + "\n" + meta.ContentType + "\n" + meta.CreatedAt.UTC().Format(time.RFC3339Nano) + "\n")
}

func decodeMeta(raw []byte) ArtifactMeta {
	lines := strings.Split(string(raw), "\n")
	meta := ArtifactMeta{}
	if len(lines) > 0 {
		meta.Filename = lines[0]
	}
	if len(lines) > 1 {
		meta.ContentType = lines[1]
	}
	if len(lines) > 2 {
		if ts, err := time.Parse(time.RFC3339Nano, lines[2]); err == nil {
			meta.CreatedAt = ts
		}
	}
	return meta
}
