package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// fakeStore keeps objects in memory. Names listed in vanished are returned
// by names but no longer exist, as when another instance deletes them
// between the listing and the read.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	vanished []string
	removed  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) write(ctx context.Context, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) open(ctx context.Context, name string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[name]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) remove(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[name]; !ok {
		return storage.ErrObjectNotExist
	}
	delete(f.objects, name)
	f.removed = append(f.removed, name)
	return nil
}

func (f *fakeStore) names(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for name := range f.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	names = append(names, f.vanished...)
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) close() error { return nil }

func TestGCSRepository_ObjectName(t *testing.T) {
	repo := &gcsRepository{prefix: gcsPrefix}

	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{
			name:     "uuid",
			id:       "7d3c1f0e-8f0b-4b59-9a8e-1c2d3e4f5a6b",
			expected: "documents/7d3c1f0e-8f0b-4b59-9a8e-1c2d3e4f5a6b.json",
		},
		{
			name:     "short id",
			id:       "abc",
			expected: "documents/abc.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := repo.objectName(tt.id)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
			if back := repo.idFromObject(result); back != tt.id {
				t.Errorf("Expected id '%s', got '%s'", tt.id, back)
			}
		})
	}
}

func TestDecodeDocument(t *testing.T) {
	input := `{
		"id": "doc-1",
		"profile": {"name": "Jane Doe", "job_position": "Engineer"},
		"markdown": "# Jane Doe",
		"model": "gemini-1.5-pro",
		"created_at": "2024-01-01T12:00:00Z",
		"expires_at": "2024-01-02T12:00:00Z"
	}`

	doc, err := decodeDocument(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decodeDocument failed: %v", err)
	}
	if doc.ID != "doc-1" || doc.Profile.Position != "Engineer" {
		t.Errorf("Unexpected document: %+v", doc)
	}
	if doc.ExpiresAt.Sub(doc.CreatedAt).Hours() != 24 {
		t.Errorf("Expected 24h TTL, got %v", doc.ExpiresAt.Sub(doc.CreatedAt))
	}

	if _, err := decodeDocument(strings.NewReader("{not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestGCSRepository_SaveGetDelete(t *testing.T) {
	store := newFakeStore()
	repo := newGCSRepository(store)
	ctx := context.Background()

	doc := newTestDocument("doc-1", time.Now(), time.Hour)
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := store.objects["documents/doc-1.json"]; !ok {
		t.Fatal("Expected object documents/doc-1.json")
	}

	got, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Profile.Name != "Jane Doe" {
		t.Errorf("Unexpected document: %+v", got)
	}

	if err := repo.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestGCSRepository_ListSkipsExpiredAndVanished(t *testing.T) {
	store := newFakeStore()
	repo := newGCSRepository(store)
	ctx := context.Background()
	now := time.Now()
	repo.now = func() time.Time { return now }

	repo.Save(ctx, newTestDocument("old", now.Add(-2*time.Hour), time.Hour))
	repo.Save(ctx, newTestDocument("live-1", now.Add(-time.Minute), time.Hour))
	repo.Save(ctx, newTestDocument("live-2", now, time.Hour))
	store.vanished = []string{"documents/gone.json"}

	if _, err := repo.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected expired document to be hidden, got %v", err)
	}

	docs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 live documents, got %d", len(docs))
	}
	if docs[0].ID != "live-2" || docs[1].ID != "live-1" {
		t.Errorf("Expected newest first, got %s, %s", docs[0].ID, docs[1].ID)
	}
}

func TestGCSRepository_DeleteExpired(t *testing.T) {
	store := newFakeStore()
	repo := newGCSRepository(store)
	ctx := context.Background()
	now := time.Now()

	repo.Save(ctx, newTestDocument("old-1", now.Add(-3*time.Hour), time.Hour))
	repo.Save(ctx, newTestDocument("old-2", now.Add(-2*time.Hour), time.Hour))
	repo.Save(ctx, newTestDocument("live", now, time.Hour))
	repo.Save(ctx, newTestDocument("forever", now.Add(-48*time.Hour), 0))
	store.vanished = []string{"documents/gone.json"}

	n, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deleted, got %d", n)
	}
	if len(store.removed) != 2 {
		t.Errorf("Expected 2 objects removed, got %v", store.removed)
	}
	for _, id := range []string{"live", "forever"} {
		if _, ok := store.objects[repo.objectName(id)]; !ok {
			t.Errorf("Expected %s to be kept", id)
		}
	}
}

// Runs against a real bucket or an emulator (STORAGE_EMULATOR_HOST).
func TestGCSRepository_Integration(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set")
	}

	ctx := context.Background()
	repo, err := NewGCSRepository(ctx, bucket)
	if err != nil {
		t.Fatalf("NewGCSRepository failed: %v", err)
	}
	defer repo.Close()

	id := uuid.NewString()
	if err := repo.Save(ctx, newTestDocument(id, time.Now(), time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	defer repo.Delete(ctx, id)

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != id {
		t.Errorf("Expected id %s, got %s", id, got.ID)
	}
}
