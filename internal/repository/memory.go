package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pep299/cv-generator/internal/cv"
)

type memoryRepository struct {
	mu   sync.RWMutex
	docs map[string]cv.Document
	now  func() time.Time
}

// NewMemoryRepository creates a repository that keeps documents in process memory
func NewMemoryRepository() DocumentRepository {
	return &memoryRepository{
		docs: make(map[string]cv.Document),
		now:  time.Now,
	}
}

func (r *memoryRepository) Save(ctx context.Context, doc *cv.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[doc.ID] = *doc
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id string) (*cv.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok || doc.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

// List returns live documents, newest first
func (r *memoryRepository) List(ctx context.Context) ([]*cv.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	docs := make([]*cv.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		if doc.Expired(now) {
			continue
		}
		d := doc
		docs = append(docs, &d)
	}
	sortNewestFirst(docs)
	return docs, nil
}

func (r *memoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, doc := range r.docs {
		if doc.Expired(now) {
			delete(r.docs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memoryRepository) Close() error {
	return nil
}

func sortNewestFirst(docs []*cv.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}
