package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newPostgresTestRepository(t *testing.T) DocumentRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	repo, err := NewPostgresRepository(context.Background(), dsn)
	if err != nil {
		t.Fatalf("NewPostgresRepository failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestPostgresRepository_SaveGetDelete(t *testing.T) {
	repo := newPostgresTestRepository(t)
	ctx := context.Background()

	id := uuid.NewString()
	doc := newTestDocument(id, time.Now().UTC().Truncate(time.Microsecond), time.Hour)
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Profile.Name != "Jane Doe" || got.Markdown != doc.Markdown {
		t.Errorf("Unexpected document: %+v", got)
	}
	if !got.ExpiresAt.Equal(doc.ExpiresAt) {
		t.Errorf("Expected expires_at %v, got %v", doc.ExpiresAt, got.ExpiresAt)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRepository_DeleteExpired(t *testing.T) {
	repo := newPostgresTestRepository(t)
	ctx := context.Background()

	id := uuid.NewString()
	past := time.Now().Add(-2 * time.Hour)
	if err := repo.Save(ctx, newTestDocument(id, past, time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected expired document to be hidden, got %v", err)
	}

	deleted, err := repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if deleted < 1 {
		t.Errorf("Expected at least 1 deleted document, got %d", deleted)
	}
}
