package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/pep299/cv-generator/internal/cv"
	"google.golang.org/api/iterator"
)

const gcsPrefix = "documents/"

// objectStore is the subset of a bucket the repository needs. Missing
// objects are reported as storage.ErrObjectNotExist.
type objectStore interface {
	write(ctx context.Context, name string, data []byte) error
	open(ctx context.Context, name string) (io.ReadCloser, error)
	remove(ctx context.Context, name string) error
	names(ctx context.Context, prefix string) ([]string, error)
	close() error
}

// bucketStore implements objectStore on a Cloud Storage bucket
type bucketStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

func (b *bucketStore) write(ctx context.Context, name string, data []byte) error {
	writer := b.bucket.Object(name).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("writing object data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}
	return nil
}

func (b *bucketStore) open(ctx context.Context, name string) (io.ReadCloser, error) {
	return b.bucket.Object(name).NewReader(ctx)
}

func (b *bucketStore) remove(ctx context.Context, name string) error {
	return b.bucket.Object(name).Delete(ctx)
}

func (b *bucketStore) names(ctx context.Context, prefix string) ([]string, error) {
	it := b.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (b *bucketStore) close() error {
	return b.client.Close()
}

// gcsRepository stores each document as a JSON object in a Cloud Storage bucket
type gcsRepository struct {
	store  objectStore
	prefix string
	now    func() time.Time
}

// NewGCSRepository creates a Cloud Storage backed repository
func NewGCSRepository(ctx context.Context, bucketName string) (DocumentRepository, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return newGCSRepository(&bucketStore{client: client, bucket: client.Bucket(bucketName)}), nil
}

func newGCSRepository(store objectStore) *gcsRepository {
	return &gcsRepository{
		store:  store,
		prefix: gcsPrefix,
		now:    time.Now,
	}
}

func (r *gcsRepository) objectName(id string) string {
	return r.prefix + id + ".json"
}

func (r *gcsRepository) idFromObject(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, r.prefix), ".json")
}

func (r *gcsRepository) Save(ctx context.Context, doc *cv.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	return r.store.write(ctx, r.objectName(doc.ID), data)
}

func (r *gcsRepository) Get(ctx context.Context, id string) (*cv.Document, error) {
	doc, err := r.read(ctx, r.objectName(id))
	if err != nil {
		return nil, err
	}
	if doc.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (r *gcsRepository) read(ctx context.Context, objectName string) (*cv.Document, error) {
	reader, err := r.store.open(ctx, objectName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening object reader: %w", err)
	}
	defer reader.Close()

	return decodeDocument(reader)
}

func decodeDocument(r io.Reader) (*cv.Document, error) {
	var doc cv.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}
	return &doc, nil
}

func (r *gcsRepository) Delete(ctx context.Context, id string) error {
	err := r.store.remove(ctx, r.objectName(id))
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// each calls fn for every stored document. Objects deleted between the
// listing and the read are skipped.
func (r *gcsRepository) each(ctx context.Context, fn func(name string, doc *cv.Document) error) error {
	names, err := r.store.names(ctx, r.prefix)
	if err != nil {
		return err
	}

	for _, name := range names {
		doc, err := r.read(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(name, doc); err != nil {
			return err
		}
	}
	return nil
}

func (r *gcsRepository) List(ctx context.Context) ([]*cv.Document, error) {
	now := r.now()

	var docs []*cv.Document
	err := r.each(ctx, func(_ string, doc *cv.Document) error {
		if !doc.Expired(now) {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(docs)
	return docs, nil
}

func (r *gcsRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	deleted := 0
	err := r.each(ctx, func(name string, doc *cv.Document) error {
		if !doc.Expired(now) {
			return nil
		}
		if err := r.store.remove(ctx, name); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("deleting object %s: %w", r.idFromObject(name), err)
		}
		deleted++
		return nil
	})
	return deleted, err
}

// Close closes the Cloud Storage client
func (r *gcsRepository) Close() error {
	return r.store.close()
}
