package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/pep299/cv-generator/internal/cv"
)

// MockDocumentRepo fails every call with Err
type MockDocumentRepo struct {
	Err error
}

func (m *MockDocumentRepo) Save(ctx context.Context, doc *cv.Document) error {
	return m.err()
}

func (m *MockDocumentRepo) Get(ctx context.Context, id string) (*cv.Document, error) {
	return nil, m.err()
}

func (m *MockDocumentRepo) Delete(ctx context.Context, id string) error {
	return m.err()
}

func (m *MockDocumentRepo) List(ctx context.Context) ([]*cv.Document, error) {
	return nil, m.err()
}

func (m *MockDocumentRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, m.err()
}

func (m *MockDocumentRepo) Close() error {
	return nil
}

func (m *MockDocumentRepo) err() error {
	if m.Err == nil {
		return errors.New("mock repository failure")
	}
	return m.Err
}
