package mocks

import (
	"context"
	"sync"
)

// MockGenerator records prompts and answers with a fixed text or error
type MockGenerator struct {
	mu      sync.Mutex
	Text    string
	Err     error
	ModelID string
	Prompts []string
	Keys    []string
}

// WithAPIKey records the key a client was requested for and returns m
func (m *MockGenerator) WithAPIKey(apiKey string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Keys = append(m.Keys, apiKey)
	return m
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

func (m *MockGenerator) Model() string {
	if m.ModelID == "" {
		return "mock-model"
	}
	return m.ModelID
}

// Calls returns how many prompts were sent
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
