package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when neither the request nor the configuration supplies a key.
	ErrMissingAPIKey = errors.New("no API key configured")
	// ErrInvalidAPIKey is returned when the provider rejects the key.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// Generator sends a prompt to a hosted model and returns its text answer
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// GeneratorFactory returns a generator that authenticates with apiKey
type GeneratorFactory func(apiKey string) Generator

// KeyVerifier is implemented by generators with a dedicated key check
type KeyVerifier interface {
	VerifyAPIKey(ctx context.Context) error
}

// InvalidKeyError is implemented by provider errors that can tell a rejected key apart
type InvalidKeyError interface {
	error
	InvalidKey() bool
}

// classify maps provider errors onto the service sentinels
func classify(err error) error {
	var keyErr InvalidKeyError
	if errors.As(err, &keyErr) && keyErr.InvalidKey() {
		return fmt.Errorf("%w: %w", ErrInvalidAPIKey, err)
	}
	return err
}
