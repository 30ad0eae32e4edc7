// Package llm turns free-text legal publications into structured records
// using one of two interchangeable language-model backends.
package llm

import "context"

// Provider abstracts a language-model backend so the extractor and tests
// can swap implementations. One implementation per backend, selected once
// at startup from configuration.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	Ping(ctx context.Context) error
}
