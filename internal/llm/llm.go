// Package llm defines the boundary to the generative models. The pipeline
// treats a client as opaque: one attempt per call, any failure surfaces as
// a ModelError and the caller degrades to its deterministic fallback.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client is the contract every generative provider satisfies.
type Client interface {
	// Generate produces text for the given prompt under the given system
	// instruction. Any transport or inference failure is a *ModelError.
	Generate(ctx context.Context, prompt, instruction string) (string, error)
}

// ModelError wraps a transport or inference failure of a model call.
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// IsModelError reports whether err is (or wraps) a ModelError.
func IsModelError(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}

// Disabled is a client for deployments without an API key. Every call fails
// with a ModelError so the pipeline falls back to deterministic narration.
type Disabled struct{}

// Generate always fails.
func (Disabled) Generate(ctx context.Context, prompt, instruction string) (string, error) {
	_ = ctx
	_ = prompt
	_ = instruction
	return "", &ModelError{Provider: "disabled", Err: errors.New("no generative model configured")}
}
