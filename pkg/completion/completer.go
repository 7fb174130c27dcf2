// Package completion provides the text-completion capability used by the writing toolkit
// and the workflow runner.
package completion

import "context"

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// CredentialSource resolves the API key at call time, so a key saved after startup is picked up.
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a fixed API key, typically provided by flag or environment.
type StaticKey string

func (k StaticKey) APIKey(_ context.Context) (string, error) {
	return string(k), nil
}
