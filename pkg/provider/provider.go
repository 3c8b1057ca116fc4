// Package provider defines the model-provider collaborator contract consumed
// by the conversational handler. The engine treats every provider failure
// mode the same way: the request degrades to a fallback answer, never a
// crashed turn.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/switchboardco/switchboard/pkg/chat"
)

// ErrTimeout indicates the provider did not answer within the call deadline.
var ErrTimeout = errors.New("provider timed out")

// ErrRateLimited indicates the provider rejected the call for rate limiting.
var ErrRateLimited = errors.New("provider rate limited")

// Error is a transport or upstream failure from a provider.
type Error struct {
	Provider string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s failed with status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Provider, e.Message)
}

// Request carries the user's query plus the bounded context window of recent
// turns assembled by the conversational handler.
type Request struct {
	Query   string
	Context []chat.Turn
}

// Provider produces a completion for a query given conversation context.
type Provider interface {
	// Name returns the canonical provider name (e.g. "openai").
	Name() string

	// Complete returns the model's reply text. Failures are ErrTimeout,
	// ErrRateLimited, or a *Error; callers treat all three identically.
	Complete(ctx context.Context, req Request) (string, error)
}
