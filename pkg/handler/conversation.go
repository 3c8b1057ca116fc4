package handler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
	"github.com/switchboardco/switchboard/pkg/provider"
)

const (
	// DefaultContextWindow bounds how many recent turns are passed to the
	// provider as conversation context.
	DefaultContextWindow = 10

	// DefaultCallTimeout bounds a single provider call.
	DefaultCallTimeout = 30 * time.Second

	// chatFallback is the degraded answer when the provider fails.
	chatFallback = "I apologize, but I encountered an error processing your request. Please try again."

	// emptyInputReply answers empty or whitespace-only input without a
	// provider call.
	emptyInputReply = "Please type a message and I'll do my best to help."
)

// ProviderFailure wraps the provider error behind a degraded conversational
// answer. Timeouts, rate limits, and transport errors all land here.
type ProviderFailure struct {
	Provider string
	Err      error
}

func (e *ProviderFailure) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderFailure) Unwrap() error {
	return e.Err
}

// Conversation is the model-backed responder. It consumes the session's
// recent turns as context and delegates to the provider collaborator,
// attempting the call at most once per request.
type Conversation struct {
	provider    provider.Provider
	window      int
	callTimeout time.Duration
	logger      *zap.Logger
}

// ConversationOption configures the conversational handler.
type ConversationOption func(*Conversation)

// WithContextWindow overrides the number of recent turns sent as context.
func WithContextWindow(n int) ConversationOption {
	return func(h *Conversation) {
		if n > 0 {
			h.window = n
		}
	}
}

// WithCallTimeout overrides the per-call provider deadline.
func WithCallTimeout(d time.Duration) ConversationOption {
	return func(h *Conversation) {
		if d > 0 {
			h.callTimeout = d
		}
	}
}

// NewConversation creates the conversational handler.
func NewConversation(p provider.Provider, logger *zap.Logger, opts ...ConversationOption) *Conversation {
	h := &Conversation{
		provider:    p,
		window:      DefaultContextWindow,
		callTimeout: DefaultCallTimeout,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Handle produces a reply for conversational input. Provider failures return
// the fallback text plus a *ProviderFailure so the router can mark the turn
// degraded; the request itself never faults.
func (h *Conversation) Handle(ctx context.Context, result classify.Result, history []chat.Turn) (string, error) {
	if result.Raw == "" {
		return emptyInputReply, nil
	}

	// A caller disconnect observed before the call starts means no new
	// provider work should begin.
	if err := ctx.Err(); err != nil {
		return chatFallback, &ProviderFailure{Provider: h.provider.Name(), Err: err}
	}

	window := history
	if len(window) > h.window {
		window = window[len(window)-h.window:]
	}

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout)
	defer cancel()

	reply, err := h.provider.Complete(callCtx, provider.Request{
		Query:   result.Raw,
		Context: window,
	})
	if err != nil {
		h.logger.Warn("provider call failed",
			zap.String("provider", h.provider.Name()),
			zap.Error(err),
		)
		return chatFallback, &ProviderFailure{Provider: h.provider.Name(), Err: err}
	}

	if reply == "" {
		reply = "I'm sorry, I couldn't generate a response."
	}

	return reply, nil
}

var (
	_ Handler = (*Calculator)(nil)
	_ Handler = (*Conversation)(nil)
)
