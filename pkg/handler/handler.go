// Package handler contains the response producers the router dispatches to:
// a deterministic expression calculator and a model-backed conversational
// responder.
package handler

import (
	"context"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
)

// Handler produces response text for a classified query.
//
// A returned error marks the response as degraded: the text is still a valid
// user-facing message (a fallback), and the error carries the cause for
// logging and for the degraded flag on the recorded turn. Handlers never
// return empty text.
type Handler interface {
	Handle(ctx context.Context, result classify.Result, history []chat.Turn) (string, error)
}
