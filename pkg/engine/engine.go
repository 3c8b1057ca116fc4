// Package engine implements the decision graph router: the four-stage
// request pipeline that classifies a query, dispatches it to a handler,
// collects the response, and records the turn pair in session memory.
//
// The graph is a fixed acyclic sequence per request:
//
//	Start → Classify → Dispatch → {RespondCalc | RespondChat} → Record → End
//
// No node is revisited and no stage is skipped. Handler-level failures
// (arithmetic errors, provider failures) collapse into a degraded terminal
// that still produces user-facing text and still records the turn; only a
// storage outage escalates past the engine as an error.
package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
	"github.com/switchboardco/switchboard/pkg/eventstream"
	"github.com/switchboardco/switchboard/pkg/handler"
	"github.com/switchboardco/switchboard/pkg/stats"
	"github.com/switchboardco/switchboard/pkg/storage"
	"github.com/switchboardco/switchboard/pkg/utils"
	"github.com/switchboardco/switchboard/pkg/validate"
)

// historyContextLimit bounds how many stored turns the engine loads as
// handler context. The conversational handler applies its own window on top.
const historyContextLimit = 20

// Result is the terminal output of one request lifecycle.
type Result struct {
	Success   bool           `json:"success"`
	SessionID string         `json:"session_id"`
	Response  string         `json:"response"`
	QueryType chat.QueryType `json:"query_type"`
}

// History is a session read-back plus the driver that served it.
type History struct {
	SessionID string      `json:"session_id"`
	Turns     []chat.Turn `json:"history"`
	Source    string      `json:"source"`
}

// Engine wires the classifier, handlers, store, and event publisher into one
// explicitly passed handle. There are no package-level singletons: every
// dependency arrives through New.
type Engine struct {
	store  storage.Store
	calc   handler.Handler
	conv   handler.Handler
	events eventstream.Publisher
	stats  *stats.Aggregator
	logger *zap.Logger
}

// New creates an engine over the given collaborators.
func New(
	store storage.Store,
	calc handler.Handler,
	conv handler.Handler,
	events eventstream.Publisher,
	aggregator *stats.Aggregator,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		store:  store,
		calc:   calc,
		conv:   conv,
		events: events,
		stats:  aggregator,
		logger: logger,
	}
}

// Process runs one request through the graph. A non-nil error means a
// storage failure; every handler-level failure is absorbed into a degraded
// Result with Success=false and a recorded turn pair.
func (e *Engine) Process(ctx context.Context, query, sessionID string) (*Result, error) {
	// Input gate, ahead of the graph proper. Rejected input is not a
	// conversation: nothing is minted and nothing is recorded.
	if err := validate.Query(query); err != nil {
		var verr *validate.Error
		message := "Invalid query"
		if errors.As(err, &verr) {
			message = "Invalid query: " + verr.Message
		}
		return &Result{
			Success:   false,
			SessionID: sessionID,
			Response:  message,
		}, nil
	}
	query = validate.Sanitize(query)

	if sessionID == "" {
		minted, err := e.store.Create(ctx)
		if err != nil {
			return nil, err
		}
		sessionID = minted
	}

	// Classify: total, never fails.
	classified := classify.Classify(query)
	e.logger.Debug("classified query",
		zap.String("session_id", sessionID),
		zap.String("query", utils.Truncate(query, 50)),
		zap.String("query_type", string(classified.Type)),
	)

	// Dispatch: exactly one edge per query type, no fallthrough.
	var selected handler.Handler
	switch classified.Type {
	case chat.QueryCalculation:
		selected = e.calc
	default:
		selected = e.conv
	}

	history, err := e.store.Read(ctx, sessionID, historyContextLimit)
	if err != nil {
		return nil, err
	}

	// Respond: a handler error reroutes to the degraded terminal. The
	// returned text is valid user-facing content either way.
	var outcome terminal
	text, handleErr := selected.Handle(ctx, classified, history)
	if handleErr != nil {
		e.logger.Warn("handler degraded",
			zap.String("session_id", sessionID),
			zap.String("query_type", string(classified.Type)),
			zap.Error(handleErr),
		)
		outcome = degradedTerminal(text, handleErr)
	} else {
		outcome = normalTerminal(text)
	}

	// Record: always runs exactly once, for both terminals. The conversation
	// happened even when the answer degraded, and a caller disconnect must
	// not lose it, so recording proceeds on an uncancelable context.
	recordCtx := context.WithoutCancel(ctx)

	userTurn := chat.NewUserTurn(query)
	botTurn := chat.NewBotTurn(outcome.text, classified.Type, outcome.degraded())

	if err := e.store.Append(recordCtx, sessionID, userTurn, botTurn); err != nil {
		return nil, err
	}

	e.publishTurn(recordCtx, sessionID, classified.Type, outcome, userTurn, botTurn)

	return &Result{
		Success:   !outcome.degraded(),
		SessionID: sessionID,
		Response:  outcome.text,
		QueryType: classified.Type,
	}, nil
}

// publishTurn emits the turn-recorded event synchronously. Publish failures
// are logged and dropped; they never affect the request outcome.
func (e *Engine) publishTurn(
	ctx context.Context,
	sessionID string,
	queryType chat.QueryType,
	outcome terminal,
	userTurn, botTurn chat.Turn,
) {
	event := &eventstream.TurnRecordedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeTurnRecorded,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		SessionID:     sessionID,
		QueryType:     queryType,
		Degraded:      outcome.degraded(),
		UserChars:     len(userTurn.Content),
		BotChars:      len(botTurn.Content),
	}

	if err := e.events.PublishTurn(ctx, event); err != nil {
		e.logger.Warn("turn event publish failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// History reads back a session's turns in chronological order, tagged with
// the store driver that served them.
func (e *Engine) History(ctx context.Context, sessionID string, limit int) (*History, error) {
	turns, err := e.store.Read(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}

	return &History{
		SessionID: sessionID,
		Turns:     turns,
		Source:    e.store.Name(),
	}, nil
}

// ClearSession removes a session's turns. Returns false when the session did
// not exist; that is not an error.
func (e *Engine) ClearSession(ctx context.Context, sessionID string) (bool, error) {
	return e.store.Clear(ctx, sessionID)
}

// Statistics computes the current usage rollup.
func (e *Engine) Statistics(ctx context.Context) (stats.Stats, error) {
	return e.stats.Snapshot(ctx)
}
