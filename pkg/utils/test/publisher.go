package testutils

import (
	"context"
	"fmt"

	"github.com/switchboardco/switchboard/pkg/eventstream"
)

// MockPublisher is a test publisher that records every published turn event.
type MockPublisher struct {
	// Events accumulates all events passed to PublishTurn.
	Events []*eventstream.TurnRecordedEvent

	// FailPublish causes PublishTurn to return an error.
	FailPublish bool
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Events: make([]*eventstream.TurnRecordedEvent, 0),
	}
}

func (m *MockPublisher) PublishTurn(_ context.Context, event *eventstream.TurnRecordedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	if m.FailPublish {
		return fmt.Errorf("mock publish failure")
	}

	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
