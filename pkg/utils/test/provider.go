package testutils

import (
	"context"

	"github.com/switchboardco/switchboard/pkg/provider"
)

// MockProvider is a test provider that returns a canned reply and records
// every request it receives.
type MockProvider struct {
	// Reply is returned by Complete for any request.
	Reply string

	// FailWith causes Complete to return an error.
	FailWith error

	// Requests accumulates all requests passed to Complete.
	Requests []provider.Request
}

// NewMockProvider creates a mock provider returning the given reply.
func NewMockProvider(reply string) *MockProvider {
	return &MockProvider{
		Reply:    reply,
		Requests: make([]provider.Request, 0),
	}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(_ context.Context, req provider.Request) (string, error) {
	m.Requests = append(m.Requests, req)

	if m.FailWith != nil {
		return "", m.FailWith
	}

	return m.Reply, nil
}
