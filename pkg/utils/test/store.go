package testutils

import (
	"context"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/storage"
)

// FailingStore is a test store where every operation reports the backend
// as unavailable.
type FailingStore struct{}

func (FailingStore) Create(_ context.Context) (string, error) {
	return "", storage.ErrUnavailable
}

func (FailingStore) Append(_ context.Context, _ string, _ ...chat.Turn) error {
	return storage.ErrUnavailable
}

func (FailingStore) Read(_ context.Context, _ string, _ int) ([]chat.Turn, error) {
	return nil, storage.ErrUnavailable
}

func (FailingStore) Clear(_ context.Context, _ string) (bool, error) {
	return false, storage.ErrUnavailable
}

func (FailingStore) TotalTurns(_ context.Context) (int, error) {
	return 0, storage.ErrUnavailable
}

func (FailingStore) Sessions(_ context.Context) (int, error) {
	return 0, storage.ErrUnavailable
}

func (FailingStore) RecentSessions(_ context.Context, _ int) ([]string, error) {
	return nil, storage.ErrUnavailable
}

func (FailingStore) Name() string {
	return "failing"
}

func (FailingStore) Close() error {
	return nil
}
