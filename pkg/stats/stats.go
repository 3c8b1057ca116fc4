// Package stats provides the read-only statistics rollup over the session
// memory store.
package stats

import (
	"context"
	"fmt"
)

// Source is the read-only slice of the store the aggregator consumes.
// A narrowed interface keeps mutation out of reach by construction.
type Source interface {
	TotalTurns(ctx context.Context) (int, error)
	Sessions(ctx context.Context) (int, error)
	RecentSessions(ctx context.Context, k int) ([]string, error)
}

// Stats is one on-demand snapshot. No caching: callers pay for freshness.
type Stats struct {
	TotalMessages  int      `json:"total_messages"`
	ActiveSessions int      `json:"active_sessions"`
	RecentSessions []string `json:"recent_sessions"`
}

// DefaultRecentLimit bounds the recent-session list in a snapshot.
const DefaultRecentLimit = 5

// Aggregator computes usage statistics from a Source.
type Aggregator struct {
	source      Source
	recentLimit int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithRecentLimit overrides how many recent sessions a snapshot includes.
func WithRecentLimit(k int) Option {
	return func(a *Aggregator) {
		if k > 0 {
			a.recentLimit = k
		}
	}
}

// NewAggregator creates an aggregator over the given source.
func NewAggregator(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:      source,
		recentLimit: DefaultRecentLimit,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Snapshot computes the current statistics.
func (a *Aggregator) Snapshot(ctx context.Context) (Stats, error) {
	total, err := a.source.TotalTurns(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting messages: %w", err)
	}

	active, err := a.source.Sessions(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting sessions: %w", err)
	}

	recent, err := a.RecentSessions(ctx, a.recentLimit)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalMessages:  total,
		ActiveSessions: active,
		RecentSessions: recent,
	}, nil
}

// RecentSessions returns at most k recently active session identifiers,
// most recent first. Sessions without turns never appear.
func (a *Aggregator) RecentSessions(ctx context.Context, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	ids, err := a.source.RecentSessions(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("listing recent sessions: %w", err)
	}

	// The contract caps the list at k even if a driver over-returns.
	if len(ids) > k {
		ids = ids[:k]
	}

	return ids, nil
}
