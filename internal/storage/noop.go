package storage

import (
	"context"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Store archives per-day queue rollups so history survives dataset reloads
type Store interface {
	SaveDailyQueueStats(ctx context.Context, stats []types.DailyQueueStats) error
	// GetDailyQueueStats returns one day's rollups, only the named queue's
	// when queue is not empty
	GetDailyQueueStats(ctx context.Context, dateKey, queue string) ([]types.DailyQueueStats, error)
	TruncateAll(ctx context.Context) error
}

// NoopStore is a no-op implementation when the archive is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveDailyQueueStats(_ context.Context, _ []types.DailyQueueStats) error {
	return nil
}

func (s *NoopStore) GetDailyQueueStats(_ context.Context, _, _ string) ([]types.DailyQueueStats, error) {
	return nil, nil
}

func (s *NoopStore) TruncateAll(_ context.Context) error { return nil }
