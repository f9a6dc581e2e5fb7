package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// MemoryStore keeps the archive in process, keyed like the DynamoDB table
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]types.DailyQueueStats // DateKey -> Queue -> stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]map[string]types.DailyQueueStats)}
}

// SaveDailyQueueStats upserts by (DateKey, Queue)
func (s *MemoryStore) SaveDailyQueueStats(_ context.Context, stats []types.DailyQueueStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stats {
		day, ok := s.items[st.DateKey]
		if !ok {
			day = make(map[string]types.DailyQueueStats)
			s.items[st.DateKey] = day
		}
		day[st.Queue] = st
	}
	return nil
}

func (s *MemoryStore) GetDailyQueueStats(_ context.Context, dateKey, queue string) ([]types.DailyQueueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.DailyQueueStats, 0, len(s.items[dateKey]))
	for q, st := range s.items[dateKey] {
		if queue == "" || q == queue {
			out = append(out, st)
		}
	}
	// Same order as a DynamoDB query on the sort key
	sort.Slice(out, func(i, j int) bool { return out[i].Queue < out[j].Queue })
	return out, nil
}

func (s *MemoryStore) TruncateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]map[string]types.DailyQueueStats)
	return nil
}
