package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/google/uuid"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// CacheStore is an in-memory implementation of repository.CacheRepository
// with the same key layout as the Redis cache.
type CacheStore struct {
	mu   sync.Mutex
	data map[string]cacheEntry
	now  func() time.Time
}

// NewCacheStore creates an empty cache.
func NewCacheStore() *CacheStore {
	return &CacheStore{data: make(map[string]cacheEntry), now: time.Now}
}

var _ repository.CacheRepository = (*CacheStore)(nil)

// Get returns nil on a miss or an expired entry.
func (s *CacheStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores value. A ttl of zero keeps the entry forever.
func (s *CacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *CacheStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *CacheStore) Exists(ctx context.Context, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	return v != nil, err
}

func (s *CacheStore) GetFlows(ctx context.Context, projectID uuid.UUID, setting domain.Setting) (*domain.FlowMatrix, error) {
	data, err := s.Get(ctx, domain.FlowsCacheKey(projectID, setting))
	if err != nil || data == nil {
		return nil, err
	}
	var flows domain.FlowMatrix
	if err := json.Unmarshal(data, &flows); err != nil {
		return nil, fmt.Errorf("unmarshal flows: %w", err)
	}
	return &flows, nil
}

func (s *CacheStore) SetFlows(ctx context.Context, projectID uuid.UUID, flows *domain.FlowMatrix, ttl time.Duration) error {
	data, err := json.Marshal(flows)
	if err != nil {
		return fmt.Errorf("marshal flows: %w", err)
	}
	return s.Set(ctx, domain.FlowsCacheKey(projectID, flows.Setting), data, ttl)
}

// DeleteFlows drops the entries of every setting and the project statistics.
func (s *CacheStore) DeleteFlows(_ context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := domain.FlowsCacheKeyPrefix(projectID)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	delete(s.data, domain.StatsCacheKey(projectID))
	return nil
}

func (s *CacheStore) GetStats(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStatistics, error) {
	data, err := s.Get(ctx, domain.StatsCacheKey(projectID))
	if err != nil || data == nil {
		return nil, err
	}
	var stats domain.ProjectStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &stats, nil
}

func (s *CacheStore) SetStats(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStatistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return s.Set(ctx, domain.StatsCacheKey(projectID), data, ttl)
}
