// Package memory holds in-memory repositories for tests, demos and the CLI.
package memory

import (
	"context"
	"sync"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/google/uuid"
)

// ProjectStore is an in-memory implementation of repository.ProjectRepository.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*domain.Project
}

// NewProjectStore creates an empty store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[uuid.UUID]*domain.Project)}
}

// Compile-time interface check.
var _ repository.ProjectRepository = (*ProjectStore)(nil)

// GetProject returns a copy of the stored project.
func (s *ProjectStore) GetProject(_ context.Context, projectID uuid.UUID) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return copyProject(p), nil
}

// GetMarket returns one market of a project.
func (s *ProjectStore) GetMarket(_ context.Context, projectID uuid.UUID, marketID int64) (*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	for _, m := range p.Markets {
		if m.ID == marketID {
			m := m
			return &m, nil
		}
	}
	return nil, domain.ErrMarketNotFound
}

// SaveProject replaces the project. The store keeps its own copy.
func (s *ProjectStore) SaveProject(_ context.Context, projectID uuid.UUID, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects[projectID] = copyProject(project)
	return nil
}

func copyProject(p *domain.Project) *domain.Project {
	return &domain.Project{
		Markets:   append([]domain.Market(nil), p.Markets...),
		Cells:     append([]domain.Cell(nil), p.Cells...),
		Relations: append([]domain.Relation(nil), p.Relations...),
	}
}

// BaseDataStore is an in-memory implementation of repository.BaseDataRepository.
type BaseDataStore struct {
	mu   sync.RWMutex
	base domain.BaseData
}

// NewBaseDataStore creates a store holding base.
func NewBaseDataStore(base domain.BaseData) *BaseDataStore {
	s := &BaseDataStore{}
	s.base = copyBaseData(&base)
	return s
}

var _ repository.BaseDataRepository = (*BaseDataStore)(nil)

// GetBaseData returns a copy of the base data.
func (s *BaseDataStore) GetBaseData(_ context.Context) (*domain.BaseData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base := copyBaseData(&s.base)
	return &base, nil
}

// SaveBaseData replaces the base data.
func (s *BaseDataStore) SaveBaseData(_ context.Context, base *domain.BaseData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base = copyBaseData(base)
	return nil
}

func copyBaseData(b *domain.BaseData) domain.BaseData {
	return domain.BaseData{
		SizeClasses:          append([]domain.MunicipalitySizeClass(nil), b.SizeClasses...),
		DecayCoefficients:    append([]domain.DecayCoefficient(nil), b.DecayCoefficients...),
		DiscountCoefficients: append([]domain.DiscountCoefficient(nil), b.DiscountCoefficients...),
	}
}
