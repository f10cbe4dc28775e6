package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory department catalogue.
type Repository struct {
	mu          sync.RWMutex
	departments map[string]*domain.Department
}

func NewRepository() *Repository {
	return &Repository{departments: map[string]*domain.Department{}}
}

func (r *Repository) List(_ context.Context) ([]*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Department, 0, len(r.departments))
	for _, d := range r.departments {
		clone := *d
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.departments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *Repository) Create(_ context.Context, department *domain.Department) (*domain.Department, error) {
	if department == nil {
		return nil, errors.New("department is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.departments {
		if existing.Name == department.Name {
			return nil, ports.ErrDuplicateName
		}
	}
	clone := *department
	r.departments[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.departments[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.departments, id)
	return nil
}

func (r *Repository) ReplaceAll(_ context.Context, departments []*domain.Department) error {
	next := make(map[string]*domain.Department, len(departments))
	for _, d := range departments {
		if d == nil {
			continue
		}
		clone := *d
		next[clone.ID] = &clone
	}
	r.mu.Lock()
	r.departments = next
	r.mu.Unlock()
	return nil
}
