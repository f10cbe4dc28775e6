package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
	"github.com/Apurer/parcel-intake-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory parcel store used for demos and tests.
type Repository struct {
	mu      sync.RWMutex
	parcels map[string]*storedParcel
	seq     int64
	now     func() time.Time
}

type storedParcel struct {
	parcel   *domain.Parcel
	metadata projection.Metadata
	seq      int64
}

// Option customises the in-memory repository.
type Option func(*Repository)

// WithClock overrides the time source used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository constructs an empty in-memory store.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		parcels: map[string]*storedParcel{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Create inserts a parcel unless its id is already taken.
func (r *Repository) Create(_ context.Context, parcel *domain.Parcel) (*types.ParcelProjection, error) {
	if parcel == nil {
		return nil, errors.New("cannot create nil parcel")
	}
	if err := parcel.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parcels[parcel.ParcelID]; ok {
		return nil, ports.ErrDuplicateParcel
	}
	timestamp := r.now()
	r.seq++
	stored := &storedParcel{
		parcel:   types.CloneParcel(parcel),
		metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp},
		seq:      r.seq,
	}
	r.parcels[parcel.ParcelID] = stored
	return projectionCopy(stored), nil
}

// Update replaces the state of an existing parcel.
func (r *Repository) Update(_ context.Context, parcel *domain.Parcel) (*types.ParcelProjection, error) {
	if parcel == nil {
		return nil, errors.New("cannot update nil parcel")
	}
	if err := parcel.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.parcels[parcel.ParcelID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	entry.parcel = types.CloneParcel(parcel)
	entry.metadata.UpdatedAt = r.now()
	return projectionCopy(entry), nil
}

// GetByParcelID fetches a parcel if present.
func (r *Repository) GetByParcelID(_ context.Context, parcelID string) (*types.ParcelProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.parcels[parcelID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

// List returns the parcels matching the filter, newest first.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*types.ParcelProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	matches := make([]*storedParcel, 0, len(r.parcels))
	for _, entry := range r.parcels {
		p := entry.parcel
		if filter.Department != "" && p.Department != filter.Department {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.ParcelID), search) &&
			!strings.Contains(string(p.Department), search) {
			continue
		}
		matches = append(matches, entry)
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.metadata.CreatedAt.Equal(b.metadata.CreatedAt) {
			return a.metadata.CreatedAt.After(b.metadata.CreatedAt)
		}
		return a.seq > b.seq
	})
	list := make([]*types.ParcelProjection, 0, len(matches))
	for _, entry := range matches {
		list = append(list, projectionCopy(entry))
	}
	return list, nil
}

// Reset drops every stored parcel.
func (r *Repository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parcels = map[string]*storedParcel{}
	r.seq = 0
	return nil
}

func projectionCopy(entry *storedParcel) *types.ParcelProjection {
	return types.NewParcelProjection(types.CloneParcel(entry.parcel), entry.metadata.CreatedAt, entry.metadata.UpdatedAt)
}
