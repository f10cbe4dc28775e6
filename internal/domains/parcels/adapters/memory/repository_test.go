package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

func steppingClock() func() time.Time {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
}

func newParcel(t *testing.T, id string, weight, value float64) *domain.Parcel {
	t.Helper()
	parcel, err := domain.NewParcel(id, weight, value, "", "", domain.Route(weight, value, domain.DefaultRuleSet()), time.Now())
	require.NoError(t, err)
	return parcel
}

func TestRepository_CreateRejectsDuplicates(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newParcel(t, "P-1", 1, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newParcel(t, "P-1", 2, 2))
	require.ErrorIs(t, err, ports.ErrDuplicateParcel)
}

func TestRepository_ListNewestFirstWithFilters(t *testing.T) {
	repo := NewRepository(WithClock(steppingClock()))
	ctx := context.Background()

	_, err := repo.Create(ctx, newParcel(t, "MAIL-1", 0.5, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newParcel(t, "HEAVY-1", 30, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newParcel(t, "MAIL-2", 0.7, 5000))
	require.NoError(t, err)

	all, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "MAIL-2", all[0].Entity.ParcelID)
	assert.Equal(t, "MAIL-1", all[2].Entity.ParcelID)

	mail, err := repo.List(ctx, ports.ListFilter{Department: domain.DepartmentMail})
	require.NoError(t, err)
	assert.Len(t, mail, 2)

	review, err := repo.List(ctx, ports.ListFilter{Status: domain.StatusInsuranceReview})
	require.NoError(t, err)
	require.Len(t, review, 1)
	assert.Equal(t, "MAIL-2", review[0].Entity.ParcelID)

	search, err := repo.List(ctx, ports.ListFilter{Search: "heavy"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "HEAVY-1", search[0].Entity.ParcelID)
}

func TestRepository_SearchMatchesParcelIDOrDepartment(t *testing.T) {
	repo := NewRepository(WithClock(steppingClock()))
	ctx := context.Background()

	_, err := repo.Create(ctx, newParcel(t, "X-100", 5, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newParcel(t, "Y-200", 0.5, 1))
	require.NoError(t, err)

	byDepartment, err := repo.List(ctx, ports.ListFilter{Search: "REGULAR"})
	require.NoError(t, err)
	require.Len(t, byDepartment, 1)
	assert.Equal(t, "X-100", byDepartment[0].Entity.ParcelID)

	byID, err := repo.List(ctx, ports.ListFilter{Search: "y-2"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Y-200", byID[0].Entity.ParcelID)
}

func TestRepository_UpdateAndReset(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	parcel := newParcel(t, "P-9", 3, 1)
	_, err := repo.Update(ctx, parcel)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = repo.Create(ctx, parcel)
	require.NoError(t, err)
	parcel.Complete()
	updated, err := repo.Update(ctx, parcel)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Entity.Status)

	require.NoError(t, repo.Reset(ctx))
	_, err = repo.GetByParcelID(ctx, "P-9")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newParcel(t, "P-7", 3, 1))
	require.NoError(t, err)

	loaded, err := repo.GetByParcelID(ctx, "P-7")
	require.NoError(t, err)
	loaded.Entity.Complete()

	again, err := repo.GetByParcelID(ctx, "P-7")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Entity.Status)
}

func TestRuleStore_DefaultReplaceReset(t *testing.T) {
	store := NewRuleStore()
	ctx := context.Background()

	active, err := store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRuleSet(), active)

	custom := domain.RuleSet{
		Mail:      domain.MailRule{MaxWeight: 2},
		Regular:   domain.RegularRule{MaxWeight: 15},
		Insurance: domain.InsuranceRule{MinValue: 500, Enabled: true},
	}
	_, err = store.Replace(ctx, custom)
	require.NoError(t, err)
	active, err = store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, active)

	require.NoError(t, store.Reset(ctx))
	active, err = store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRuleSet(), active)
}

func TestRuleStore_ConcurrentReadsSeeWholeRuleSets(t *testing.T) {
	store := NewRuleStore()
	ctx := context.Background()
	a := domain.RuleSet{Mail: domain.MailRule{MaxWeight: 1}, Regular: domain.RegularRule{MaxWeight: 1}}
	b := domain.RuleSet{Mail: domain.MailRule{MaxWeight: 2}, Regular: domain.RegularRule{MaxWeight: 2}}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (i+j)%2 == 0 {
					_, _ = store.Replace(ctx, a)
				} else {
					_, _ = store.Replace(ctx, b)
				}
				got, err := store.Active(ctx)
				assert.NoError(t, err)
				assert.Equal(t, got.Mail.MaxWeight, got.Regular.MaxWeight)
			}
		}(i)
	}
	wg.Wait()
}
