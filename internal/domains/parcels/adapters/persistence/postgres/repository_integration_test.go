//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
	"github.com/Apurer/parcel-intake-api/internal/platform/migrations"
)

func setupParcelsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("parcels_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func routedParcel(t *testing.T, id string, weight, value float64) *domain.Parcel {
	t.Helper()
	parcel, err := domain.NewParcel(id, weight, value, "Pact Recipient", "Depot 1", domain.Route(weight, value, domain.DefaultRuleSet()), time.Now().UTC())
	require.NoError(t, err)
	return parcel
}

func TestRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupParcelsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, routedParcel(t, "PG-1", 5, 1500))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInsuranceReview, saved.Entity.Status)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	fetched, err := repo.GetByParcelID(ctx, "PG-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentRegular, fetched.Entity.Department)
	assert.True(t, fetched.Entity.RequiresInsurance)

	_, err = repo.GetByParcelID(ctx, "PG-404")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_CreateDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupParcelsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, routedParcel(t, "PG-DUP", 1, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, routedParcel(t, "PG-DUP", 2, 2))
	assert.ErrorIs(t, err, ports.ErrDuplicateParcel)
}

func TestRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupParcelsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	parcel := routedParcel(t, "PG-2", 5, 2000)
	_, err := repo.Create(ctx, parcel)
	require.NoError(t, err)

	require.True(t, parcel.ApproveInsurance())
	updated, err := repo.Update(ctx, parcel)
	require.NoError(t, err)
	assert.True(t, updated.Entity.InsuranceApproved)
	assert.Equal(t, domain.StatusProcessing, updated.Entity.Status)

	_, err = repo.Update(ctx, routedParcel(t, "PG-MISSING", 1, 1))
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFiltersAndReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupParcelsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, p := range []*domain.Parcel{
		routedParcel(t, "MAIL-1", 0.5, 1),
		routedParcel(t, "HEAVY-1", 40, 1),
		routedParcel(t, "MAIL-2", 0.8, 5000),
	} {
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "MAIL-2", all[0].Entity.ParcelID)

	mail, err := repo.List(ctx, ports.ListFilter{Department: domain.DepartmentMail, Status: domain.StatusPending})
	require.NoError(t, err)
	require.Len(t, mail, 1)
	assert.Equal(t, "MAIL-1", mail[0].Entity.ParcelID)

	search, err := repo.List(ctx, ports.ListFilter{Search: "HEAVY"})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	require.NoError(t, repo.Reset(ctx))
	all, err = repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRuleStore_ReplaceAndReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupParcelsPostgresContainer(t)
	defer cleanup()

	store := NewRuleStore(db)
	ctx := context.Background()

	active, err := store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRuleSet(), active)

	custom := domain.RuleSet{
		Mail:      domain.MailRule{MaxWeight: 2},
		Regular:   domain.RegularRule{MaxWeight: 15},
		Insurance: domain.InsuranceRule{MinValue: 500, Enabled: false},
	}
	_, err = store.Replace(ctx, custom)
	require.NoError(t, err)
	_, err = store.Replace(ctx, custom)
	require.NoError(t, err)

	active, err = store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, active)

	var activeRows int64
	require.NoError(t, db.Model(&ruleSetRecord{}).Where("is_active = ?", true).Count(&activeRows).Error)
	assert.Equal(t, int64(1), activeRows)

	require.NoError(t, store.Reset(ctx))
	active, err = store.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRuleSet(), active)
}
