// Package bootstrap builds the adapters shared by the API, the worker, and the CLI.
package bootstrap

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	departmentsmemory "github.com/Apurer/parcel-intake-api/internal/domains/departments/adapters/memory"
	departmentspostgres "github.com/Apurer/parcel-intake-api/internal/domains/departments/adapters/persistence/postgres"
	departmentsports "github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
	s3archive "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/archive/s3"
	parcelsmemory "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/memory"
	parcelspostgres "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/persistence/postgres"
	parcelsports "github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

// Stores groups the persistence adapters of every bounded context.
type Stores struct {
	Parcels     parcelsports.Repository
	Rules       parcelsports.RuleStore
	Departments departmentsports.Repository
}

// NewStores returns PostgreSQL-backed stores when db is set, in-memory ones otherwise.
func NewStores(db *gorm.DB) Stores {
	if db == nil {
		return Stores{
			Parcels:     parcelsmemory.NewRepository(),
			Rules:       parcelsmemory.NewRuleStore(),
			Departments: departmentsmemory.NewRepository(),
		}
	}
	return Stores{
		Parcels:     parcelspostgres.NewRepository(db),
		Rules:       parcelspostgres.NewRuleStore(db),
		Departments: departmentspostgres.NewRepository(db),
	}
}

// NewManifestArchive returns an S3 archive when a bucket is configured. The
// archive is optional, so failures only disable it.
func NewManifestArchive(ctx context.Context, cfg s3archive.Config, logger *slog.Logger) parcelsports.ManifestArchive {
	if cfg.Bucket == "" {
		return nil
	}
	archive, err := s3archive.New(ctx, cfg)
	if err != nil {
		logger.Warn("manifest archive disabled", slog.String("bucket", cfg.Bucket), slog.String("error", err.Error()))
		return nil
	}
	logger.Info("manifest archive enabled", slog.String("bucket", cfg.Bucket), slog.String("prefix", cfg.Prefix))
	return archive
}
