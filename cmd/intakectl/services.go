package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/Apurer/parcel-intake-api/internal/app/bootstrap"
	departmentsapp "github.com/Apurer/parcel-intake-api/internal/domains/departments/application"
	parcelsapp "github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	platformpostgres "github.com/Apurer/parcel-intake-api/internal/platform/postgres"
)

type services struct {
	parcels     *parcelsapp.Service
	departments *departmentsapp.Service
}

func withServices(ctx context.Context, fn func(ctx context.Context, svc services) error) error {
	logger := cliLogger()
	db, cleanup := platformpostgres.Open(ctx, postgresDSN(), logger)
	defer cleanup()
	stores := bootstrap.NewStores(db)
	svc := services{
		parcels:     parcelsapp.NewService(stores.Parcels, stores.Rules, parcelsapp.WithLogger(logger)),
		departments: departmentsapp.NewService(stores.Departments),
	}
	if err := svc.departments.EnsureDefaults(ctx); err != nil {
		return err
	}
	return fn(ctx, svc)
}

func cliLogger() *slog.Logger {
	if viper.GetBool("verbose") {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
