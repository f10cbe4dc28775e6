package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	intakeserver "github.com/Apurer/parcel-intake-api/go"
	"github.com/Apurer/parcel-intake-api/internal/app/bootstrap"
	departmentsapp "github.com/Apurer/parcel-intake-api/internal/domains/departments/application"
	s3archive "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/archive/s3"
	parcelsobs "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/observability"
	parcelsworkflows "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/workflows"
	parcelsapp "github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	parcelsports "github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
	platformobservability "github.com/Apurer/parcel-intake-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/parcel-intake-api/internal/platform/postgres"
)

// Run boots the parcel intake HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "parcel-intake-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	stores := bootstrap.NewStores(db)

	serviceOpts := []parcelsapp.ServiceOption{parcelsapp.WithLogger(logger)}
	archive := bootstrap.NewManifestArchive(ctx, s3archive.Config{
		Bucket:   cfg.ArchiveBucket,
		Prefix:   cfg.ArchivePrefix,
		Region:   cfg.AWSRegion,
		Endpoint: cfg.S3Endpoint,
	}, logger)
	if archive != nil {
		serviceOpts = append(serviceOpts, parcelsapp.WithManifestArchive(archive))
	}
	parcelService := parcelsobs.New(
		parcelsapp.NewService(stores.Parcels, stores.Rules, serviceOpts...),
		parcelsobs.WithLogger(logger),
		parcelsobs.WithTracer(instruments.Tracer("internal.parcels.application")),
		parcelsobs.WithMeter(instruments.Meter("internal.parcels.application")),
	)
	ingestion, closeIngestion := selectIngestion(db != nil, func() (client.Client, error) {
		return connectTemporalClient(cfg, instruments)
	}, parcelService, logger)
	defer closeIngestion()

	departmentService := departmentsapp.NewService(stores.Departments)
	if err := departmentService.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}

	handlers := intakeserver.ApiHandleFunctions{
		ParcelAPI:        intakeserver.NewParcelAPI(parcelService, ingestion, cfg.UploadMaxBytes),
		BusinessRulesAPI: intakeserver.NewBusinessRulesAPI(parcelService),
		DepartmentAPI:    intakeserver.NewDepartmentAPI(departmentService),
		DashboardAPI:     intakeserver.NewDashboardAPI(parcelService, departmentService),
	}

	router := intakeserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("parcel intake API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("parcel intake API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// selectIngestion routes uploads through Temporal only when the worker can
// write to the same stores as the API, which requires PostgreSQL. Otherwise
// the worker would persist parcels into its own in-memory store.
func selectIngestion(sharedStore bool, dial func() (client.Client, error), service parcelsports.Service, logger *slog.Logger) (parcelsports.WorkflowOrchestrator, func()) {
	inline := parcelsworkflows.NewInlineIngestionWorkflows(service)
	if !sharedStore {
		logger.Warn("Temporal workflows skipped, stores are in memory and not shared with the worker; ingesting manifests inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, ingesting manifests inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return parcelsworkflows.NewTemporalIngestionWorkflows(temporalClient), temporalClient.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
