package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/parcel-intake-api/internal/app/bootstrap"
	s3archive "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/archive/s3"
	parcelsapp "github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	parcelactivities "github.com/Apurer/parcel-intake-api/internal/durable/temporal/activities/parcels"
	parcelworkflows "github.com/Apurer/parcel-intake-api/internal/durable/temporal/workflows/parcels"
	platformobservability "github.com/Apurer/parcel-intake-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/parcel-intake-api/internal/platform/postgres"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "parcel-intake-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		// Activities would write to a store the API process cannot see.
		logger.Warn("POSTGRES_DSN not set, worker parcels are kept in memory and invisible to the API")
	}
	db, cleanupDB := platformpostgres.Open(ctx, dsn, logger)
	defer cleanupDB()
	stores := bootstrap.NewStores(db)

	serviceOpts := []parcelsapp.ServiceOption{parcelsapp.WithLogger(logger)}
	archive := bootstrap.NewManifestArchive(ctx, s3archive.Config{
		Bucket:   os.Getenv("MANIFEST_ARCHIVE_BUCKET"),
		Prefix:   envOrDefault("MANIFEST_ARCHIVE_PREFIX", "manifests"),
		Region:   os.Getenv("AWS_REGION"),
		Endpoint: os.Getenv("S3_ENDPOINT"),
	}, logger)
	if archive != nil {
		serviceOpts = append(serviceOpts, parcelsapp.WithManifestArchive(archive))
	}
	parcelService := parcelsapp.NewService(stores.Parcels, stores.Rules, serviceOpts...)
	ingestionActivities := parcelactivities.NewActivities(parcelService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, parcelworkflows.ManifestIngestionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(parcelworkflows.ManifestIngestionWorkflow, workflow.RegisterOptions{Name: parcelworkflows.ManifestIngestionWorkflowName})
	w.RegisterActivityWithOptions(ingestionActivities.ParseManifest, activity.RegisterOptions{Name: parcelactivities.ParseManifestActivityName})
	w.RegisterActivityWithOptions(ingestionActivities.LoadRules, activity.RegisterOptions{Name: parcelactivities.LoadRulesActivityName})
	w.RegisterActivityWithOptions(ingestionActivities.ProcessDraft, activity.RegisterOptions{Name: parcelactivities.ProcessDraftActivityName})

	logger.Info("worker listening", slog.String("taskQueue", parcelworkflows.ManifestIngestionTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
