package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
	parcelactivities "github.com/Apurer/parcel-intake-api/internal/durable/temporal/activities/parcels"
	parcelworkflows "github.com/Apurer/parcel-intake-api/internal/durable/temporal/workflows/parcels"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalIngestionWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineIngestionWorkflows)(nil)
)

// TemporalIngestionWorkflows starts manifest ingestion workflows on a Temporal cluster.
type TemporalIngestionWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalIngestionWorkflows wires a Temporal client into the orchestrator.
func NewTemporalIngestionWorkflows(c client.Client) *TemporalIngestionWorkflows {
	return &TemporalIngestionWorkflows{client: c, taskQueue: parcelworkflows.ManifestIngestionTaskQueue}
}

// IngestManifest starts the ingestion workflow and waits for its result.
// Uploads sharing an idempotency key resolve to the same workflow run.
func (o *TemporalIngestionWorkflows) IngestManifest(ctx context.Context, input types.IngestManifestInput) (*types.IngestionResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal ingestion workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildIngestionWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		parcelworkflows.ManifestIngestionWorkflowName,
		parcelworkflows.ManifestIngestionWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			return awaitResult(ctx, o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId))
		}
		return nil, err
	}
	return awaitResult(ctx, run)
}

func awaitResult(ctx context.Context, run client.WorkflowRun) (*types.IngestionResult, error) {
	var result types.IngestionResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, parcelactivities.DecodeError(err)
	}
	return &result, nil
}

// InlineIngestionWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineIngestionWorkflows struct {
	service ports.Service
}

// NewInlineIngestionWorkflows wraps the parcels service for synchronous execution.
func NewInlineIngestionWorkflows(service ports.Service) *InlineIngestionWorkflows {
	return &InlineIngestionWorkflows{service: service}
}

// IngestManifest delegates to the application service without durable orchestration.
func (o *InlineIngestionWorkflows) IngestManifest(ctx context.Context, input types.IngestManifestInput) (*types.IngestionResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline ingestion workflows not configured")
	}
	return o.service.Ingest(ctx, input)
}

func buildIngestionWorkflowID(input types.IngestManifestInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("manifest-ingestion-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("manifest-ingestion-%d-%s", time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable and deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
