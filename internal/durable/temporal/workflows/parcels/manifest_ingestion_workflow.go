package parcels

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/durable/temporal/sequences"
)

const (
	// ManifestIngestionWorkflowName is the public identifier for registering the workflow.
	ManifestIngestionWorkflowName = "parcels.workflows.ManifestIngestion"
	// ManifestIngestionTaskQueue is the queue consumed by the worker processing manifest uploads.
	ManifestIngestionTaskQueue = "MANIFEST_INGESTION"
)

// ManifestIngestionWorkflowInput captures an uploaded manifest and the request trace.
type ManifestIngestionWorkflowInput struct {
	Command types.IngestManifestInput
	TraceID string
}

// ManifestIngestionWorkflow runs the ingestion sequence for one upload.
func ManifestIngestionWorkflow(ctx workflow.Context, input ManifestIngestionWorkflowInput) (*types.IngestionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ManifestIngestionWorkflow started", withTraceID(input.TraceID, "filename", input.Command.Filename)...)
	result, err := sequences.RunManifestIngestionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ManifestIngestionWorkflow failed", withTraceID(input.TraceID, "filename", input.Command.Filename, "error", err)...)
		return nil, err
	}
	logger.Info("ManifestIngestionWorkflow completed",
		withTraceID(input.TraceID, "processed", len(result.Processed), "errors", len(result.Errors))...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
