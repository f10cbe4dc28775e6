package ports

import (
	"context"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
)

// WorkflowOrchestrator runs manifest ingestion, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	IngestManifest(ctx context.Context, input types.IngestManifestInput) (*types.IngestionResult, error)
}
