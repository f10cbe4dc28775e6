package ports

import (
	"context"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
)

// Service exposes the parcel intake use cases to adapters.
type Service interface {
	Ingest(ctx context.Context, input types.IngestManifestInput) (*types.IngestionResult, error)
	List(ctx context.Context, input types.ListParcelsInput) ([]*types.ParcelProjection, error)
	Get(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error)
	ApproveInsurance(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error)
	CompleteProcessing(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error)
	Metrics(ctx context.Context) (*types.DashboardMetrics, error)
	Rules(ctx context.Context) (domain.RuleSet, error)
	ReplaceRules(ctx context.Context, rules domain.RuleSet) (domain.RuleSet, error)
	Reset(ctx context.Context) error
}

// IngestionSteps exposes the individual pipeline stages so a durable
// workflow can run them as separate activities.
type IngestionSteps interface {
	ParseManifest(ctx context.Context, input types.IngestManifestInput) (*types.ParsedManifest, error)
	Rules(ctx context.Context) (domain.RuleSet, error)
	ProcessDraft(ctx context.Context, input types.ProcessDraftInput) (*types.ParcelProjection, error)
}
