package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	parcelactivities "github.com/Apurer/parcel-intake-api/internal/durable/temporal/activities/parcels"
)

// RunManifestIngestionSequence parses a manifest, snapshots the rules, and
// processes every draft as its own activity. A draft that fails after its
// retries is reported in the result and does not stop the batch.
func RunManifestIngestionSequence(ctx workflow.Context, input types.IngestManifestInput) (*types.IngestionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("manifest ingestion sequence started", "filename", input.Filename)
	nonRetryable := []string{
		parcelactivities.ManifestFormatErrorType,
		parcelactivities.NoValidParcelsErrorType,
		parcelactivities.ParcelRejectedErrorType,
	}
	parseOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: nonRetryable,
		},
	}
	draftOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: nonRetryable,
		},
	}
	parseCtx := workflow.WithActivityOptions(ctx, parseOptions)

	var parsed types.ParsedManifest
	if err := workflow.ExecuteActivity(parseCtx, parcelactivities.ParseManifestActivityName, input).Get(ctx, &parsed); err != nil {
		logger.Error("manifest ingestion sequence failed to parse", "filename", input.Filename, "error", err)
		return nil, err
	}
	var rules domain.RuleSet
	if err := workflow.ExecuteActivity(parseCtx, parcelactivities.LoadRulesActivityName).Get(ctx, &rules); err != nil {
		logger.Error("manifest ingestion sequence failed to load rules", "error", err)
		return nil, err
	}

	result := &types.IngestionResult{
		Processed:  make([]*types.ParcelProjection, 0, len(parsed.Drafts)),
		Errors:     parsed.Errors,
		ArchiveKey: parsed.ArchiveKey,
	}
	draftCtx := workflow.WithActivityOptions(ctx, draftOptions)
	for _, draft := range parsed.Drafts {
		var projection types.ParcelProjection
		err := workflow.ExecuteActivity(draftCtx, parcelactivities.ProcessDraftActivityName,
			types.ProcessDraftInput{Draft: draft, Rules: rules}).Get(ctx, &projection)
		if err != nil {
			logger.Warn("manifest ingestion sequence skipped parcel", "parcelId", draft.ParcelID, "error", err)
			result.Errors = append(result.Errors, types.IngestionError{
				ParcelID: draft.ParcelID,
				Error:    parcelactivities.DraftErrorMessage(err),
			})
			continue
		}
		result.Processed = append(result.Processed, &projection)
	}
	logger.Info("manifest ingestion sequence completed", "processed", len(result.Processed), "errors", len(result.Errors))
	return result, nil
}
