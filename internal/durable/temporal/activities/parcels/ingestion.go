package parcels

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/manifest"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

const (
	// ParseManifestActivityName archives and parses an uploaded manifest.
	ParseManifestActivityName = "parcels.activities.ParseManifest"
	// LoadRulesActivityName snapshots the active business rules for one batch.
	LoadRulesActivityName = "parcels.activities.LoadRules"
	// ProcessDraftActivityName repairs, routes, and stores a single parcel draft.
	ProcessDraftActivityName = "parcels.activities.ProcessDraft"
)

// Application error types that must not be retried.
const (
	ManifestFormatErrorType = "ManifestFormatError"
	NoValidParcelsErrorType = "NoValidParcels"
	ParcelRejectedErrorType = "ParcelRejected"
)

// Activities groups activities that operate on the parcels bounded context.
type Activities struct {
	steps ports.IngestionSteps
}

// NewActivities wires the ingestion pipeline stages into the Temporal activities bundle.
func NewActivities(steps ports.IngestionSteps) *Activities {
	return &Activities{steps: steps}
}

// ParseManifest archives the manifest and returns its drafts.
func (a *Activities) ParseManifest(ctx context.Context, input types.IngestManifestInput) (*types.ParsedManifest, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("parse manifest activity not initialized", "filename", input.Filename)
		return nil, errors.New("parse manifest activity not initialized")
	}
	logger.Info("ParseManifest activity started", "filename", input.Filename, "bytes", len(input.Manifest))
	parsed, err := a.steps.ParseManifest(ctx, input)
	if err != nil {
		logger.Error("ParseManifest activity failed", "filename", input.Filename, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("ParseManifest activity completed", "drafts", len(parsed.Drafts), "errors", len(parsed.Errors))
	return parsed, nil
}

// LoadRules returns the rule set the batch is routed against.
func (a *Activities) LoadRules(ctx context.Context) (domain.RuleSet, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("load rules activity not initialized")
		return domain.RuleSet{}, errors.New("load rules activity not initialized")
	}
	return a.steps.Rules(ctx)
}

// ProcessDraft persists one draft. Validation and duplicate failures are
// final; storage failures are left to the retry policy.
func (a *Activities) ProcessDraft(ctx context.Context, input types.ProcessDraftInput) (*types.ParcelProjection, error) {
	logger := activity.GetLogger(ctx)
	parcelID := input.Draft.ParcelID
	if a == nil || a.steps == nil {
		logger.Error("process draft activity not initialized", "parcelId", parcelID)
		return nil, errors.New("process draft activity not initialized")
	}
	projection, err := a.steps.ProcessDraft(ctx, input)
	if err != nil {
		logger.Error("ProcessDraft activity failed", "parcelId", parcelID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("ProcessDraft activity completed", "parcelId", parcelID, "department", string(projection.Entity.Department))
	return projection, nil
}

type formatErrorDetails struct {
	Reason string
	Found  []string
	Cause  string
}

// EncodeError turns pipeline errors that a retry cannot fix into
// non-retryable application errors carrying enough detail to rebuild them.
func EncodeError(err error) error {
	var formatErr *manifest.FormatError
	switch {
	case errors.As(err, &formatErr):
		details := formatErrorDetails{Reason: formatErr.Reason, Found: formatErr.Found}
		if formatErr.Err != nil {
			details.Cause = formatErr.Err.Error()
		}
		return temporal.NewNonRetryableApplicationError(err.Error(), ManifestFormatErrorType, nil, details)
	case errors.Is(err, application.ErrNoValidParcels):
		return temporal.NewNonRetryableApplicationError(err.Error(), NoValidParcelsErrorType, nil)
	case errors.Is(err, application.ErrInvalidInput), errors.Is(err, ports.ErrDuplicateParcel):
		return temporal.NewNonRetryableApplicationError(err.Error(), ParcelRejectedErrorType, nil)
	}
	return err
}

// DecodeError restores the pipeline error behind a workflow failure so
// callers can match it with errors.Is / errors.As.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ManifestFormatErrorType:
		var details formatErrorDetails
		if appErr.HasDetails() {
			if derr := appErr.Details(&details); derr != nil {
				return err
			}
		}
		formatErr := &manifest.FormatError{Reason: details.Reason, Found: details.Found}
		if details.Cause != "" {
			formatErr.Err = errors.New(details.Cause)
		}
		return formatErr
	case NoValidParcelsErrorType:
		return application.ErrNoValidParcels
	}
	return err
}

// DraftErrorMessage extracts the activity's own message from a wrapped failure.
func DraftErrorMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}
