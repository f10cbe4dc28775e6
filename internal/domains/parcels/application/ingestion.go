package application

import (
	"context"
	"log/slog"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/manifest"
)

// Ingest runs a manifest through parse, repair, routing, and persistence.
// Every draft is processed on its own: a failing draft is skipped and
// reported while the rest of the batch is kept. The rule set is read once so
// the whole manifest is routed against the same thresholds.
func (s *Service) Ingest(ctx context.Context, input types.IngestManifestInput) (*types.IngestionResult, error) {
	parsed, err := s.ParseManifest(ctx, input)
	if err != nil {
		return nil, err
	}
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	result := &types.IngestionResult{
		Processed:  make([]*types.ParcelProjection, 0, len(parsed.Drafts)),
		Errors:     parsed.Errors,
		ArchiveKey: parsed.ArchiveKey,
	}
	for _, draft := range parsed.Drafts {
		saved, err := s.ProcessDraft(ctx, types.ProcessDraftInput{Draft: draft, Rules: rules})
		if err != nil {
			result.Errors = append(result.Errors, types.IngestionError{ParcelID: draft.ParcelID, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, saved)
	}
	return result, nil
}

// ParseManifest extracts the drafts of a manifest and archives the raw bytes
// once it is accepted. A manifest without any usable draft fails with
// ErrNoValidParcels; rejected manifests are never archived.
func (s *Service) ParseManifest(ctx context.Context, input types.IngestManifestInput) (*types.ParsedManifest, error) {
	result, err := s.parser.Parse(input.Manifest)
	if err != nil {
		return nil, err
	}
	if len(result.Drafts) == 0 {
		return nil, ErrNoValidParcels
	}
	parsed := &types.ParsedManifest{Drafts: result.Drafts}
	if s.archive != nil {
		key, err := s.archive.Store(ctx, input.Filename, input.Manifest)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to archive manifest",
				slog.String("manifest.filename", input.Filename),
				slog.String("error", err.Error()))
		} else {
			parsed.ArchiveKey = key
		}
	}
	for _, failure := range result.Failures {
		parsed.Errors = append(parsed.Errors, types.IngestionError{ParcelID: failure.ParcelID, Error: failure.Err.Error()})
	}
	return parsed, nil
}

// ProcessDraft repairs, routes, and persists a single draft.
func (s *Service) ProcessDraft(ctx context.Context, input types.ProcessDraftInput) (*types.ParcelProjection, error) {
	draft := manifest.Repair(input.Draft)
	routing := domain.Route(draft.Weight, draft.Value, input.Rules)
	parcel, err := domain.NewParcel(draft.ParcelID, draft.Weight, draft.Value, draft.Recipient, draft.Destination, routing, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, parcel)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}
