package types

import (
	"fmt"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/manifest"
)

// IngestManifestInput carries an uploaded manifest into the pipeline.
type IngestManifestInput struct {
	Manifest       []byte
	Filename       string
	IdempotencyKey string
}

// IngestionError reports a parcel that was skipped during ingestion.
type IngestionError struct {
	ParcelID string
	Error    string
}

// IngestionResult summarises one manifest upload.
type IngestionResult struct {
	Processed  []*ParcelProjection
	Errors     []IngestionError
	ArchiveKey string
}

// Summary renders the human readable outcome, e.g. "Processed 3 parcels (1 errors)".
func (r *IngestionResult) Summary() string {
	if r == nil {
		return "Processed 0 parcels"
	}
	msg := fmt.Sprintf("Processed %d parcels", len(r.Processed))
	if len(r.Errors) > 0 {
		msg += fmt.Sprintf(" (%d errors)", len(r.Errors))
	}
	return msg
}

// ProcessDraftInput routes and persists one draft against a rule snapshot.
type ProcessDraftInput struct {
	Draft manifest.Draft
	Rules domain.RuleSet
}

// ParsedManifest is the serialisable outcome of parsing a manifest.
type ParsedManifest struct {
	Drafts     []manifest.Draft
	Errors     []IngestionError
	ArchiveKey string
}
