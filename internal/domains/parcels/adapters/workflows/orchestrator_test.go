package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/memory"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
)

func TestBuildIngestionWorkflowID_IdempotencyKeyIsStable(t *testing.T) {
	input := types.IngestManifestInput{IdempotencyKey: "  upload-42 "}
	first := buildIngestionWorkflowID(input, "trace-a")
	second := buildIngestionWorkflowID(input, "trace-b")

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "manifest-ingestion-idem-"))
	assert.Len(t, strings.TrimPrefix(first, "manifest-ingestion-idem-"), 16)
}

func TestBuildIngestionWorkflowID_FallsBackToTrace(t *testing.T) {
	id := buildIngestionWorkflowID(types.IngestManifestInput{}, "abc123")
	assert.True(t, strings.HasPrefix(id, "manifest-ingestion-"))
	assert.True(t, strings.HasSuffix(id, "-abc123"))
}

func TestWorkflowTraceComponent_WithoutSpan(t *testing.T) {
	assert.True(t, strings.HasPrefix(workflowTraceComponent(context.Background()), "fallback-"))
}

func TestInlineIngestionWorkflows_DelegatesToService(t *testing.T) {
	svc := application.NewService(memory.NewRepository(), memory.NewRuleStore())
	orchestrator := NewInlineIngestionWorkflows(svc)

	raw := `<?xml version="1.0"?><Container><Parcels><Parcel><ID>A1</ID><Weight>2</Weight></Parcel></Parcels></Container>`
	result, err := orchestrator.IngestManifest(context.Background(), types.IngestManifestInput{Manifest: []byte(raw)})
	require.NoError(t, err)
	require.Len(t, result.Processed, 1)
	assert.Equal(t, "A1", result.Processed[0].Entity.ParcelID)
}

func TestInlineIngestionWorkflows_NotConfigured(t *testing.T) {
	var orchestrator *InlineIngestionWorkflows
	_, err := orchestrator.IngestManifest(context.Background(), types.IngestManifestInput{})
	require.Error(t, err)
}
