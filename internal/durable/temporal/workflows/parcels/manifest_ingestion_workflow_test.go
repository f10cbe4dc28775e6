package parcels

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/memory"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/manifest"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
	parcelactivities "github.com/Apurer/parcel-intake-api/internal/durable/temporal/activities/parcels"
)

func newTestEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *memory.Repository) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	repo := memory.NewRepository()
	acts := parcelactivities.NewActivities(application.NewService(repo, memory.NewRuleStore()))
	env.RegisterActivityWithOptions(acts.ParseManifest, activity.RegisterOptions{Name: parcelactivities.ParseManifestActivityName})
	env.RegisterActivityWithOptions(acts.LoadRules, activity.RegisterOptions{Name: parcelactivities.LoadRulesActivityName})
	env.RegisterActivityWithOptions(acts.ProcessDraft, activity.RegisterOptions{Name: parcelactivities.ProcessDraftActivityName})
	return env, repo
}

func TestManifestIngestionWorkflow_SkipsRejectedParcels(t *testing.T) {
	env, _ := newTestEnv(t)
	raw := `<?xml version="1.0"?>
<Container><Parcels>
  <Parcel><ID>P1</ID><Weight>0.5</Weight><Value>10</Value></Parcel>
  <Parcel><ID>P1</ID><Weight>3</Weight><Value>10</Value></Parcel>
  <Parcel><ID>P2</ID><Weight>12</Weight><Value>2500</Value></Parcel>
</Parcels></Container>`

	env.ExecuteWorkflow(ManifestIngestionWorkflow, ManifestIngestionWorkflowInput{
		Command: types.IngestManifestInput{Manifest: []byte(raw), Filename: "batch.xml"},
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result types.IngestionResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Len(t, result.Processed, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "P1", result.Errors[0].ParcelID)
	assert.Contains(t, result.Errors[0].Error, "already exists")
	assert.Equal(t, domain.DepartmentHeavy, result.Processed[1].Entity.Department)
	assert.True(t, result.Processed[1].Entity.RequiresInsurance)
}

func TestManifestIngestionWorkflow_FormatErrorSurvivesBoundary(t *testing.T) {
	env, repo := newTestEnv(t)

	env.ExecuteWorkflow(ManifestIngestionWorkflow, ManifestIngestionWorkflowInput{
		Command: types.IngestManifestInput{Manifest: []byte(`<Container/>`)},
	})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var formatErr *manifest.FormatError
	require.ErrorAs(t, parcelactivities.DecodeError(err), &formatErr)
	assert.NotEmpty(t, formatErr.Reason)

	stored, listErr := repo.List(context.Background(), ports.ListFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, stored)
}

func TestManifestIngestionWorkflow_NoValidParcels(t *testing.T) {
	env, _ := newTestEnv(t)
	raw := `<?xml version="1.0"?>
<Container><Parcels>
  <Parcel><ID>P1</ID><Weight>heavy</Weight></Parcel>
</Parcels></Container>`

	env.ExecuteWorkflow(ManifestIngestionWorkflow, ManifestIngestionWorkflowInput{
		Command: types.IngestManifestInput{Manifest: []byte(raw)},
	})
	require.True(t, env.IsWorkflowCompleted())
	require.ErrorIs(t, parcelactivities.DecodeError(env.GetWorkflowError()), application.ErrNoValidParcels)
}
