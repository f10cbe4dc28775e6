package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/memory"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

const manifest = `<?xml version="1.0"?>
<Container><Parcels>
  <Parcel><ID>A</ID><Weight>0.2</Weight><Value>5</Value></Parcel>
  <Parcel><ID>B</ID><Weight>25</Weight><Value>5000</Value></Parcel>
  <Parcel><ID>C</ID><Weight>heavy</Weight><Value>1</Value></Parcel>
</Parcels></Container>`

type harness struct {
	svc      ports.Service
	recorder *tracetest.SpanRecorder
	reader   *sdkmetric.ManualReader
}

func newHarness() harness {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	inner := application.NewService(memory.NewRepository(), memory.NewRuleStore())
	return harness{
		svc:      New(inner, WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test"))),
		recorder: recorder,
		reader:   reader,
	}
}

func (h harness) counters(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out
}

func TestService_IngestRecordsSpanAndCounters(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	result, err := h.svc.Ingest(ctx, types.IngestManifestInput{Manifest: []byte(manifest), Filename: "m.xml"})
	require.NoError(t, err)
	require.Len(t, result.Processed, 2)
	require.Len(t, result.Errors, 1)

	_, err = h.svc.ApproveInsurance(ctx, types.ParcelIdentifier{ParcelID: "B"})
	require.NoError(t, err)
	_, err = h.svc.CompleteProcessing(ctx, types.ParcelIdentifier{ParcelID: "A"})
	require.NoError(t, err)

	counters := h.counters(t)
	assert.Equal(t, int64(2), counters["parcels.service.ingested"])
	assert.Equal(t, int64(1), counters["parcels.service.item_errors"])
	assert.Equal(t, int64(1), counters["parcels.service.insurance_approved"])
	assert.Equal(t, int64(1), counters["parcels.service.completed"])

	names := make([]string, 0)
	for _, span := range h.recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{"ParcelService.Ingest", "ParcelService.ApproveInsurance", "ParcelService.CompleteProcessing"}, names)
}

func TestService_ErrorsMarkSpanAndRejectCounter(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.svc.Ingest(ctx, types.IngestManifestInput{Manifest: []byte("<Nope/>")})
	require.Error(t, err)
	_, err = h.svc.Get(ctx, types.ParcelIdentifier{ParcelID: "missing"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	spans := h.recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, codes.Error, span.Status().Code, span.Name())
	}
	assert.Equal(t, int64(1), h.counters(t)["parcels.service.manifests_rejected"])
}

func TestNew_DefaultsWithoutOptions(t *testing.T) {
	svc := New(application.NewService(memory.NewRepository(), memory.NewRuleStore()))
	rules, err := svc.Rules(context.Background())
	require.NoError(t, err)
	assert.NoError(t, rules.Validate())
}
