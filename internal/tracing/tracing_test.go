package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_NoopExporter(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{Enabled: true, Exporter: "noop"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_StdoutExporterWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Options{Enabled: true, Exporter: "stdout", Writer: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Setup(context.Background(), Options{}) })

	_, span := StartSpan(context.Background(), "autodev.run", StringAttr("run_id", "run-1"))
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name": "autodev.run"`)
	assert.Contains(t, buf.String(), "run-1")
}

func TestSetup_UnsupportedExporter(t *testing.T) {
	_, err := Setup(context.Background(), Options{Enabled: true, Exporter: "jaeger"})
	assert.ErrorContains(t, err, "unsupported exporter")
}

func TestSpanHelpers(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test", StringAttr("k", "v"), IntAttr("n", 1))
	assert.NotNil(t, ctx)

	assert.NotPanics(t, func() {
		RecordError(span, errors.New("boom"))
		SetOK(span)
		span.End()
	})
}
