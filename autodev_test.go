package autodev

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/autodev/agent"
	"github.com/hupe1980/autodev/artifact"
	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/internal/testutil"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/model"
	"github.com/hupe1980/autodev/verify"
)

const routes = `[{"is_route_dynamic": "false", "method": "get", "request_body": null, "response": {"rate": "number"}, "route": "/rates"}]`

func scriptedRun() *model.MockGateway {
	return model.NewMockGateway().
		AddResponse("build a website that shows forex prices to logged in users").
		AddResponse(testutil.ScopeJSON(false, true, true)).
		AddResponse(`["https://good.example", "https://bad.example"]`).
		AddResponse("package main // v1").
		AddResponse("package main // v2").
		AddResponse(routes)
}

func forexChecker() verify.Checker {
	return verify.NewStaticChecker(map[string]int{"https://good.example": 200, "https://bad.example": 500})
}

func TestRun_PersistsArtifacts(t *testing.T) {
	store := artifact.NewInMemoryStore()
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Output: &buf, Format: "json"})

	a := New(scriptedRun(), func(o *Options) {
		o.Checker = forexChecker()
		o.ArtifactStore = store
		o.Logger = logger
	})

	fs, err := a.RunWithID(context.Background(), "run-1", "forex site with login please")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://good.example"}, fs.ExternalURLs)
	assert.Equal(t, "package main // v2", fs.BackendCode)

	ids, err := store.List("run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{ArtifactAPIEndpoints, ArtifactBackendCode, ArtifactFactSheet}, ids)

	data, err := store.Get("run-1", ArtifactFactSheet)
	require.NoError(t, err)
	var persisted core.FactSheet
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, *fs, persisted)

	code, err := store.Get("run-1", ArtifactBackendCode)
	require.NoError(t, err)
	assert.Equal(t, "package main // v2", string(code))

	assert.Contains(t, buf.String(), `"run_id":"run-1"`)
	assert.Contains(t, buf.String(), "autodev.run.complete")
	assert.Contains(t, buf.String(), `"component":"flow"`)
	assert.Contains(t, buf.String(), `"component":"agent"`)
	assert.Contains(t, buf.String(), `"msg":"operation.complete"`)
	assert.Contains(t, buf.String(), `"operation":"autodev.run"`)
}

func TestRun_PersistsEmptyURLListWhenAllChecksFail(t *testing.T) {
	store := artifact.NewInMemoryStore()
	gw := model.NewMockGateway().
		AddResponse("build a website that shows forex prices").
		AddResponse(testutil.ScopeJSON(false, false, true)).
		AddResponse(`["https://good.example", "https://bad.example"]`).
		AddResponse("package main // v1").
		AddResponse("package main // v2").
		AddResponse(`[]`)

	a := New(gw, func(o *Options) {
		o.Checker = verify.NewStaticChecker(map[string]int{"https://good.example": 503, "https://bad.example": 500})
		o.ArtifactStore = store
	})

	_, err := a.RunWithID(context.Background(), "run-down", "forex site")
	require.NoError(t, err)

	data, err := store.Get("run-down", ArtifactFactSheet)
	require.NoError(t, err)
	var persisted core.FactSheet
	require.NoError(t, json.Unmarshal(data, &persisted))

	assert.True(t, persisted.HasExternalURLs())
	assert.Empty(t, persisted.ExternalURLs)
	assert.True(t, persisted.HasAPIEndpointSchema())
	assert.Empty(t, persisted.APIEndpointSchema)
}

func TestRun_GeneratesRunID(t *testing.T) {
	store := artifact.NewInMemoryStore()
	a := New(scriptedRun(), func(o *Options) {
		o.Checker = forexChecker()
		o.ArtifactStore = store
	})

	_, err := a.Run(context.Background(), "forex")
	require.NoError(t, err)
	assert.Same(t, store, a.ArtifactStore())
}

func TestRun_PersistsPartialFactSheetOnFailure(t *testing.T) {
	gw := model.NewMockGateway().
		AddResponse("build a website").
		AddResponse(testutil.ScopeJSON(true, false, false)).
		AddResponse("v1").
		AddResponse("v2").
		AddResponse("v3")

	store := artifact.NewInMemoryStore()
	a := New(gw, func(o *Options) {
		o.Checker = verify.NewStaticChecker(nil)
		o.ArtifactStore = store
		o.MaxBugFixes = 1
		o.Validator = agent.CodeValidatorFunc(func(context.Context, string) error {
			return errors.New("syntax error")
		})
	})

	fs, err := a.RunWithID(context.Background(), "run-2", "todo app")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTooManyBugs)
	assert.ErrorIs(t, err, core.ErrFatal)
	require.NotNil(t, fs)
	assert.True(t, fs.HasProjectScope())

	ids, err := store.List("run-2")
	require.NoError(t, err)
	assert.Equal(t, []string{ArtifactBackendCode, ArtifactFactSheet}, ids)
}

func TestRun_GoalFailure(t *testing.T) {
	gw := model.NewMockGateway().
		AddError(core.NewGatewayError(core.GatewayErrorAuth, errors.New("401"))).
		AddError(core.NewGatewayError(core.GatewayErrorAuth, errors.New("401")))

	store := artifact.NewInMemoryStore()
	a := New(gw, func(o *Options) { o.ArtifactStore = store })

	fs, err := a.RunWithID(context.Background(), "run-3", "anything")
	require.Error(t, err)
	assert.Nil(t, fs)
	assert.True(t, core.IsGatewayErrorKind(err, core.GatewayErrorAuth))

	ids, err := store.List("run-3")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRun_ModelCallLimit(t *testing.T) {
	store := artifact.NewInMemoryStore()
	a := New(scriptedRun(), func(o *Options) {
		o.Checker = forexChecker()
		o.ArtifactStore = store
		o.MaxModelCalls = 3
	})

	_, err := a.RunWithID(context.Background(), "run-4", "forex")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelCallLimit)
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
