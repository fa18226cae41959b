package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/flow"
	"github.com/hupe1980/autodev/internal/testutil"
	"github.com/hupe1980/autodev/model"
	"github.com/hupe1980/autodev/verify"
)

func newArchitect(gw model.Gateway, checker verify.Checker) *SolutionsArchitect {
	return NewSolutionsArchitect(flow.NewRequester(gw), func(o *ArchitectOptions) {
		o.Checker = checker
	})
}

func TestSolutionsArchitect_ForexScenario(t *testing.T) {
	gw := model.NewMockGateway().
		AddResponse(testutil.ScopeJSON(false, true, true)).
		AddResponse(`["https://good.example", "https://bad.example"]`)
	checker := verify.NewStaticChecker(map[string]int{
		"https://good.example": 200,
		"https://bad.example":  500,
	})

	fs := core.NewFactSheet("Build a site with login/logout showing forex prices")
	a := newArchitect(gw, checker)

	require.NoError(t, a.Execute(context.Background(), fs))

	assert.Equal(t, []string{"https://good.example"}, fs.ExternalURLs)
	require.NotNil(t, fs.ProjectScope)
	assert.True(t, fs.ProjectScope.IsExternalURLsRequired)
	assert.True(t, fs.ProjectScope.IsUserLoginAndLogout)
	assert.Equal(t, core.StateFinished, a.State)
	assert.Equal(t, []string{"https://good.example", "https://bad.example"}, checker.Checked())

	// two exchanges, prompt and answer each
	require.Len(t, a.Memory, 4)
	assert.Equal(t, core.RoleSystem, a.Memory[0].Role)
	assert.Equal(t, core.RoleAssistant, a.Memory[1].Role)

	reqs := gw.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0][0].Content, `"Build a site with login/logout showing forex prices"`)
	assert.Equal(t, reqs[0][0], a.Memory[0], "memory holds the prompt as sent")
	assert.Equal(t, reqs[1][0], a.Memory[2])
	assert.Equal(t, `["https://good.example", "https://bad.example"]`, a.Memory[3].Content)
}

func TestSolutionsArchitect_URLFiltering(t *testing.T) {
	gw := model.NewMockGateway()
	checker := verify.NewStaticChecker(map[string]int{"A": 200, "B": 404}).
		WithError("C", errors.New("context deadline exceeded"))

	fs := testutil.NewFactSheetBuilder("desc").Scope(false, false, true).URLs("A", "B", "C").Build()
	a := newArchitect(gw, checker)
	a.UpdateState(core.StateUnitTesting)

	require.NoError(t, a.Execute(context.Background(), fs))

	assert.Equal(t, []string{"A"}, fs.ExternalURLs)
	assert.Equal(t, core.StateFinished, a.State)
	assert.Equal(t, 0, gw.Calls())
}

func TestSolutionsArchitect_AllURLsFail(t *testing.T) {
	checker := verify.NewStaticChecker(map[string]int{"A": 503})

	fs := testutil.NewFactSheetBuilder("desc").URLs("A", "B").Build()
	a := newArchitect(model.NewMockGateway(), checker)
	a.UpdateState(core.StateUnitTesting)

	require.NoError(t, a.Execute(context.Background(), fs))

	assert.True(t, fs.HasExternalURLs())
	assert.Empty(t, fs.ExternalURLs)
}

func TestSolutionsArchitect_NoExternalURLsRequired(t *testing.T) {
	gw := model.NewMockGateway().AddResponse(testutil.ScopeJSON(true, true, false))
	checker := verify.NewStaticChecker(nil)

	fs := core.NewFactSheet("a todo list with accounts")
	a := newArchitect(gw, checker)

	require.NoError(t, a.Execute(context.Background(), fs))

	assert.Equal(t, core.StateFinished, a.State)
	assert.True(t, fs.HasProjectScope())
	assert.False(t, fs.HasExternalURLs())
	assert.Equal(t, 1, gw.Calls())
	assert.Empty(t, checker.Checked())
}

func TestSolutionsArchitect_FinishedIsIdempotent(t *testing.T) {
	gw := model.NewMockGateway().
		AddResponse(testutil.ScopeJSON(false, false, true)).
		AddResponse(`["A"]`)
	checker := verify.NewStaticChecker(map[string]int{"A": 200})

	fs := core.NewFactSheet("desc")
	a := newArchitect(gw, checker)
	require.NoError(t, a.Execute(context.Background(), fs))

	before := fs.Clone()
	memory := len(a.Memory)

	require.NoError(t, a.Execute(context.Background(), fs))

	assert.Equal(t, before, fs)
	assert.Equal(t, 2, gw.Calls())
	assert.Len(t, checker.Checked(), 1)
	assert.Len(t, a.Memory, memory)
}

func TestSolutionsArchitect_UnknownStateFinishes(t *testing.T) {
	gw := model.NewMockGateway()
	fs := core.NewFactSheet("desc")

	a := newArchitect(gw, verify.NewStaticChecker(nil))
	a.UpdateState(core.StateWorking)

	require.NoError(t, a.Execute(context.Background(), fs))
	assert.Equal(t, core.StateFinished, a.State)
	assert.Equal(t, 0, gw.Calls())
	assert.False(t, fs.HasProjectScope())
}

func TestSolutionsArchitect_WriteOnceSequencing(t *testing.T) {
	gw := model.NewMockGateway().
		AddResponse(testutil.ScopeJSON(false, false, true)).
		AddResponse(`["A", "B"]`)

	fs := core.NewFactSheet("desc")

	var scopeDuringTesting *core.ProjectScope
	var urlsDuringTesting []string
	checker := verify.CheckerFunc(func(_ context.Context, url string) (int, error) {
		if scopeDuringTesting == nil {
			scopeDuringTesting = fs.ProjectScope
			urlsDuringTesting = append([]string{}, fs.ExternalURLs...)
		}
		return 200, nil
	})

	a := newArchitect(gw, checker)
	require.NoError(t, a.Execute(context.Background(), fs))

	require.NotNil(t, scopeDuringTesting)
	assert.Same(t, scopeDuringTesting, fs.ProjectScope)
	assert.Equal(t, []string{"A", "B"}, urlsDuringTesting)
	assert.Equal(t, []string{"A", "B"}, fs.ExternalURLs)
}

func TestSolutionsArchitect_MissingURLs(t *testing.T) {
	fs := core.NewFactSheet("desc")
	a := newArchitect(model.NewMockGateway(), verify.NewStaticChecker(nil))
	a.UpdateState(core.StateUnitTesting)

	err := a.Execute(context.Background(), fs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingURLs)
	assert.Equal(t, core.StateUnitTesting, a.State)
}

func TestSolutionsArchitect_GatewayFailureIsFatal(t *testing.T) {
	gw := model.NewMockGateway().
		AddError(errors.New("connection refused")).
		AddError(errors.New("connection refused"))

	fs := core.NewFactSheet("desc")
	a := newArchitect(gw, verify.NewStaticChecker(nil))

	err := a.Execute(context.Background(), fs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFatal)
	assert.True(t, core.IsGatewayErrorKind(err, core.GatewayErrorNetwork))
	assert.False(t, fs.HasProjectScope())
	assert.Equal(t, core.StateDiscovery, a.State)
	assert.Equal(t, 2, gw.Calls())
}

func TestSolutionsArchitect_MalformedScope(t *testing.T) {
	gw := model.NewMockGateway().AddResponse("The project needs login.")

	fs := core.NewFactSheet("desc")
	a := newArchitect(gw, verify.NewStaticChecker(nil))

	err := a.Execute(context.Background(), fs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.ErrorIs(t, err, core.ErrFatal)
	assert.False(t, fs.HasProjectScope())
}

func TestSolutionsArchitect_CancelledDuringChecks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := verify.CheckerFunc(func(ctx context.Context, _ string) (int, error) {
		cancel()
		return 0, ctx.Err()
	})

	fs := testutil.NewFactSheetBuilder("desc").URLs("A", "B").Build()
	a := newArchitect(model.NewMockGateway(), checker)
	a.UpdateState(core.StateUnitTesting)

	err := a.Execute(ctx, fs)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A", "B"}, fs.ExternalURLs)
}

func TestNewSolutionsArchitect_Defaults(t *testing.T) {
	a := NewSolutionsArchitect(flow.NewRequester(model.NewMockGateway()))
	assert.Equal(t, "Solutions Architect", a.Name())
	assert.Equal(t, core.StateDiscovery, a.State)
	assert.IsType(t, &verify.HTTPChecker{}, a.checker)
}
