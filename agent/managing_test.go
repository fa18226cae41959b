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

type unknownSpecialist struct{ executed bool }

func (u *unknownSpecialist) Name() string { return "Unknown" }

func (u *unknownSpecialist) Execute(context.Context, *core.FactSheet) error {
	u.executed = true
	return nil
}

func (u *unknownSpecialist) specialist() {}

func TestManagingAgent_EndToEnd(t *testing.T) {
	gw := model.NewMockGateway().
		AddResponse("  build a website that shows forex prices to logged in users\n").
		AddResponse(testutil.ScopeJSON(false, true, true)).
		AddResponse(`["https://good.example", "https://bad.example"]`).
		AddResponse("code v1").
		AddResponse("code v2").
		AddResponse(routesJSON)

	r := flow.NewRequester(gw)
	architect := NewSolutionsArchitect(r, func(o *ArchitectOptions) {
		o.Checker = verify.NewStaticChecker(map[string]int{"https://good.example": 200, "https://bad.example": 500})
	})
	backend := NewBackendDeveloper(r)

	m, err := NewManagingAgent(context.Background(), r, "I want a forex site with login", architect, backend)
	require.NoError(t, err)
	assert.Equal(t, core.StateWorking, m.State)
	assert.Equal(t, "build a website that shows forex prices to logged in users", m.FactSheet().ProjectDescription)

	require.NoError(t, m.ExecuteProject(context.Background()))

	fs := m.FactSheet()
	assert.Equal(t, core.StateFinished, m.State)
	assert.Equal(t, core.StateFinished, architect.State)
	assert.Equal(t, core.StateFinished, backend.State)
	assert.Equal(t, []string{"https://good.example"}, fs.ExternalURLs)
	assert.Equal(t, "code v2", fs.BackendCode)
	assert.Len(t, fs.APIEndpointSchema, 1)
	assert.Equal(t, 0, gw.Pending())

	// the improve request sees the filtered URL list
	assert.Contains(t, gw.Requests()[4][0].Content, "EXTERNAL_URLS: https://good.example\n")
}

func TestManagingAgent_DefaultPipeline(t *testing.T) {
	gw := model.NewMockGateway().AddResponse("build a website that says hello")

	m, err := NewManagingAgent(context.Background(), flow.NewRequester(gw), "hello site")
	require.NoError(t, err)

	agents := m.Agents()
	require.Len(t, agents, 2)
	assert.IsType(t, &SolutionsArchitect{}, agents[0])
	assert.IsType(t, &BackendDeveloper{}, agents[1])
	assert.Equal(t, "Project Manager", m.Name())
	require.Len(t, m.Memory, 2)
}

func TestManagingAgent_GoalFailure(t *testing.T) {
	gw := model.NewMockGateway().AddError(errors.New("down")).AddError(errors.New("down"))

	m, err := NewManagingAgent(context.Background(), flow.NewRequester(gw), "anything")
	require.Error(t, err)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, core.ErrFatal)
}

func TestManagingAgent_StopsAtFirstError(t *testing.T) {
	gw := model.NewMockGateway().
		AddResponse("build a website").
		AddResponse("not json")

	r := flow.NewRequester(gw)
	architect := NewSolutionsArchitect(r, func(o *ArchitectOptions) { o.Checker = verify.NewStaticChecker(nil) })
	backend := NewBackendDeveloper(r)

	m, err := NewManagingAgent(context.Background(), r, "site", architect, backend)
	require.NoError(t, err)

	err = m.ExecuteProject(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.Contains(t, err.Error(), "agent Solutions Architect")
	assert.Equal(t, core.StateDiscovery, backend.State)
	assert.Equal(t, core.StateWorking, m.State)
	assert.False(t, m.FactSheet().HasBackendCode())
}

func TestManagingAgent_UnsupportedAgent(t *testing.T) {
	gw := model.NewMockGateway().AddResponse("build a website")
	u := &unknownSpecialist{}

	m, err := NewManagingAgent(context.Background(), flow.NewRequester(gw), "site", u)
	require.NoError(t, err)

	err = m.ExecuteProject(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported agent")
	assert.False(t, u.executed)
}
