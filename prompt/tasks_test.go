package prompt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFuncs_IgnoreInput(t *testing.T) {
	tasks := map[string]TaskFunc{
		TaskConvertUserInputToGoal:     ConvertUserInputToGoal,
		TaskPrintProjectScope:          PrintProjectScope,
		TaskPrintSiteURLs:              PrintSiteURLs,
		TaskPrintBackendWebserverCode:  PrintBackendWebserverCode,
		TaskPrintImprovedWebserverCode: PrintImprovedWebserverCode,
		TaskPrintFixedCode:             PrintFixedCode,
		TaskPrintRestAPIEndpoints:      PrintRestAPIEndpoints,
	}

	for name, fn := range tasks {
		t.Run(name, func(t *testing.T) {
			desc := fn("a")
			assert.NotEmpty(t, desc)
			assert.Equal(t, desc, fn("b"))
			assert.Contains(t, desc, name)
		})
	}
}

func TestSchemas(t *testing.T) {
	var scope map[string]any
	require.NoError(t, json.Unmarshal([]byte(projectScopeSchema), &scope))
	assert.Equal(t, "object", scope["type"])
	props, ok := scope["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "is_crud_required")
	assert.Contains(t, props, "is_user_login_and_logout")
	assert.Contains(t, props, "is_external_urls_required")

	var urls map[string]any
	require.NoError(t, json.Unmarshal([]byte(urlListSchema), &urls))
	assert.Equal(t, "array", urls["type"])

	assert.Contains(t, PrintRestAPIEndpoints(""), `"route"`)
}
