package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/hupe1980/autodev/core"
)

var (
	projectScopeSchema = schemaOf[core.ProjectScope]()
	urlListSchema      = schemaOf[[]string]()
	routeListSchema    = schemaOf[[]core.RouteObject]()
)

// schemaOf renders the JSON schema of T so task descriptions state the exact
// shape the decoder expects.
func schemaOf[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	b, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("prompt: render schema for %T: %v", v, err))
	}
	return string(b)
}
