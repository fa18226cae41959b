package testutil

import (
	"encoding/json"

	"github.com/hupe1980/autodev/core"
)

// FactSheetBuilder provides a fluent helper for constructing fact sheets in tests.
// Example:
//
//	fs := NewFactSheetBuilder("forex site").Scope(false, true, true).URLs("https://a.example").Build()
//
// Chain only the fields you need; everything else stays unset.
type FactSheetBuilder struct {
	fs core.FactSheet
}

// NewFactSheetBuilder creates a builder with the given project description.
func NewFactSheetBuilder(description string) *FactSheetBuilder {
	return &FactSheetBuilder{fs: core.FactSheet{ProjectDescription: description}}
}

// Scope sets the project scope (chainable).
func (b *FactSheetBuilder) Scope(crud, login, externalURLs bool) *FactSheetBuilder {
	b.fs.ProjectScope = &core.ProjectScope{
		IsCRUDRequired:         crud,
		IsUserLoginAndLogout:   login,
		IsExternalURLsRequired: externalURLs,
	}
	return b
}

// URLs sets the external URL list (chainable). Calling it without arguments
// produces a set but empty list.
func (b *FactSheetBuilder) URLs(urls ...string) *FactSheetBuilder {
	b.fs.SetExternalURLs(urls)
	return b
}

// Code sets the backend code (chainable).
func (b *FactSheetBuilder) Code(code string) *FactSheetBuilder {
	b.fs.BackendCode = code
	return b
}

// Routes sets the endpoint schema (chainable).
func (b *FactSheetBuilder) Routes(routes ...core.RouteObject) *FactSheetBuilder {
	b.fs.APIEndpointSchema = append([]core.RouteObject{}, routes...)
	return b
}

// Build returns a fresh copy of the fact sheet.
func (b *FactSheetBuilder) Build() *core.FactSheet { return b.fs.Clone() }

// ScopeJSON renders a ProjectScope answer as the model would print it.
func ScopeJSON(crud, login, externalURLs bool) string {
	return MustJSON(core.ProjectScope{
		IsCRUDRequired:         crud,
		IsUserLoginAndLogout:   login,
		IsExternalURLsRequired: externalURLs,
	})
}

// MustJSON marshals v or panics.
func MustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
