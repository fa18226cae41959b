package core

import (
	"slices"

	"github.com/samber/lo"
)

// ProjectScope is the model's assessment of what the project needs. It is
// decoded from model output once and read-only afterwards.
type ProjectScope struct {
	IsCRUDRequired         bool `json:"is_crud_required" jsonschema:"description=Whether the site needs create/read/update/delete endpoints"`
	IsUserLoginAndLogout   bool `json:"is_user_login_and_logout" jsonschema:"description=Whether users must be able to log in and out"`
	IsExternalURLsRequired bool `json:"is_external_urls_required" jsonschema:"description=Whether the site consumes data from external URLs"`
}

// RouteObject describes one REST endpoint of the generated backend.
type RouteObject struct {
	IsRouteDynamic string         `json:"is_route_dynamic" jsonschema:"description=Literal true when the route contains path parameters"`
	Method         string         `json:"method" jsonschema:"description=HTTP method, e.g. get or post"`
	RequestBody    map[string]any `json:"request_body" jsonschema:"description=Example request body keyed by field name"`
	Response       map[string]any `json:"response" jsonschema:"description=Example response body keyed by field name"`
	Route          string         `json:"route" jsonschema:"description=Route path, e.g. /item/{id}"`
}

// FactSheet is the project record threaded through the agent pipeline.
// The caller supplies ProjectDescription; agents populate the remaining
// fields in pipeline order. A nil pointer, nil slice or empty string means
// "not populated yet".
//
// Fields are written once and then only read by later agents, with two
// exceptions: ExternalURLs may be narrowed by ExcludeURLs, and BackendCode is
// refined in place by the agent that owns it.
//
// FactSheet does no locking. Agents run strictly one after another over the
// same sheet; callers that run agents concurrently must serialize access.
type FactSheet struct {
	ProjectDescription string        `json:"project_description"`
	ProjectScope       *ProjectScope `json:"project_scope,omitempty"`
	ExternalURLs       []string      `json:"external_urls"`
	APIEndpointSchema  []RouteObject `json:"api_endpoint_schema"`
	BackendCode        string        `json:"backend_code,omitempty"`
}

// NewFactSheet returns a fact sheet with only the project description set.
func NewFactSheet(projectDescription string) *FactSheet {
	return &FactSheet{ProjectDescription: projectDescription}
}

// HasProjectScope reports whether the scope has been populated.
func (f *FactSheet) HasProjectScope() bool { return f.ProjectScope != nil }

// HasExternalURLs reports whether the URL list has been populated. A list
// that was populated and then filtered down to nothing still counts.
func (f *FactSheet) HasExternalURLs() bool { return f.ExternalURLs != nil }

// HasBackendCode reports whether backend code has been generated.
func (f *FactSheet) HasBackendCode() bool { return f.BackendCode != "" }

// HasAPIEndpointSchema reports whether the endpoint schema has been populated.
func (f *FactSheet) HasAPIEndpointSchema() bool { return f.APIEndpointSchema != nil }

// SetExternalURLs stores a copy of urls. A nil input is stored as an empty,
// populated list.
func (f *FactSheet) SetExternalURLs(urls []string) {
	cp := make([]string, len(urls))
	copy(cp, urls)
	f.ExternalURLs = cp
}

// ExcludeURLs removes every URL contained in exclude, preserving the order of
// the remaining ones. It is a no-op when exclude is empty.
func (f *FactSheet) ExcludeURLs(exclude []string) {
	if len(exclude) == 0 || f.ExternalURLs == nil {
		return
	}
	f.ExternalURLs = lo.Filter(f.ExternalURLs, func(url string, _ int) bool {
		return !lo.Contains(exclude, url)
	})
}

// Clone returns a deep copy suitable for persistence or snapshots.
func (f *FactSheet) Clone() *FactSheet {
	cp := &FactSheet{
		ProjectDescription: f.ProjectDescription,
		BackendCode:        f.BackendCode,
	}
	if f.ProjectScope != nil {
		scope := *f.ProjectScope
		cp.ProjectScope = &scope
	}
	if f.ExternalURLs != nil {
		cp.ExternalURLs = slices.Clone(f.ExternalURLs)
	}
	if f.APIEndpointSchema != nil {
		cp.APIEndpointSchema = make([]RouteObject, len(f.APIEndpointSchema))
		for i, r := range f.APIEndpointSchema {
			r.RequestBody = cloneMap(r.RequestBody)
			r.Response = cloneMap(r.Response)
			cp.APIEndpointSchema[i] = r
		}
	}
	return cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
