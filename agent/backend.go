package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/flow"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/prompt"
)

const (
	backendObjective = "Develops backend code for webserver and json database"
	backendPosition  = "Backend Developer"

	// DefaultMaxBugFixes is how many failed validations the backend
	// developer tries to fix before giving up.
	DefaultMaxBugFixes = 2
)

// DefaultCodeTemplate is the web server skeleton the backend developer starts
// from when no template is configured.
const DefaultCodeTemplate = `package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
)

type Item struct {
	ID   int    ` + "`json:\"id\"`" + `
	Name string ` + "`json:\"name\"`" + `
}

type store struct {
	mu    sync.Mutex
	items map[int]Item
	next  int
}

func (s *store) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *store) create(w http.ResponseWriter, r *http.Request) {
	var it Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.next++
	it.ID = s.next
	s.items[it.ID] = it
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(it)
}

func main() {
	s := &store{items: map[int]Item{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items", s.list)
	mux.HandleFunc("POST /items", s.create)
	log.Fatal(http.ListenAndServe(":8080", mux))
}
`

// CodeValidator checks generated backend code. A nil error accepts the code;
// any other error is reported back to the model as a bug to fix.
type CodeValidator interface {
	Validate(ctx context.Context, code string) error
}

// CodeValidatorFunc adapts a function to CodeValidator.
type CodeValidatorFunc func(ctx context.Context, code string) error

// Validate implements CodeValidator.
func (f CodeValidatorFunc) Validate(ctx context.Context, code string) error { return f(ctx, code) }

// BackendOptions configures a BackendDeveloper.
type BackendOptions struct {
	// CodeTemplate is the starting point for the generated server.
	CodeTemplate string
	// MaxBugFixes bounds the fix attempts after failed validations.
	MaxBugFixes int
	// Validator checks generated code. Nil accepts every version.
	Validator CodeValidator
	Logger    logging.Logger
}

// BackendDeveloper writes the backend server for the fact sheet's project and
// extracts its REST endpoint schema.
//
// States:
//
//	Discovery   -> initial code from the template
//	Working     -> improved code, or fixed code after a failed validation
//	UnitTesting -> validate; back to Working on failure, else extract endpoints
//	Finished
type BackendDeveloper struct {
	BaseAgent
	opts     BackendOptions
	bugCount int
	bugErr   error
}

// NewBackendDeveloper creates a BackendDeveloper in StateDiscovery.
func NewBackendDeveloper(r *flow.Requester, optFns ...func(o *BackendOptions)) *BackendDeveloper {
	opts := BackendOptions{
		CodeTemplate: DefaultCodeTemplate,
		MaxBugFixes:  DefaultMaxBugFixes,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxBugFixes < 0 {
		opts.MaxBugFixes = 0
	}

	return &BackendDeveloper{
		BaseAgent: newBaseAgent(backendObjective, backendPosition, r, opts.Logger),
		opts:      opts,
	}
}

// BugCount returns the number of failed validations so far.
func (d *BackendDeveloper) BugCount() int { return d.bugCount }

// Execute implements Specialist.
func (d *BackendDeveloper) Execute(ctx context.Context, fs *core.FactSheet) error {
	for !d.IsFinished() {
		switch d.State {
		case core.StateDiscovery:
			if err := d.writeInitialCode(ctx, fs); err != nil {
				return err
			}
			d.transition(core.StateWorking)
		case core.StateWorking:
			if err := d.refineCode(ctx, fs); err != nil {
				return err
			}
			d.transition(core.StateUnitTesting)
		case core.StateUnitTesting:
			passed, err := d.validate(ctx, fs)
			if err != nil {
				return err
			}
			if !passed {
				d.transition(core.StateWorking)
				continue
			}
			if err := d.extractEndpoints(ctx, fs); err != nil {
				return err
			}
			d.transition(core.StateFinished)
		default:
			d.logger.Warn("agent.state.unexpected", "agent", d.Position, "state", d.State.String())
			d.transition(core.StateFinished)
		}
	}
	return nil
}

func (d *BackendDeveloper) writeInitialCode(ctx context.Context, fs *core.FactSheet) error {
	msg := fmt.Sprintf("CODE TEMPLATE: %s\nPROJECT_DESCRIPTION: %s\n%s", d.opts.CodeTemplate, fs.ProjectDescription, scopeContext(fs))

	code, err := d.ask(ctx, msg, prompt.TaskPrintBackendWebserverCode, prompt.PrintBackendWebserverCode)
	if err != nil {
		return fmt.Errorf("initial backend code: %w", err)
	}
	fs.BackendCode = code
	return nil
}

func (d *BackendDeveloper) refineCode(ctx context.Context, fs *core.FactSheet) error {
	if d.bugErr != nil {
		msg := fmt.Sprintf("BROKEN_CODE: %s\nERROR_BUGS: %v\nTHIS FUNCTION ONLY OUTPUTS CODE. JUST OUTPUT THE CODE.", fs.BackendCode, d.bugErr)

		code, err := d.ask(ctx, msg, prompt.TaskPrintFixedCode, prompt.PrintFixedCode)
		if err != nil {
			return fmt.Errorf("fix backend code: %w", err)
		}
		fs.BackendCode = code
		return nil
	}

	msg := fmt.Sprintf("CODE TEMPLATE: %s\nPROJECT_DESCRIPTION: %s\n%s", fs.BackendCode, fs.ProjectDescription, urlContext(fs))

	code, err := d.ask(ctx, msg, prompt.TaskPrintImprovedWebserverCode, prompt.PrintImprovedWebserverCode)
	if err != nil {
		return fmt.Errorf("improve backend code: %w", err)
	}
	fs.BackendCode = code
	return nil
}

// validate reports whether the current code passed. A failure beyond
// MaxBugFixes is returned as a fatal error.
func (d *BackendDeveloper) validate(ctx context.Context, fs *core.FactSheet) (bool, error) {
	if d.opts.Validator == nil {
		d.bugErr = nil
		return true, nil
	}

	logging.AgentMessage(d.logger, logging.MessageUnitTest, d.Position, "Validating backend code")

	err := d.opts.Validator.Validate(ctx, fs.BackendCode)
	if err == nil {
		d.bugErr = nil
		logging.AgentMessage(d.logger, logging.MessageUnitTest, d.Position, "Backend code accepted")
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	d.bugCount++
	d.bugErr = err
	logging.AgentMessage(d.logger, logging.MessageIssue, d.Position, fmt.Sprintf("Validation failed (%d/%d): %v", d.bugCount, d.opts.MaxBugFixes, err))

	if d.bugCount > d.opts.MaxBugFixes {
		return false, fmt.Errorf("%w: %w: %d failed validations: %w", core.ErrFatal, core.ErrTooManyBugs, d.bugCount, err)
	}
	return false, nil
}

func (d *BackendDeveloper) extractEndpoints(ctx context.Context, fs *core.FactSheet) error {
	routes, err := askDecoded[[]core.RouteObject](ctx, &d.BaseAgent, fs.BackendCode, prompt.TaskPrintRestAPIEndpoints, prompt.PrintRestAPIEndpoints)
	if err != nil {
		return fmt.Errorf("rest api endpoints: %w", err)
	}
	if routes == nil {
		routes = []core.RouteObject{}
	}
	fs.APIEndpointSchema = routes
	return nil
}

func (d *BackendDeveloper) specialist() {}

func scopeContext(fs *core.FactSheet) string {
	if !fs.HasProjectScope() {
		return ""
	}
	b, err := json.Marshal(fs.ProjectScope)
	if err != nil {
		return ""
	}
	return "PROJECT_SCOPE: " + string(b) + "\n"
}

func urlContext(fs *core.FactSheet) string {
	if len(fs.ExternalURLs) == 0 {
		return ""
	}
	return "EXTERNAL_URLS: " + strings.Join(fs.ExternalURLs, ", ") + "\n"
}

var _ Specialist = (*BackendDeveloper)(nil)
