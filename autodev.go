// Package autodev provides a high-level façade over the agent pipeline. Most
// applications interact with this package by:
//  1. Creating an AutoDev via New() with a model gateway
//  2. Calling Run with a free-form project request
//
// Run converts the request into a project goal, drives the solutions
// architect and the backend developer over one fact sheet, and persists the
// results under a fresh run ID. All defaults are safe for local development;
// production deployments typically supply a file-backed artifact store and a
// structured logger.
package autodev

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/autodev/agent"
	"github.com/hupe1980/autodev/artifact"
	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/flow"
	"github.com/hupe1980/autodev/internal/tracing"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/model"
	"github.com/hupe1980/autodev/verify"
)

// Artifact ids written for every run.
const (
	ArtifactFactSheet    = "factsheet.json"
	ArtifactBackendCode  = "backend_code"
	ArtifactAPIEndpoints = "api_endpoints.json"
)

// Options configures the AutoDev instance.
type Options struct {
	// Checker verifies external URLs (defaults to an HTTP checker with a
	// five second timeout).
	Checker verify.Checker

	// ArtifactStore receives the run results (defaults to in-memory).
	ArtifactStore core.ArtifactStore

	// CodeTemplate seeds the backend developer. Empty uses the built-in template.
	CodeTemplate string

	// Validator checks generated backend code. Nil accepts every version.
	Validator agent.CodeValidator

	// MaxAttempts bounds gateway calls per request; Backoff separates them.
	MaxAttempts int
	Backoff     time.Duration

	// MaxModelCalls caps model calls per run. Zero means unlimited.
	MaxModelCalls int

	// MaxBugFixes bounds the backend developer's fix attempts.
	MaxBugFixes int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AutoDev runs the agent pipeline against one model gateway.
type AutoDev struct {
	gateway model.Gateway
	opts    Options
}

// New creates a new AutoDev instance with optional overrides.
func New(gw model.Gateway, optFns ...func(o *Options)) *AutoDev {
	opts := Options{
		ArtifactStore: artifact.NewInMemoryStore(),
		MaxAttempts:   flow.DefaultMaxAttempts,
		MaxBugFixes:   agent.DefaultMaxBugFixes,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Checker == nil {
		opts.Checker = verify.NewHTTPChecker()
	}
	if opts.CodeTemplate == "" {
		opts.CodeTemplate = agent.DefaultCodeTemplate
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	return &AutoDev{gateway: gw, opts: opts}
}

// ArtifactStore returns the store run results are written to.
func (a *AutoDev) ArtifactStore() core.ArtifactStore { return a.opts.ArtifactStore }

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Run executes the pipeline under a fresh run ID.
func (a *AutoDev) Run(ctx context.Context, userRequest string) (*core.FactSheet, error) {
	return a.RunWithID(ctx, NewRunID(), userRequest)
}

// RunWithID executes the pipeline and persists its artifacts under runID.
// The fact sheet is persisted even when an agent fails, reflecting how far
// the run got; the returned error then wraps the agent's error.
func (a *AutoDev) RunWithID(ctx context.Context, runID, userRequest string) (*core.FactSheet, error) {
	logger := a.opts.Logger
	flowLogger, agentLogger := logger, logger
	startArgs := []any{"run_id", runID}
	if al, ok := logger.(*logging.AgentLogger); ok {
		al = al.WithRun(runID)
		logger, flowLogger, agentLogger = al, al.WithComponent("flow"), al.WithComponent("agent")
		startArgs = nil
	}

	ctx, span := tracing.StartSpan(ctx, "autodev.run", tracing.StringAttr("run_id", runID))
	defer span.End()

	logger.Info("autodev.run.start", startArgs...)
	stopTimer := logging.StartTimer(logger, "autodev.run")

	requester := flow.NewRequester(a.gateway, func(o *flow.Options) {
		o.MaxAttempts = a.opts.MaxAttempts
		o.Backoff = a.opts.Backoff
		o.Logger = flowLogger
		if a.opts.MaxModelCalls > 0 {
			o.Limiter = core.NewModelLimiter(a.opts.MaxModelCalls)
		}
	})

	architect := agent.NewSolutionsArchitect(requester, func(o *agent.ArchitectOptions) {
		o.Checker = a.opts.Checker
		o.Logger = agentLogger
	})
	backend := agent.NewBackendDeveloper(requester, func(o *agent.BackendOptions) {
		o.CodeTemplate = a.opts.CodeTemplate
		o.MaxBugFixes = a.opts.MaxBugFixes
		o.Validator = a.opts.Validator
		o.Logger = agentLogger
	})

	manager, err := agent.NewManagingAgent(ctx, requester, userRequest, architect, backend)
	if err != nil {
		tracing.RecordError(span, err)
		logger.Error("autodev.run.failed", "error", err.Error())
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	runErr := manager.ExecuteProject(ctx)
	fs := manager.FactSheet().Clone()

	if err := a.persist(runID, fs); err != nil {
		tracing.RecordError(span, err)
		logger.Error("autodev.persist.failed", "error", err.Error())
		if runErr == nil {
			return fs, fmt.Errorf("run %s: %w", runID, err)
		}
	}

	if runErr != nil {
		tracing.RecordError(span, runErr)
		logger.Error("autodev.run.failed", "error", runErr.Error())
		return fs, fmt.Errorf("run %s: %w", runID, runErr)
	}

	tracing.SetOK(span)
	stopTimer()
	logger.Info("autodev.run.complete")
	return fs, nil
}

func (a *AutoDev) persist(runID string, fs *core.FactSheet) error {
	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fact sheet: %w", err)
	}
	if err := a.opts.ArtifactStore.Save(runID, ArtifactFactSheet, data); err != nil {
		return fmt.Errorf("save %s: %w", ArtifactFactSheet, err)
	}

	if fs.HasBackendCode() {
		if err := a.opts.ArtifactStore.Save(runID, ArtifactBackendCode, []byte(fs.BackendCode)); err != nil {
			return fmt.Errorf("save %s: %w", ArtifactBackendCode, err)
		}
	}

	if fs.HasAPIEndpointSchema() {
		data, err := json.MarshalIndent(fs.APIEndpointSchema, "", "  ")
		if err != nil {
			return fmt.Errorf("encode endpoints: %w", err)
		}
		if err := a.opts.ArtifactStore.Save(runID, ArtifactAPIEndpoints, data); err != nil {
			return fmt.Errorf("save %s: %w", ArtifactAPIEndpoints, err)
		}
	}

	return nil
}
