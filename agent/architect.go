package agent

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/flow"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/prompt"
	"github.com/hupe1980/autodev/verify"
)

const (
	architectObjective = "Gathers information and design solutions for website development"
	architectPosition  = "Solutions Architect"
)

// ArchitectOptions configures a SolutionsArchitect.
type ArchitectOptions struct {
	// Checker verifies external URLs. Defaults to an HTTPChecker with a
	// five second timeout.
	Checker verify.Checker
	Logger  logging.Logger
}

// SolutionsArchitect decides the project scope and, when the project needs
// external data, which public URLs to use.
//
// States:
//
//	Discovery   -> request ProjectScope; request URLs if needed
//	UnitTesting -> drop URLs that do not answer 200
//	Finished
type SolutionsArchitect struct {
	BaseAgent
	checker verify.Checker
}

// NewSolutionsArchitect creates a SolutionsArchitect in StateDiscovery.
func NewSolutionsArchitect(r *flow.Requester, optFns ...func(o *ArchitectOptions)) *SolutionsArchitect {
	opts := ArchitectOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Checker == nil {
		opts.Checker = verify.NewHTTPChecker()
	}

	return &SolutionsArchitect{
		BaseAgent: newBaseAgent(architectObjective, architectPosition, r, opts.Logger),
		checker:   opts.Checker,
	}
}

// Execute implements Specialist.
func (a *SolutionsArchitect) Execute(ctx context.Context, fs *core.FactSheet) error {
	for !a.IsFinished() {
		switch a.State {
		case core.StateDiscovery:
			if err := a.discover(ctx, fs); err != nil {
				return err
			}
		case core.StateUnitTesting:
			if err := a.testURLs(ctx, fs); err != nil {
				return err
			}
			a.transition(core.StateFinished)
		default:
			a.logger.Warn("agent.state.unexpected", "agent", a.Position, "state", a.State.String())
			a.transition(core.StateFinished)
		}
	}
	return nil
}

func (a *SolutionsArchitect) discover(ctx context.Context, fs *core.FactSheet) error {
	scope, err := askDecoded[core.ProjectScope](ctx, &a.BaseAgent, fmt.Sprintf("%q", fs.ProjectDescription), prompt.TaskPrintProjectScope, prompt.PrintProjectScope)
	if err != nil {
		return fmt.Errorf("project scope: %w", err)
	}
	fs.ProjectScope = &scope

	if !scope.IsExternalURLsRequired {
		a.transition(core.StateFinished)
		return nil
	}

	urls, err := askDecoded[[]string](ctx, &a.BaseAgent, fs.ProjectDescription, prompt.TaskPrintSiteURLs, prompt.PrintSiteURLs)
	if err != nil {
		return fmt.Errorf("external urls: %w", err)
	}
	fs.SetExternalURLs(urls)

	a.transition(core.StateUnitTesting)
	return nil
}

// testURLs checks every URL and removes the ones that fail. Check errors are
// logged and never abort the agent.
func (a *SolutionsArchitect) testURLs(ctx context.Context, fs *core.FactSheet) error {
	if !fs.HasExternalURLs() {
		return fmt.Errorf("%s: %w", a.Position, core.ErrMissingURLs)
	}

	var exclude []string
	for _, url := range fs.ExternalURLs {
		logging.AgentMessage(a.logger, logging.MessageUnitTest, a.Position, "Testing URL endpoint: "+url)

		code, err := a.checker.Check(ctx, url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logging.AgentMessage(a.logger, logging.MessageIssue, a.Position, fmt.Sprintf("Error checking %s: %v", url, err))
			exclude = append(exclude, url)
			continue
		}
		if code != http.StatusOK {
			exclude = append(exclude, url)
		}
	}

	if len(exclude) > 0 {
		a.logger.Info("agent.urls.excluded", "agent", a.Position, "excluded", exclude)
		fs.ExcludeURLs(exclude)
	}
	return nil
}

func (a *SolutionsArchitect) specialist() {}

var _ Specialist = (*SolutionsArchitect)(nil)
