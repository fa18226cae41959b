package agent

import (
	"context"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/flow"
	"github.com/hupe1980/autodev/logging"
	"github.com/hupe1980/autodev/prompt"
)

// Specialist is an agent the ManagingAgent can drive over a fact sheet.
// Only the agent kinds of this package implement it.
type Specialist interface {
	// Name returns the agent's position, used as its label in logs.
	Name() string
	// Execute runs the agent's state loop until it finishes. Executing a
	// finished agent is a no-op.
	Execute(ctx context.Context, fs *core.FactSheet) error

	specialist()
}

// BaseAgent bundles the attributes and model plumbing shared by all agent
// kinds. Embed it in concrete agents.
type BaseAgent struct {
	core.BasicAgent
	requester *flow.Requester
	logger    logging.Logger
}

func newBaseAgent(objective, position string, r *flow.Requester, logger logging.Logger) BaseAgent {
	if logger == nil {
		logger = r.Logger()
	}
	return BaseAgent{
		BasicAgent: core.NewBasicAgent(objective, position),
		requester:  r,
		logger:     logging.OrNoOp(logger),
	}
}

// Name returns the agent's position.
func (b *BaseAgent) Name() string { return b.Position }

// transition moves the agent to the next state and logs the change.
func (b *BaseAgent) transition(to core.AgentState) {
	b.logger.Debug("agent.state.transition", "agent", b.Position, "from", b.State.String(), "to", to.String())
	b.UpdateState(to)
}

// ask sends one task request and records the exchange in memory.
func (b *BaseAgent) ask(ctx context.Context, msgContext, taskDescription string, fn prompt.TaskFunc) (string, error) {
	ex, err := b.requester.Exchange(ctx, msgContext, b.Position, taskDescription, fn)
	if err != nil {
		return "", err
	}
	b.Remember(ex.Prompt, core.NewAssistantMessage(ex.Answer))
	return ex.Answer, nil
}

func askDecoded[T any](ctx context.Context, b *BaseAgent, msgContext, taskDescription string, fn prompt.TaskFunc) (T, error) {
	raw, err := b.ask(ctx, msgContext, taskDescription, fn)
	if err != nil {
		var zero T
		return zero, err
	}
	return flow.Decode[T](raw)
}
