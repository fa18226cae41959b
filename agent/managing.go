package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/autodev/core"
	"github.com/hupe1980/autodev/flow"
	"github.com/hupe1980/autodev/prompt"
)

const (
	managerObjective = "Manage agents who are building an excellent website for the user"
	managerPosition  = "Project Manager"
)

// ManagingAgent owns the fact sheet of one run and drives the specialists
// over it in a fixed order.
type ManagingAgent struct {
	BaseAgent
	factSheet *core.FactSheet
	agents    []Specialist
}

// NewManagingAgent turns userRequest into a project goal and creates the
// fact sheet for it. Without agents the pipeline is SolutionsArchitect
// followed by BackendDeveloper.
func NewManagingAgent(ctx context.Context, r *flow.Requester, userRequest string, agents ...Specialist) (*ManagingAgent, error) {
	m := &ManagingAgent{
		BaseAgent: newBaseAgent(managerObjective, managerPosition, r, nil),
	}

	goal, err := m.ask(ctx, userRequest, prompt.TaskConvertUserInputToGoal, prompt.ConvertUserInputToGoal)
	if err != nil {
		return nil, fmt.Errorf("project goal: %w", err)
	}
	m.factSheet = core.NewFactSheet(strings.TrimSpace(goal))

	if len(agents) == 0 {
		agents = []Specialist{NewSolutionsArchitect(r), NewBackendDeveloper(r)}
	}
	m.agents = agents

	m.transition(core.StateWorking)
	return m, nil
}

// FactSheet returns the run's fact sheet.
func (m *ManagingAgent) FactSheet() *core.FactSheet { return m.factSheet }

// Agents returns the specialists in execution order.
func (m *ManagingAgent) Agents() []Specialist {
	out := make([]Specialist, len(m.agents))
	copy(out, m.agents)
	return out
}

// ExecuteProject runs every specialist in order over the fact sheet. The
// first error stops the pipeline.
func (m *ManagingAgent) ExecuteProject(ctx context.Context) error {
	for _, sp := range m.agents {
		m.logger.Info("agent.execute.start", "agent", sp.Name())
		if err := m.dispatch(ctx, sp); err != nil {
			m.logger.Error("agent.execute.failed", "agent", sp.Name(), "error", err.Error())
			return fmt.Errorf("agent %s: %w", sp.Name(), err)
		}
		m.logger.Info("agent.execute.complete", "agent", sp.Name())
	}

	m.transition(core.StateFinished)
	return nil
}

func (m *ManagingAgent) dispatch(ctx context.Context, sp Specialist) error {
	switch a := sp.(type) {
	case *SolutionsArchitect:
		return a.Execute(ctx, m.factSheet)
	case *BackendDeveloper:
		if !m.factSheet.HasProjectScope() {
			m.logger.Warn("agent.backend.no_scope", "agent", a.Name())
		}
		return a.Execute(ctx, m.factSheet)
	default:
		return fmt.Errorf("unsupported agent %T", sp)
	}
}
