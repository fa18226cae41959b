// Package agent contains the agent state machines of the autodev pipeline.
//
// The set of agents is closed:
//
//   - SolutionsArchitect scopes the project and collects working external URLs
//   - BackendDeveloper writes, validates and documents the backend code
//   - ManagingAgent turns the user request into a fact sheet and drives the
//     specialists over it in a fixed order
//
// Every specialist runs a loop over core.AgentState until it reaches
// core.StateFinished. Model requests go through a shared flow.Requester; a
// fatal requester error unwinds Execute and aborts the run. Agents never run
// concurrently, so the fact sheet they share is not locked.
package agent
