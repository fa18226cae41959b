// Package core provides the foundational domain types shared by every autodev
// component:
//
//   - Message / Role (the unit of exchange with the model)
//   - AgentState / BasicAgent (per-agent identity, state and memory)
//   - FactSheet / ProjectScope / RouteObject (the shared project record)
//   - GatewayError and sentinel errors (the error taxonomy)
//   - ModelLimiter and ArtifactStore (small shared service contracts)
//
// The package intentionally holds no orchestration logic. Agents, the task
// request pipeline and the model gateway live in their own packages and only
// exchange the types declared here.
package core
