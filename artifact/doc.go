// Package artifact contains implementations of core.ArtifactStore.
//
// The interface lives in the core package so the root façade can accept any
// backend. InMemoryStore serves tests and single-process use; FileStore
// writes each run into its own directory so generated code and schemas can
// be inspected after the process exits.
package artifact
