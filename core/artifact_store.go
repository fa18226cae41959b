package core

// ArtifactStore persists the artifacts a run produces (generated code, the
// endpoint schema, fact sheet snapshots). Implementations should be
// thread-safe and scope artifacts by run identifier. Short method names
// (Save/Get/List/Delete) keep the store interchangeable with other key/value
// backends.
type ArtifactStore interface {
	Save(runID, artifactID string, data []byte) error
	Get(runID, artifactID string) ([]byte, error)
	List(runID string) ([]string, error)
	Delete(runID, artifactID string) error
}
