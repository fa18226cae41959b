package artifact

import "errors"

var (
	// ErrNotFound is returned when an artifact for the given run / id pair
	// does not exist in the underlying store.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidID is returned for run or artifact ids that are empty or
	// would escape the store (path separators, "." or "..").
	ErrInvalidID = errors.New("invalid artifact id")
)
