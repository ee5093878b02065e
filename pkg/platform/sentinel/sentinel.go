package sentinel

import "errors"

// Infrastructure facts returned (optionally wrapped) by snapshot stores and
// audit sinks. Services translate them into coded domain errors.
//
//   - ErrNotFound: no snapshot has been written under the key
//   - ErrUnavailable: the backing store could not be reached
//
// Intake and answer validation failures are domain errors, not sentinels.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
