package zuora

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a single-entity lookup that matched zero records.
	ErrNotFound = errors.New("zuora: not found")

	// ErrMissingRequired reports a call made without a mandatory input.
	ErrMissingRequired = errors.New("zuora: missing required input")
)

// RemoteOperationError reports a create/update/amend/subscribe call whose
// response did not have the success shape. Results carries the raw
// vendor response for diagnosis.
type RemoteOperationError struct {
	Op      string
	Results []SaveResult
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("zuora: %s failed: %+v", e.Op, e.Results)
}

// TransportError wraps any transport or remote fault. No distinction is
// preserved between fault kinds at this layer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("zuora: %s: unexpected error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// checkSaveResults enforces the success shape shared by all mutators: a
// non-empty result list whose first element succeeded.
func checkSaveResults(op string, results []SaveResult) error {
	if len(results) == 0 || !results[0].Success {
		return &RemoteOperationError{Op: op, Results: results}
	}
	return nil
}
