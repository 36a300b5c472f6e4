package sim

import "fmt"

// ValidationError reports a malformed event or configuration value. It is
// fatal to the single call site that produced it and never aborts a running
// simulation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}
