package sim

import "fmt"

// ConfigError reports an invalid ScenarioConfig. It is returned from
// ScenarioConfig.Validate before any event is scheduled, so a failed run
// never partially initializes.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid scenario config: %s: %s", e.Field, e.Reason)
}

// InvariantViolation reports a logic defect detected mid-run, such as
// scheduling an event in the past or releasing a machine that is not busy.
// These are not recoverable runtime conditions: the simulator panics with an
// *InvariantViolation to halt immediately rather than silently correcting.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Detail)
}
