package scenario

import (
	"fmt"
	"log"
)

// AssertionMode controls how failed expectations are reported.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps running.
	AssertionLogOnly
)

// Assertions reports expectation failures according to Mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports an unmet expectation. It returns an error in strict mode.
func (a Assertions) Failf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("expectation failed: %s", message)
		}
		return nil
	}
	return fmt.Errorf("expectation failed: %s", message)
}
