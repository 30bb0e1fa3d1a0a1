package core

import (
	"errors"
	"fmt"
)

// ErrNoKnowledge indicates that every knowledge source failed to load and
// the engine has nothing to generate candidates from.
var ErrNoKnowledge = errors.New("knowledge base is empty")

// ConfigurationError is the only failure a resolve call surfaces to its
// caller: the knowledge base or engine configuration is unusable. A query
// with no plausible candidates is an empty result, never an error.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError wraps err with a reason; err may be nil.
func NewConfigurationError(reason string, err error) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Err: err}
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
