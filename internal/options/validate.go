// Package options provides shared utilities for option validation across packages.
package options

import (
	"github.com/erraggy/oasconform/oaserrors"
)

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
// The returned error is an *oaserrors.ConfigError.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	if sourceCount == 0 {
		return &oaserrors.ConfigError{Option: "input", Message: noSourceMsg}
	}
	if sourceCount > 1 {
		return &oaserrors.ConfigError{Option: "input", Message: multiSourceMsg}
	}

	return nil
}

// InvalidOption reports an option value that failed validation.
func InvalidOption(option string, value any, msg string) error {
	return &oaserrors.ConfigError{Option: option, Value: value, Message: msg}
}

// Positive rejects zero or negative values of a numeric option.
func Positive[N ~int | ~int64 | ~float64](option string, value N) error {
	if value <= 0 {
		return InvalidOption(option, value, "must be positive")
	}
	return nil
}
