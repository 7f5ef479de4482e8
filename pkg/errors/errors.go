package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")

	// Validation errors.
	ErrInvalidPackageName = fmt.Errorf("invalid package name")
	ErrInvalidSearchTerm  = fmt.Errorf("invalid search term")
	ErrArgumentTooLong    = fmt.Errorf("argument too long")

	// Engine errors.
	ErrCheckInProgress = fmt.Errorf("update check already in progress")
	ErrShuttingDown    = fmt.Errorf("engine is shutting down")
	ErrPackageNotFound = fmt.Errorf("package not found")
	ErrNoEnvironment   = fmt.Errorf("no environment selected")
	ErrStaleLoad       = fmt.Errorf("load superseded by a newer request")

	// Registry errors.
	ErrResponseTooLarge = fmt.Errorf("response body exceeds size limit")
	ErrRegistryStatus   = fmt.Errorf("unexpected registry status")

	// Subprocess errors.
	ErrPipUnavailable = fmt.Errorf("pip executable not available")
	ErrPipFailed      = fmt.Errorf("pip command failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
