// Package errors defines the common error sentinels shared across the
// packaging pipeline and the build-time resolver, plus small wrapping helpers.
package errors

import "fmt"

// Common error types.
var (
	// Path and input errors.
	ErrInvalidPath   = fmt.Errorf("invalid path")
	ErrNotADirectory = fmt.Errorf("path is not a directory")

	// Packaging pipeline errors.
	ErrComponentNotFound = fmt.Errorf("component not found in installer")
	ErrArchive           = fmt.Errorf("archive operation failed")
	ErrPermissionLost    = fmt.Errorf("extracted binary is missing executable permission")

	// Manifest errors.
	ErrManifestMalformed = fmt.Errorf("manifest cannot be parsed")

	// Resolution errors.
	ErrOverrideInvalid = fmt.Errorf("explicit override path does not exist")

	// Board configuration errors.
	ErrUnknownCoreVariant = fmt.Errorf("unknown CPU core variant")

	// Config errors.
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
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
