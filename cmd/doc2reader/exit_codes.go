package main

import (
	"errors"
	"os"

	"github.com/alnah/go-doc2reader"
	"github.com/alnah/go-doc2reader/internal/assets"
	"github.com/alnah/go-doc2reader/internal/config"
)

// Exit codes for the doc2reader CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0 // Reader written
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags, config, source path or palette
	ExitIO          = 3 // Output cannot be written
	ExitBrowser     = 4 // Chrome errors while taking a snapshot
	ExitEnvironment = 5 // Document converter not installed or not runnable
	ExitConversion  = 6 // Converter ran but produced no usable output
	ExitResource    = 7 // Image could not be embedded (--strict)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Usage errors are checked first: a missing source is a usage failure even
// though it is also a missing file.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, doc2reader.ErrSourceNotFound) ||
		errors.Is(err, doc2reader.ErrSourceIsDirectory) ||
		errors.Is(err, doc2reader.ErrInvalidPalette) ||
		errors.Is(err, doc2reader.ErrUnknownPalette) ||
		errors.Is(err, doc2reader.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) {
		return ExitUsage
	}

	// Environment errors (exit 5)
	if errors.Is(err, doc2reader.ErrConverterUnavailable) {
		return ExitEnvironment
	}

	// Conversion errors (exit 6)
	if errors.Is(err, doc2reader.ErrConversionFailed) ||
		errors.Is(err, doc2reader.ErrConversionTimeout) {
		return ExitConversion
	}

	// Missing resources in strict mode (exit 7)
	if errors.Is(err, doc2reader.ErrResourceMissing) {
		return ExitResource
	}

	// Browser errors (exit 4)
	if errors.Is(err, doc2reader.ErrBrowserConnect) ||
		errors.Is(err, doc2reader.ErrPageCreate) ||
		errors.Is(err, doc2reader.ErrPageLoad) ||
		errors.Is(err, doc2reader.ErrSnapshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
