package doc2reader

import (
	"errors"

	"github.com/alnah/go-doc2reader/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// Source validation errors.
	ErrSourceNotFound    = errors.New("source document not found")
	ErrSourceIsDirectory = errors.New("source is a directory")

	// Document converter errors.
	ErrConverterUnavailable = errors.New("document converter unavailable")
	ErrConversionFailed     = errors.New("document conversion failed")
	ErrConversionTimeout    = errors.New("document conversion timed out")

	// ErrResourceMissing indicates referenced images could not be embedded.
	// Only returned by Convert in strict mode.
	ErrResourceMissing = pipeline.ErrResourceMissing

	// Palette errors.
	ErrInvalidPalette = errors.New("invalid palette")
	ErrUnknownPalette = errors.New("unknown palette")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Preview errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrSnapshot       = errors.New("snapshot capture failed")
)
