package assets

import "errors"

// Sentinel errors for loading reader templates.
var (
	ErrTemplateSetNotFound   = errors.New("reader template set not found")
	ErrIncompleteTemplateSet = errors.New("reader template set incomplete")

	// ErrInvalidAssetName covers empty names and names carrying separators,
	// dots or NUL bytes.
	ErrInvalidAssetName = errors.New("invalid template set name")

	ErrInvalidBasePath = errors.New("asset path is not a readable directory")
	ErrAssetRead       = errors.New("reading reader template")
	ErrPathTraversal   = errors.New("template path escapes asset path")
)
