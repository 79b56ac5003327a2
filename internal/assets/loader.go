package assets

// AssetLoader defines the contract for loading reader chrome templates.
type AssetLoader interface {
	// LoadTemplateSet loads the head, upper and lower templates of a set.
	// Returns ErrTemplateSetNotFound if the set doesn't exist.
	// Returns ErrIncompleteTemplateSet if only some of its files exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
