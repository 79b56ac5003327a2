// Package assets provides the HTML templates that make up the reader chrome.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in chrome)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the template
// set is not found, so a user can restyle the reader without rebuilding.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}/
//	        ├── head.html    # inserted right after <head>
//	        ├── upper.html   # inserted right after <body>, opens #document
//	        └── lower.html   # inserted right before </body>, closes #document
//
// Templates are parsed with html/template. lower.html receives the palette
// presets and reader settings as data.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
