// Package assets provides the CSS stylesheets injected into the deck viewer
// before capturing.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in styles: "capture" hides editor and
// debug chrome for clean interactive captures, "print" cleans up the
// viewer's print-pdf mode.
//
// FilesystemLoader allows users to provide custom styles from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the primary loader used by the converter. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the style
// is not found. This enables overriding specific styles while keeping
// defaults.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css           # CSS styles (e.g., capture.css)
//
// # Security
//
// Style names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
