package config

import "context"

// Loader is the interface for a format-specific build-spec loader.
type Loader interface {
	// Load reads package build specifications from the given paths and
	// translates them into the format-agnostic BuildSet. Paths may be
	// individual files or directories to search recursively.
	Load(ctx context.Context, paths ...string) (*BuildSet, error)
}
