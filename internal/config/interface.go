package config

import "context"

// Loader is the interface for a format-specific declaration loader.
type Loader interface {
	// Load parses the declarations contained in src. filename is the
	// root-relative path of the file and is used for every declaration's
	// Path and for error reporting.
	Load(ctx context.Context, filename string, src []byte) ([]*Declaration, error)
}
