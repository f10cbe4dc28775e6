package ports

import "context"

// ManifestArchive keeps a copy of every uploaded manifest.
type ManifestArchive interface {
	// Store saves the raw manifest and returns the key it was stored under.
	Store(ctx context.Context, filename string, manifest []byte) (string, error)
}
