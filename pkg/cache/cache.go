// Package cache provides byte-level caching for ordering results and
// rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON entry file per key, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every entry point derives the same
// key from the same inputs. Use [NewScopedKeyer] to give a tenant or
// environment its own namespace.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache stores opaque payloads under string keys.
type Cache interface {
	// Get returns the payload for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of an ordered layout of the graph with the
	// given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of a rendering of the layout with the given
	// content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds everything besides the graph that affects a layout.
type LayoutKeyOpts struct {
	Strategy   string `json:"strategy"`
	LongEdge   string `json:"long_edge"`
	ConfigHash string `json:"config_hash,omitempty"`
}

// ArtifactKeyOpts holds everything besides the layout that affects a
// rendering.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes key options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return deriveKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return deriveKey("artifact", layoutHash, opts)
}
