// Package cache provides caching for classified diagrams and exported
// artifacts keyed by content hashes of the pipeline inputs.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A ttl of zero means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache TTLs per product kind. Diagrams are cheap to rebuild but inputs
// rarely change; artifacts are pure functions of the diagram.
const (
	TTLDiagram  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DiagramKeyOpts captures everything besides the input that influences
// the synthesized diagram.
type DiagramKeyOpts struct {
	Title       string
	LexiconHash string
}

// ArtifactKeyOpts captures everything besides the diagram that influences
// a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer generates cache keys for the two cacheable pipeline products.
// Keys must be deterministic: the same inputs always yield the same key.
type Keyer interface {
	// DiagramKey generates a key for a synthesized diagram, derived from
	// the hash of the raw inventory input plus synthesis options.
	DiagramKey(inputHash string, opts DiagramKeyOpts) string

	// ArtifactKey generates a key for an exported artifact, derived from
	// the hash of the diagram JSON plus export options.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator. All keys are prefixed by
// product kind and hashed, so backends see uniform opaque keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DiagramKey generates a key for a synthesized diagram.
func (k *DefaultKeyer) DiagramKey(inputHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", inputHash, opts.Title, opts.LexiconHash)
}

// ArtifactKey generates a key for an exported artifact.
func (k *DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts.Format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
