package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. The server
// uses it to keep per-project namespaces apart when several projects
// share one Redis or file backend:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "proj:contoso:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner so that all generated keys carry prefix.
// A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DiagramKey(inputHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(inputHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diagramHash, opts)
}
