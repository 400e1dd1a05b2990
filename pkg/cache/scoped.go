package cache

// ScopedKeyer wraps a Keyer with a prefix, giving several processes or
// tenants separate namespaces in one shared cache.
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), "nodegraph:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(documentHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(documentHash, opts)
}
