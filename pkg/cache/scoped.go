package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving callers such as
// tests or separate server instances their own namespace in a shared backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ChartKey returns the prefixed chart key.
func (k *ScopedKeyer) ChartKey(section string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(section, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(chartKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(chartKey, opts)
}
