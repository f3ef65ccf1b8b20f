package cache

// ScopedKeyer namespaces the keys of another Keyer, so that several
// deployments can share one Redis database:
//
//	keyer := NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prepends prefix to every key of inner. A nil inner means
// the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(inputHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
