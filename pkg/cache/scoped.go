package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Browser servers
// sharing one Redis scope their keys to the release, since a new release
// may lay out the same document differently:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CachePrefix())
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer returns a ScopedKeyer; a nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k ScopedKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return k.Prefix + k.Inner.LayoutKey(inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(layoutHash, opts)
}
