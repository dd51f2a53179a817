package cache

// ScopedKeyer prefixes the keys of an inner [Keyer].
//
// Layouts resolved against different option catalogs must not share cache
// entries; [CatalogScope] builds the scope for one catalog.
type ScopedKeyer struct {
	Inner Keyer
	Scope string
}

// NewScopedKeyer scopes inner, or the [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, scope string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{Inner: inner, Scope: scope}
}

// CatalogScope returns "catalog:<hash prefix>:" for a catalog whose
// content hashes to catalogHash.
func CatalogScope(catalogHash string) string {
	if len(catalogHash) > 12 {
		catalogHash = catalogHash[:12]
	}
	return "catalog:" + catalogHash + ":"
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.Scope + k.Inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Scope + k.Inner.ArtifactKey(layoutHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
