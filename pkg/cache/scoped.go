package cache

// ScopedKeyer namespaces another Keyer, so several deployments or tenants
// can share one Redis without their snapshots colliding.
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer prefixes every key from inner with prefix. A nil inner
// uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) SnapshotKey(specHash, dataHash string, opts SnapshotKeyOpts) string {
	return k.Prefix + k.Inner.SnapshotKey(specHash, dataHash, opts)
}
