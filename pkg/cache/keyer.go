package cache

// Keyer derives cache keys for figure artifacts.
type Keyer interface {
	// ArtifactKey returns the key for a figure rendered in format.
	// figure must be JSON-serializable.
	ArtifactKey(figure any, format string) string
}

// DefaultKeyer hashes the figure settings together with a version string,
// so artifacts from an older treeviz are never reused.
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer creates a keyer for the given build version.
func NewDefaultKeyer(version string) Keyer {
	return &DefaultKeyer{version: version}
}

// ArtifactKey returns "artifact:<sha256>".
func (k *DefaultKeyer) ArtifactKey(figure any, format string) string {
	return hashKey("artifact", figure, format, k.version)
}

// ScopedKeyer prefixes every key of an inner keyer.
//
//	// basics figures depend on the data file, not only on their settings
//	keyer := NewScopedKeyer(inner, "data:"+Hash(data)[:16]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// NewDefaultKeyer("").
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer("")
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(figure any, format string) string {
	return k.prefix + k.inner.ArtifactKey(figure, format)
}
