package cache

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered artifact of a document.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string

	// LayoutKey identifies a computed layout of a document under a style.
	LayoutKey(documentHash string, opts LayoutKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Label  string `json:"label,omitempty"`
}

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	StyleHash string `json:"style_hash,omitempty"`
}

// DefaultKeyer produces "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return kindKey("artifact", documentHash, opts)
}

func (DefaultKeyer) LayoutKey(documentHash string, opts LayoutKeyOpts) string {
	return kindKey("layout", documentHash, opts)
}
