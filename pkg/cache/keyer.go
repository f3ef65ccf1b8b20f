package cache

// Keyer derives cache keys. Keys from different methods never collide.
type Keyer interface {
	// LayoutKey names the layout of an input document.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	// ArtifactKey names one rendered format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists the options that change a layout.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Gap       float64 `json:"gap"`
	FakeWidth float64 `json:"fake_width"`
	Colors    string  `json:"colors,omitempty"`
	Markers   string  `json:"markers,omitempty"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Padding  float64 `json:"padding,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
