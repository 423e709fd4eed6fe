package cache

// LayoutKeyOpts are the layout inputs that affect node positions.
type LayoutKeyOpts struct {
	Engine     string  `json:"engine"`
	Direction  string  `json:"direction"`
	NodeWidth  float64 `json:"node_width"`
	NodeHeight float64 `json:"node_height"`
	NodeSep    float64 `json:"node_sep"`
	RankSep    float64 `json:"rank_sep"`
}

// ArtifactKeyOpts are the rendering inputs that affect an exported image.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Theme  string `json:"theme"`
	// States is a digest of the node highlight states, empty when all are normal.
	States string `json:"states,omitempty"`
	// Graphviz marks renderings drawn by Graphviz dot.
	Graphviz bool `json:"graphviz,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for the positions of the document with the
	// given input hash.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key for a rendering of the layout with the
	// given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
