package route

import (
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// Tip is a filled circle drawn at a link endpoint.
type Tip struct {
	Center geom.Point  `json:"center"`
	Radius float64     `json:"radius"`
	Color  style.Color `json:"color"`
}

// Tips returns the tips at both ends of p, colored by the data type of the
// port each end is attached to. Unknown data types use the style default.
func Tips(p Path, outType, inType string, st style.Node, radius float64) [2]Tip {
	return [2]Tip{
		{Center: p.Start, Radius: radius, Color: st.PortColor(outType)},
		{Center: p.End(), Radius: radius, Color: st.PortColor(inType)},
	}
}

// HitBounds is the rectangle to invalidate or cull against: the path bounds
// padded by the tip radius.
func HitBounds(p Path, tipRadius float64) geom.Rect {
	return p.Bounds().Grow(tipRadius)
}
