package geometry

import (
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// Align is the horizontal alignment of a port label.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// PortGeometry holds the rectangles of one port row.
type PortGeometry struct {
	Label     geom.Rect
	Circle    geom.Rect
	Align     Align
	Direction node.Direction
}

// NodeGeometry is the layout of a node in node-local coordinates.
type NodeGeometry struct {
	Width  float64
	Height float64

	// Margin is the space reserved around the body for port circles.
	Margin float64
	// RowHeight is the stretched line height used for every text row.
	RowHeight float64

	// CaptionPos is the caption baseline origin; Caption its bounding box.
	CaptionPos geom.Point
	Caption    geom.Rect

	Header   geom.Rect
	Body     geom.Rect
	Settings geom.Rect
	Reload   geom.Rect

	Ports []PortGeometry

	// Embedded is the slot of the embedded control, zero-sized when the node
	// has none.
	Embedded geom.Rect

	// Comment is the text box of the comment block and CommentLines the
	// wrapped text; both are empty when the descriptor has no comment.
	Comment      geom.Rect
	CommentLines []string
}

// Bounds returns the full node rectangle in local coordinates.
func (g *NodeGeometry) Bounds() geom.Rect {
	return geom.Rect{W: g.Width, H: g.Height}
}

// PortCenter returns the centre of port i's circle.
func (g *NodeGeometry) PortCenter(i int) geom.Point {
	return g.Ports[i].Circle.Center()
}

// PortAt returns the first port whose circle contains p, or -1.
func (g *NodeGeometry) PortAt(p geom.Point) int {
	for i := range g.Ports {
		if g.Ports[i].Circle.Contains(p) {
			return i
		}
	}
	return -1
}

// Compute lays out a node.
func Compute(d node.Descriptor, embedded geom.Size, st style.Node, m Metrics) NodeGeometry {
	lh := m.LineHeight()
	dy := st.VerticalStretching * lh
	margin := 2 * st.PortRadius
	gap := st.HeaderHeightScale * dy
	nports := d.PortCount()

	nodeWidth := max(st.Width, embedded.W+2*st.PaddingWidgetWidth)

	g := NodeGeometry{
		Margin:     margin,
		RowHeight:  dy,
		CaptionPos: geom.Pt(margin+st.Padding, dy),
	}
	captionW := m.Advance(d.Caption())
	g.Caption = geom.R(g.CaptionPos.X, g.CaptionPos.Y-lh, captionW, lh)

	g.Width = max(captionW+2*st.Padding, nodeWidth) + 2*margin
	g.Height = dy*(0.5+float64(nports)) + gap + 2*margin
	if embedded.H > 0 {
		g.Height += embedded.H + 2*st.PaddingWidgetHeight
	}

	commentWidth := nodeWidth - 2*st.Padding
	if text := d.Comment(); text != "" {
		g.CommentLines = Wrap(text, commentWidth, m)
		g.Height += float64(len(g.CommentLines))*lh + 2*st.Padding
	}

	yBody := g.CaptionPos.Y + st.Padding
	g.Body = geom.R(margin, yBody, nodeWidth, g.Height-yBody)
	g.Header = g.Body
	g.Header.H = gap

	bw := 0.7 * gap
	pad := 0.5 * (gap - bw)
	g.Settings = geom.R(g.Body.Right()-bw-2*pad, g.Header.Y+pad, bw, bw)
	g.Reload = geom.R(g.Body.Right()-2*bw-3*pad, g.Header.Y+pad, bw, bw)

	ypos := g.Header.Bottom() + st.Padding
	r := st.PortRadius
	dx := 2 * st.Padding
	g.Ports = make([]PortGeometry, nports)
	for k := range nports {
		pg := PortGeometry{
			Label:     geom.R(margin+dx, ypos, nodeWidth-2*dx, dy),
			Direction: d.PortDirection(k),
		}
		portY := ypos + 0.5*lh - r
		if pg.Direction == node.In {
			pg.Circle = geom.R(margin-r, portY, 2*r, 2*r)
			pg.Align = AlignLeft
		} else {
			pg.Circle = geom.R(margin+nodeWidth-r, portY, 2*r, 2*r)
			pg.Align = AlignRight
		}
		g.Ports[k] = pg
		ypos += dy
	}

	g.Embedded = geom.RectAt(geom.Pt(margin+st.PaddingWidgetWidth, ypos+st.PaddingWidgetHeight), embedded)

	if len(g.CommentLines) > 0 {
		top := ypos
		if embedded.H > 0 {
			top = g.Embedded.Bottom() + st.PaddingWidgetHeight
		}
		g.Comment = geom.R(margin+st.Padding, top+st.Padding, commentWidth, float64(len(g.CommentLines))*lh)
	}
	return g
}

// ComputeFor lays out d using its own embedded control size.
func ComputeFor(d node.Descriptor, st style.Node, m Metrics) NodeGeometry {
	return Compute(d, node.EmbeddedSizeOf(d), st, m)
}

// CommentSize returns the size of a free-standing comment: fixed width from
// the style, height from the wrapped text plus the rounded frame.
func CommentSize(text string, st style.Comment, m Metrics) (geom.Size, []string) {
	inner := st.Width - 4*st.RoundingRadius
	lines := Wrap(text, inner, m)
	return geom.Size{W: st.Width, H: float64(len(lines))*m.LineHeight() + 4*st.RoundingRadius}, lines
}

// CaptionRect returns the bounding box of a group caption, centred at the
// top of a group of the given width, in group-local coordinates.
func CaptionRect(caption string, groupWidth float64, m Metrics) geom.Rect {
	w := m.Advance(caption)
	return geom.R(0.5*(groupWidth-w), 0, w, m.LineHeight())
}
