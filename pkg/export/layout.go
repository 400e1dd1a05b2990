package export

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/hover"
	"github.com/matzehuels/nodegraph/pkg/route"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// =============================================================================
// Layout - computed geometry dump
// =============================================================================

// Layout is the computed geometry of a graph in graph coordinates: what a
// host would paint.
type Layout struct {
	ID       string          `json:"id"`
	LinkType route.LinkType  `json:"link_type"`
	Bounds   geom.Rect       `json:"bounds"`
	Nodes    []NodeLayout    `json:"nodes"`
	Links    []LinkLayout    `json:"links"`
	Groups   []GroupLayout   `json:"groups"`
	Comments []CommentLayout `json:"comments"`
}

// NodeLayout is the layout of one node.
type NodeLayout struct {
	ID       string       `json:"id"`
	Caption  string       `json:"caption"`
	Bounds   geom.Rect    `json:"bounds"`
	Header   geom.Rect    `json:"header"`
	Body     geom.Rect    `json:"body"`
	Color    style.Color  `json:"color"`
	Embedded *geom.Rect   `json:"embedded,omitempty"`
	Comment  []string     `json:"comment,omitempty"`
	Ports    []PortLayout `json:"ports"`
}

// PortLayout is the layout of one port.
type PortLayout struct {
	ID        string      `json:"id"`
	Caption   string      `json:"caption"`
	Direction string      `json:"direction"`
	DataType  string      `json:"data_type"`
	Center    geom.Point  `json:"center"`
	Radius    float64     `json:"radius"`
	Color     style.Color `json:"color"`
	Links     int         `json:"links"`
}

// LinkLayout is the routed path of one link.
type LinkLayout struct {
	Out    string         `json:"out"`
	In     string         `json:"in"`
	Type   route.LinkType `json:"type"`
	Path   string         `json:"path"`
	Bounds geom.Rect      `json:"bounds"`
	Tips   [2]route.Tip   `json:"tips"`
}

// GroupLayout is the layout of one group.
type GroupLayout struct {
	Caption string      `json:"caption"`
	Rect    geom.Rect   `json:"rect"`
	Color   style.Color `json:"color"`
}

// CommentLayout is the layout of one comment.
type CommentLayout struct {
	Rect  geom.Rect `json:"rect"`
	Lines []string  `json:"lines"`
}

// ComputeLayout collects the current geometry of g. Nodes and links are
// sorted like the document export.
func ComputeLayout(g *graph.Graph) Layout {
	st := g.Style()
	out := Layout{
		ID:       g.ID(),
		LinkType: g.LinkType(),
		Bounds:   g.BoundingBox(),
		Nodes:    []NodeLayout{},
		Links:    []LinkLayout{},
		Groups:   []GroupLayout{},
		Comments: []CommentLayout{},
	}

	for _, n := range g.Nodes() {
		d := n.Descriptor()
		geo := n.Geometry()
		nl := NodeLayout{
			ID:      n.ID(),
			Caption: n.Caption(),
			Bounds:  n.Bounds(),
			Header:  geo.Header.Translate(n.Pos),
			Body:    geo.Body.Translate(n.Pos),
			Comment: geo.CommentLines,
			Ports:   make([]PortLayout, d.PortCount()),
		}
		nl.Color = st.Node.Background
		if c, ok := st.Node.CategoryColor(d.Category()); ok {
			nl.Color = c
		}
		if !geo.Embedded.IsEmpty() {
			r := geo.Embedded.Translate(n.Pos)
			nl.Embedded = &r
		}
		for i := range nl.Ports {
			v := hover.PortVisual(&n.Hover, i, d.PortDataType(i), st.Node)
			nl.Ports[i] = PortLayout{
				ID:        d.PortID(i),
				Caption:   d.PortCaption(i),
				Direction: d.PortDirection(i).String(),
				DataType:  d.PortDataType(i),
				Center:    n.PortPos(i),
				Radius:    v.Radius,
				Color:     v.Color,
				Links:     len(n.PortLinks(i)),
			}
		}
		out.Nodes = append(out.Nodes, nl)
	}
	slices.SortFunc(out.Nodes, func(a, b NodeLayout) int { return cmp.Compare(a.ID, b.ID) })

	for _, l := range g.Links() {
		outN, inN := g.Node(l.Out.Node), g.Node(l.In.Node)
		p := l.Path()
		out.Links = append(out.Links, LinkLayout{
			Out:    l.Out.Node + "/" + outN.Descriptor().PortID(l.Out.Port),
			In:     l.In.Node + "/" + inN.Descriptor().PortID(l.In.Port),
			Type:   l.Type,
			Path:   p.SVG(),
			Bounds: route.HitBounds(p, st.Link.PortTipRadius),
			Tips: route.Tips(p,
				outN.Descriptor().PortDataType(l.Out.Port),
				inN.Descriptor().PortDataType(l.In.Port),
				st.Node, st.Link.PortTipRadius),
		})
	}
	slices.SortFunc(out.Links, func(a, b LinkLayout) int {
		return cmp.Or(cmp.Compare(a.Out, b.Out), cmp.Compare(a.In, b.In))
	})

	for _, gr := range g.Groups() {
		out.Groups = append(out.Groups, GroupLayout{Caption: gr.Caption, Rect: gr.Rect, Color: gr.Color})
	}
	for _, c := range g.Comments() {
		out.Comments = append(out.Comments, CommentLayout{Rect: c.Rect(), Lines: c.Lines()})
	}
	return out
}

// MarshalLayout serializes a Layout to indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
