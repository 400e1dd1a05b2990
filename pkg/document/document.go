// Package document defines the graph document, the JSON form in which graphs
// are saved, loaded, stored and served.
//
// Writing uses encoding/json on the types below and is deterministic:
// [FromGraph] sorts every section, so two graphs with the same content
// produce the same bytes regardless of insertion order. Reading is lenient
// (see [Parse]): only a document that is not a JSON object fails as a whole,
// and any malformed entity is reported as an [Issue] and skipped.
//
// Node entries carry host-defined fields next to the engine's own keys:
//
//	{"id": "Noise##3", "scene_position": {"x": 10, "y": 20},
//	 "is_widget_visible": true, "caption": "Noise", "ports": [...]}
package document

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// =============================================================================
// Types
// =============================================================================

// Document is a serialized graph.
type Document struct {
	ID       string         `json:"id"`
	LinkType route.LinkType `json:"current_link_type"`
	Nodes    []Node         `json:"nodes"`
	Links    []Link         `json:"links"`
	Groups   []Group        `json:"groups"`
	Comments []Comment      `json:"comments"`
}

// Position is a point in graph coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// At converts a point to a Position.
func At(p geom.Point) Position { return Position{X: p.X, Y: p.Y} }

// Point converts p to a geom.Point.
func (p Position) Point() geom.Point { return geom.Pt(p.X, p.Y) }

// Node is a serialized node. Fields holds the host-defined keys, written
// inline next to id, scene_position and is_widget_visible.
type Node struct {
	ID            string
	Position      Position
	WidgetVisible bool
	Fields        map[string]any
}

// Keys owned by the engine in a node entry.
const (
	keyID            = "id"
	keyPosition      = "scene_position"
	keyWidgetVisible = "is_widget_visible"
)

func reservedNodeKey(k string) bool {
	switch k {
	case keyID, keyPosition, keyWidgetVisible, keyPosition + ".x", keyPosition + ".y":
		return true
	}
	return false
}

// MarshalJSON flattens Fields into the node object.
func (n Node) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Fields)+3)
	for k, v := range n.Fields {
		if !reservedNodeKey(k) {
			m[k] = v
		}
	}
	m[keyID] = n.ID
	m[keyPosition] = n.Position
	m[keyWidgetVisible] = n.WidgetVisible
	return json.Marshal(m)
}

// UnmarshalJSON reads a node with the same leniency as [Parse].
func (n *Node) UnmarshalJSON(b []byte) error {
	v, err := parseNode(resultOf(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Link is a serialized link, addressed by node and port ids.
type Link struct {
	NodeOut string         `json:"node_out_id"`
	PortOut string         `json:"port_out_id"`
	NodeIn  string         `json:"node_in_id"`
	PortIn  string         `json:"port_in_id"`
	Type    route.LinkType `json:"link_type"`
}

// Group is a serialized group. Color is [r, g, b, a]; nil means the style
// default.
type Group struct {
	Caption  string   `json:"caption"`
	Color    *[4]int  `json:"color,omitempty"`
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// Comment is a serialized comment.
type Comment struct {
	Text     string   `json:"comment_text"`
	Position Position `json:"position"`
}

// =============================================================================
// Graph -> Document
// =============================================================================

// FromGraph snapshots g. Nodes are sorted by id, links by their endpoints,
// groups and comments by position; the output does not depend on the order
// in which entities were created.
func FromGraph(g *graph.Graph) Document {
	doc := Document{
		ID:       g.ID(),
		LinkType: g.LinkType(),
		Nodes:    []Node{},
		Links:    []Link{},
		Groups:   []Group{},
		Comments: []Comment{},
	}

	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{
			ID:            n.ID(),
			Position:      At(n.Pos),
			WidgetVisible: n.WidgetVisible,
			Fields:        cloneFields(node.FieldsOf(n.Descriptor())),
		})
	}
	slices.SortFunc(doc.Nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })

	for _, l := range g.Links() {
		out, in := g.Node(l.Out.Node), g.Node(l.In.Node)
		doc.Links = append(doc.Links, Link{
			NodeOut: l.Out.Node,
			PortOut: out.Descriptor().PortID(l.Out.Port),
			NodeIn:  l.In.Node,
			PortIn:  in.Descriptor().PortID(l.In.Port),
			Type:    l.Type,
		})
	}
	slices.SortFunc(doc.Links, func(a, b Link) int {
		return cmp.Or(
			cmp.Compare(a.NodeOut, b.NodeOut),
			cmp.Compare(a.PortOut, b.PortOut),
			cmp.Compare(a.NodeIn, b.NodeIn),
			cmp.Compare(a.PortIn, b.PortIn),
		)
	})

	for _, gr := range g.Groups() {
		rgba := gr.Color.Array()
		doc.Groups = append(doc.Groups, Group{
			Caption:  gr.Caption,
			Color:    &rgba,
			Position: At(gr.Rect.Min()),
			Width:    gr.Rect.W,
			Height:   gr.Rect.H,
		})
	}
	slices.SortFunc(doc.Groups, func(a, b Group) int {
		return cmp.Or(
			cmp.Compare(a.Position.Y, b.Position.Y),
			cmp.Compare(a.Position.X, b.Position.X),
			cmp.Compare(a.Caption, b.Caption),
		)
	})

	for _, c := range g.Comments() {
		doc.Comments = append(doc.Comments, Comment{Text: c.Text, Position: At(c.Pos)})
	}
	slices.SortFunc(doc.Comments, func(a, b Comment) int {
		return cmp.Or(
			cmp.Compare(a.Position.Y, b.Position.Y),
			cmp.Compare(a.Position.X, b.Position.X),
			cmp.Compare(a.Text, b.Text),
		)
	})
	return doc
}

// Marshal serializes doc to indented JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Clone returns a deep copy of doc.
func (d Document) Clone() Document {
	out := d
	out.Nodes = make([]Node, len(d.Nodes))
	for i, n := range d.Nodes {
		n.Fields = cloneFields(n.Fields)
		out.Nodes[i] = n
	}
	out.Links = slices.Clone(d.Links)
	out.Groups = slices.Clone(d.Groups)
	for i, gr := range out.Groups {
		if gr.Color != nil {
			c := *gr.Color
			out.Groups[i].Color = &c
		}
	}
	out.Comments = slices.Clone(d.Comments)
	return out
}

// Node returns the entry with the given id.
func (d Document) Node(id string) (Node, bool) {
	i := slices.IndexFunc(d.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return d.Nodes[i], true
}

func cloneFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneFields(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneFields(e)
		}
		return out
	}
	return v
}

// groupColor returns the stored color, or def when the entry had none.
func (gr Group) groupColor(def style.Color) style.Color {
	if gr.Color == nil {
		return def
	}
	return style.FromArray(*gr.Color)
}
