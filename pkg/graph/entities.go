package graph

import (
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/geometry"
	"github.com/matzehuels/nodegraph/pkg/hover"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// PortRef addresses a port by node id and port index.
type PortRef struct {
	Node string
	Port int
}

// Pen is the stroke style of a link.
type Pen int

const (
	PenSolid Pen = iota
	PenDashed
)

// Node is a placed node.
type Node struct {
	id   string
	desc node.Descriptor

	Pos           geom.Point
	Selected      bool
	Pinned        bool
	WidgetVisible bool
	Draggable     bool
	// Computing is set between the host's compute-started and
	// compute-finished notifications.
	Computing bool

	Hover hover.State

	embedded geom.Size
	geometry geometry.NodeGeometry
	links    [][]string
	valid    bool
}

func (n *Node) ID() string                  { return n.id }
func (n *Node) Descriptor() node.Descriptor { return n.desc }
func (n *Node) Valid() bool                 { return n.valid }
func (n *Node) Caption() string             { return n.desc.Caption() }

// Geometry returns the node's current layout in local coordinates.
func (n *Node) Geometry() *geometry.NodeGeometry { return &n.geometry }

// EmbeddedSize returns the measured size of the embedded control.
func (n *Node) EmbeddedSize() geom.Size { return n.embedded }

// Bounds returns the node rectangle in graph coordinates.
func (n *Node) Bounds() geom.Rect {
	return n.geometry.Bounds().Translate(n.Pos)
}

// ToLocal converts a graph-space point to node-local coordinates.
func (n *Node) ToLocal(p geom.Point) geom.Point { return p.Sub(n.Pos) }

// PortPos returns the centre of port i in graph coordinates.
func (n *Node) PortPos(i int) geom.Point {
	return n.geometry.PortCenter(i).Add(n.Pos)
}

// PortLinks returns the ids of links attached to port i.
func (n *Node) PortLinks(i int) []string {
	if i < 0 || i >= len(n.links) {
		return nil
	}
	return n.links[i]
}

// HoverPort describes port i for hover classification.
func (n *Node) HoverPort(i int) hover.Port {
	return hover.Port{
		Node:      n.id,
		Direction: n.desc.PortDirection(i),
		DataType:  n.desc.PortDataType(i),
		Occupied:  len(n.PortLinks(i)) > 0,
	}
}

// Link connects an OUT port to an IN port.
type Link struct {
	id string

	Out  PortRef
	In   PortRef
	Type route.LinkType
	Pen  Pen

	Selected bool
	Hovered  bool

	path  route.Path
	valid bool
}

func (l *Link) ID() string       { return l.id }
func (l *Link) Valid() bool      { return l.valid }
func (l *Link) Path() route.Path { return l.path }

// Group is a captioned rectangle used to cluster and co-drag items.
type Group struct {
	id string

	Caption  string
	Color    style.Color
	Rect     geom.Rect
	Selected bool

	// Contained is the containment set computed at the last drag start. It
	// is transient and never serialized.
	Contained []Item

	valid bool
}

func (g *Group) ID() string  { return g.id }
func (g *Group) Valid() bool { return g.valid }

// Comment is a free-standing block of wrapped text.
type Comment struct {
	id string

	Text     string
	Pos      geom.Point
	Selected bool

	size  geom.Size
	lines []string
	valid bool
}

func (c *Comment) ID() string      { return c.id }
func (c *Comment) Valid() bool     { return c.valid }
func (c *Comment) Lines() []string { return c.lines }

// Rect returns the comment rectangle in graph coordinates.
func (c *Comment) Rect() geom.Rect { return geom.RectAt(c.Pos, c.size) }

// Kind identifies the type of an [Item].
type Kind int

const (
	KindNode Kind = iota
	KindLink
	KindGroup
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLink:
		return "link"
	case KindGroup:
		return "group"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// Item is a typed reference to any entity.
type Item struct {
	Kind Kind
	ID   string
}
