package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/geometry"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
	"github.com/matzehuels/nodegraph/pkg/style"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the descriptor id
	// is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same id is already registered.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.Connect] when an endpoint node
	// does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPort is returned by [Graph.Connect] when a port index is out
	// of range or a port id does not resolve.
	ErrUnknownPort = errors.New("unknown port")

	// ErrSelfLink is returned when both endpoints are on the same node.
	ErrSelfLink = errors.New("cannot link a node to itself")

	// ErrSameDirection is returned when both ports are IN or both are OUT.
	ErrSameDirection = errors.New("ports have the same direction")

	// ErrTypeMismatch is returned when the ports carry different data types.
	ErrTypeMismatch = errors.New("port data types differ")
)

// Options configures a Graph.
type Options struct {
	// Style drives node layout and link routing. Defaults to style.Default().
	Style *style.Style
	// Metrics measures text. Defaults to geometry.DefaultMetrics().
	Metrics geometry.Metrics
}

// Graph is the editable node graph.
type Graph struct {
	id       string
	linkType route.LinkType

	style   *style.Style
	metrics geometry.Metrics

	nodes     map[string]*Node
	nodeOrder []string
	links     map[string]*Link
	linkOrder []string
	groups    map[string]*Group
	groupOrd  []string
	comments  map[string]*Comment
	commOrd   []string

	graveyard []any
	observers []Observer
}

// New creates an empty graph. An empty id is replaced by a generated one.
func New(id string, opts Options) *Graph {
	if id == "" {
		id = uuid.NewString()
	}
	if opts.Style == nil {
		opts.Style = style.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = geometry.DefaultMetrics()
	}
	return &Graph{
		id:       id,
		linkType: route.Cubic,
		style:    opts.Style,
		metrics:  opts.Metrics,
		nodes:    make(map[string]*Node),
		links:    make(map[string]*Link),
		groups:   make(map[string]*Group),
		comments: make(map[string]*Comment),
	}
}

func (g *Graph) ID() string                { return g.id }
func (g *Graph) SetID(id string)           { g.id = id }
func (g *Graph) Style() *style.Style       { return g.style }
func (g *Graph) Metrics() geometry.Metrics { return g.metrics }
func (g *Graph) LinkType() route.LinkType  { return g.linkType }

// SetLinkType sets the link type used for new links.
func (g *Graph) SetLinkType(t route.LinkType) { g.linkType = t }

// RouteOptions returns the routing options derived from the style.
func (g *Graph) RouteOptions() route.Options {
	return route.WithCurvature(g.style.Link.Curvature)
}

// AddObserver registers o for model notifications.
func (g *Graph) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

// =============================================================================
// Nodes
// =============================================================================

// AddNode places a node for desc at pos.
func (g *Graph) AddNode(desc node.Descriptor, pos geom.Point) (*Node, error) {
	id := desc.ID()
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, ok := g.nodes[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	n := &Node{
		id:            id,
		desc:          desc,
		Pos:           pos,
		WidgetVisible: true,
		Draggable:     true,
		embedded:      node.EmbeddedSizeOf(desc),
		links:         make([][]string, desc.PortCount()),
		valid:         true,
	}
	g.layout(n)
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	for _, o := range g.observers {
		o.NodeAdded(n)
	}
	return n, nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Nodes returns all nodes in insertion (bottom-to-top) order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// NodesTopDown returns all nodes, topmost first.
func (g *Graph) NodesTopDown() []*Node {
	out := g.Nodes()
	slices.Reverse(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Raise moves a node to the top of the stacking order.
func (g *Graph) Raise(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	g.nodeOrder = append(g.nodeOrder, id)
}

// PortIndex resolves a port id on a node, returning -1 when either does not
// exist.
func (g *Graph) PortIndex(nodeID, portID string) int {
	n := g.nodes[nodeID]
	if n == nil {
		return -1
	}
	return node.PortIndex(n.desc, portID)
}

// PortAvailable reports whether a port can accept a new link without
// replacement. OUT ports are always available.
func (g *Graph) PortAvailable(ref PortRef) bool {
	n := g.nodes[ref.Node]
	if n == nil || ref.Port < 0 || ref.Port >= n.desc.PortCount() {
		return false
	}
	if n.desc.PortDirection(ref.Port) == node.Out {
		return true
	}
	return len(n.links[ref.Port]) == 0
}

// PortLinks returns the links attached to a port.
func (g *Graph) PortLinks(ref PortRef) []*Link {
	n := g.nodes[ref.Node]
	if n == nil {
		return nil
	}
	var out []*Link
	for _, id := range n.PortLinks(ref.Port) {
		out = append(out, g.links[id])
	}
	return out
}

// LinksOf returns the ids of every link touching a node, in link order.
func (g *Graph) LinksOf(nodeID string) []string {
	n := g.nodes[nodeID]
	if n == nil {
		return nil
	}
	touching := make(map[string]bool)
	for _, ids := range n.links {
		for _, id := range ids {
			touching[id] = true
		}
	}
	var out []string
	for _, id := range g.linkOrder {
		if touching[id] {
			out = append(out, id)
		}
	}
	return out
}

// MoveNode places a node at pos and reroutes its links.
func (g *Graph) MoveNode(id string, pos geom.Point) {
	n := g.nodes[id]
	if n == nil {
		return
	}
	n.Pos = pos
	g.Reroute(g.LinksOf(id)...)
}

// SetWidgetVisible shows or hides the embedded control, which changes the
// node layout.
func (g *Graph) SetWidgetVisible(id string, visible bool) {
	n := g.nodes[id]
	if n == nil || n.WidgetVisible == visible {
		return
	}
	n.WidgetVisible = visible
	g.Relayout(id)
}

// SetEmbeddedSize records a new measured size for a node's embedded control.
func (g *Graph) SetEmbeddedSize(id string, size geom.Size) {
	n := g.nodes[id]
	if n == nil {
		return
	}
	n.embedded = size
	g.Relayout(id)
}

// Relayout recomputes a node's geometry after its descriptor or embedded
// control changed, then reroutes its links. If the port count shrank, links
// on ports that no longer exist are removed.
func (g *Graph) Relayout(id string) {
	n := g.nodes[id]
	if n == nil {
		return
	}
	nports := n.desc.PortCount()
	if nports < len(n.links) {
		for _, ids := range n.links[nports:] {
			for _, lid := range slices.Clone(ids) {
				g.RemoveLink(lid, false)
			}
		}
		n.links = n.links[:nports]
	}
	for len(n.links) < nports {
		n.links = append(n.links, nil)
	}
	g.layout(n)
	g.Reroute(g.LinksOf(id)...)
}

func (g *Graph) layout(n *Node) {
	size := geom.Size{}
	if n.WidgetVisible {
		size = n.embedded
	}
	n.geometry = geometry.Compute(n.desc, size, g.style.Node, g.metrics)
	n.Hover.Resize(n.desc.PortCount())
}

// RemoveNode removes a node and, first, every link touching it. It reports
// whether the node existed.
func (g *Graph) RemoveNode(id string) bool {
	n := g.nodes[id]
	if n == nil {
		return false
	}
	for _, lid := range g.LinksOf(id) {
		g.RemoveLink(lid, false)
	}
	delete(g.nodes, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	n.valid = false
	n.Hover.Reset()
	g.graveyard = append(g.graveyard, n)
	for _, o := range g.observers {
		o.NodeRemoved(n)
	}
	return true
}

// =============================================================================
// Links
// =============================================================================

// Connect links two ports. The arguments may be given in either order; the
// stored link always runs OUT to IN. If the IN port already carries a link,
// that link is removed (replaced) before the new one is attached.
func (g *Graph) Connect(a, b PortRef, t route.LinkType) (*Link, error) {
	na, err := g.resolve(a)
	if err != nil {
		return nil, err
	}
	nb, err := g.resolve(b)
	if err != nil {
		return nil, err
	}
	if a.Node == b.Node {
		return nil, ErrSelfLink
	}
	da, db := na.desc.PortDirection(a.Port), nb.desc.PortDirection(b.Port)
	if da == db {
		return nil, ErrSameDirection
	}
	if ta, tb := na.desc.PortDataType(a.Port), nb.desc.PortDataType(b.Port); ta != tb {
		return nil, fmt.Errorf("%w: %s != %s", ErrTypeMismatch, ta, tb)
	}

	out, in := a, b
	if da == node.In {
		out, in = b, a
	}

	for _, lid := range slices.Clone(g.nodes[in.Node].links[in.Port]) {
		g.RemoveLink(lid, true)
	}

	l := &Link{
		id:    uuid.NewString(),
		Out:   out,
		In:    in,
		Type:  t,
		Pen:   PenSolid,
		valid: true,
	}
	g.links[l.id] = l
	g.linkOrder = append(g.linkOrder, l.id)
	g.nodes[out.Node].links[out.Port] = append(g.nodes[out.Node].links[out.Port], l.id)
	g.nodes[in.Node].links[in.Port] = append(g.nodes[in.Node].links[in.Port], l.id)
	g.route(l)

	for _, o := range g.observers {
		o.LinkAdded(l)
	}
	return l, nil
}

// ConnectByPortID links two ports addressed by stable port id.
func (g *Graph) ConnectByPortID(nodeA, portA, nodeB, portB string, t route.LinkType) (*Link, error) {
	if g.nodes[nodeA] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeA)
	}
	if g.nodes[nodeB] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeB)
	}
	ia := g.PortIndex(nodeA, portA)
	if ia < 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPort, nodeA, portA)
	}
	ib := g.PortIndex(nodeB, portB)
	if ib < 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPort, nodeB, portB)
	}
	return g.Connect(PortRef{nodeA, ia}, PortRef{nodeB, ib}, t)
}

func (g *Graph) resolve(ref PortRef) (*Node, error) {
	n := g.nodes[ref.Node]
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, ref.Node)
	}
	if ref.Port < 0 || ref.Port >= n.desc.PortCount() {
		return nil, fmt.Errorf("%w: %s[%d]", ErrUnknownPort, ref.Node, ref.Port)
	}
	return n, nil
}

// Link returns the link with the given id, or nil.
func (g *Graph) Link(id string) *Link { return g.links[id] }

// Links returns all links in creation order.
func (g *Graph) Links() []*Link {
	out := make([]*Link, len(g.linkOrder))
	for i, id := range g.linkOrder {
		out[i] = g.links[id]
	}
	return out
}

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// RemoveLink detaches and removes a link. replaced tells observers the link
// is being removed to make room for a new one on the same IN port.
func (g *Graph) RemoveLink(id string, replaced bool) bool {
	l := g.links[id]
	if l == nil {
		return false
	}
	for _, ref := range []PortRef{l.Out, l.In} {
		if n := g.nodes[ref.Node]; n != nil && ref.Port < len(n.links) {
			n.links[ref.Port] = slices.DeleteFunc(n.links[ref.Port], func(s string) bool { return s == id })
		}
	}
	delete(g.links, id)
	g.linkOrder = slices.DeleteFunc(g.linkOrder, func(s string) bool { return s == id })
	l.valid = false
	g.graveyard = append(g.graveyard, l)
	for _, o := range g.observers {
		o.LinkRemoved(l, replaced)
	}
	return true
}

// Reroute recomputes the paths of the given links from their current port
// positions. Unknown ids are skipped.
func (g *Graph) Reroute(ids ...string) {
	for _, id := range ids {
		if l := g.links[id]; l != nil {
			g.route(l)
		}
	}
}

// RerouteAll recomputes every link path.
func (g *Graph) RerouteAll() {
	g.Reroute(g.linkOrder...)
}

func (g *Graph) route(l *Link) {
	out, in := g.nodes[l.Out.Node], g.nodes[l.In.Node]
	if out == nil || in == nil {
		return
	}
	l.path = route.Route(l.Type, out.PortPos(l.Out.Port), in.PortPos(l.In.Port), g.RouteOptions())
}

// ToggleLinkType advances the graph link type and applies it to every link.
func (g *Graph) ToggleLinkType() route.LinkType {
	g.linkType = g.linkType.Next()
	for _, l := range g.links {
		l.Type = g.linkType
	}
	g.RerouteAll()
	return g.linkType
}

// =============================================================================
// Groups and comments
// =============================================================================

// AddGroup adds a group with the given caption, rectangle and color.
func (g *Graph) AddGroup(caption string, rect geom.Rect, color style.Color) *Group {
	gr := &Group{
		id:      uuid.NewString(),
		Caption: caption,
		Color:   color,
		Rect:    rect,
		valid:   true,
	}
	g.groups[gr.id] = gr
	g.groupOrd = append(g.groupOrd, gr.id)
	return gr
}

// DefaultGroupCaption is the caption of a group created without one.
const DefaultGroupCaption = "Double-click to edit caption"

// NewGroup adds a group with the style's default size and color at pos.
func (g *Graph) NewGroup(pos geom.Point) *Group {
	st := g.style.Group
	color := st.Color
	if len(st.Palette) > 0 {
		color = st.Palette[0].Color
	}
	return g.AddGroup(DefaultGroupCaption, geom.R(pos.X, pos.Y, st.DefaultWidth, st.DefaultHeight), color)
}

// Group returns the group with the given id, or nil.
func (g *Graph) Group(id string) *Group { return g.groups[id] }

// Groups returns all groups in creation order.
func (g *Graph) Groups() []*Group {
	out := make([]*Group, len(g.groupOrd))
	for i, id := range g.groupOrd {
		out[i] = g.groups[id]
	}
	return out
}

// RemoveGroup removes a group. Items inside it are untouched.
func (g *Graph) RemoveGroup(id string) bool {
	gr := g.groups[id]
	if gr == nil {
		return false
	}
	delete(g.groups, id)
	g.groupOrd = slices.DeleteFunc(g.groupOrd, func(s string) bool { return s == id })
	gr.valid = false
	gr.Contained = nil
	g.graveyard = append(g.graveyard, gr)
	return true
}

// DefaultCommentText is the text of a comment created without one.
const DefaultCommentText = "Comment."

// AddComment adds a comment at pos. An empty text uses DefaultCommentText.
func (g *Graph) AddComment(text string, pos geom.Point) *Comment {
	c := &Comment{id: uuid.NewString(), Pos: pos, valid: true}
	g.comments[c.id] = c
	g.commOrd = append(g.commOrd, c.id)
	if text == "" {
		text = DefaultCommentText
	}
	g.SetCommentText(c.id, text)
	return c
}

// SetCommentText replaces a comment's text and recomputes its height.
func (g *Graph) SetCommentText(id, text string) {
	c := g.comments[id]
	if c == nil {
		return
	}
	c.Text = text
	c.size, c.lines = geometry.CommentSize(text, g.style.Comment, g.metrics)
}

// Comment returns the comment with the given id, or nil.
func (g *Graph) Comment(id string) *Comment { return g.comments[id] }

// Comments returns all comments in creation order.
func (g *Graph) Comments() []*Comment {
	out := make([]*Comment, len(g.commOrd))
	for i, id := range g.commOrd {
		out[i] = g.comments[id]
	}
	return out
}

// RemoveComment removes a comment.
func (g *Graph) RemoveComment(id string) bool {
	c := g.comments[id]
	if c == nil {
		return false
	}
	delete(g.comments, id)
	g.commOrd = slices.DeleteFunc(g.commOrd, func(s string) bool { return s == id })
	c.valid = false
	g.graveyard = append(g.graveyard, c)
	return true
}

// =============================================================================
// Whole-graph operations
// =============================================================================

// Clear removes every entity. Links go first so observers see consistent
// port state throughout.
func (g *Graph) Clear() {
	for _, id := range slices.Clone(g.linkOrder) {
		g.RemoveLink(id, false)
	}
	for _, id := range slices.Clone(g.nodeOrder) {
		g.RemoveNode(id)
	}
	for _, id := range slices.Clone(g.groupOrd) {
		g.RemoveGroup(id)
	}
	for _, id := range slices.Clone(g.commOrd) {
		g.RemoveComment(id)
	}
}

// Reclaim releases entities removed since the last call and returns how many
// there were. Call it once the current event pass has finished.
func (g *Graph) Reclaim() int {
	n := len(g.graveyard)
	for _, e := range g.graveyard {
		switch v := e.(type) {
		case *Node:
			v.links = nil
			v.desc = nil
		case *Link:
			v.path = route.Path{}
		}
	}
	g.graveyard = nil
	return n
}

// Pending returns the number of removed entities awaiting Reclaim.
func (g *Graph) Pending() int { return len(g.graveyard) }

// BoundingBox returns the union of all node, group and comment rectangles.
func (g *Graph) BoundingBox() geom.Rect {
	var r geom.Rect
	for _, n := range g.Nodes() {
		r = r.Union(n.Bounds())
	}
	for _, gr := range g.Groups() {
		r = r.Union(gr.Rect)
	}
	for _, c := range g.Comments() {
		r = r.Union(c.Rect())
	}
	return r
}

// UnpinAll clears the pinned flag of every node.
func (g *Graph) UnpinAll() {
	for _, n := range g.nodes {
		n.Pinned = false
	}
}
