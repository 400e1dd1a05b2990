// Package editor is the interaction façade over a [graph.Graph]: it turns
// pointer and keyboard input into model changes and host notifications.
//
// The host owns the window and the drawing. It forwards input in graph
// coordinates and implements [Events] to hear about connections,
// selection, deletions and requests the editor cannot perform itself
// (open, save, copy, node settings). Every entry point runs to completion
// synchronously and reclaims removed entities before returning, so the
// host may drop any reference whose Valid() is false once a call returns.
//
//	ed := editor.New(g, editor.Options{Events: host, Inventory: inv})
//	ed.PointerDown(editor.Pointer{Pos: p, Button: editor.ButtonLeft})
package editor

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/connect"
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/group"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
)

// GroupPadding is the space left around the selection by GroupSelection.
const GroupPadding = 20.0

// CaptionEditor asks the user for new text. multiline is true for comment
// text and false for group captions. Returning false cancels the edit.
type CaptionEditor func(current string, multiline bool) (string, bool)

// Options configures an Editor.
type Options struct {
	// Events receives host notifications. Nil means NoopEvents.
	Events Events
	// Logger receives debug traces of gestures. Nil means log.Default().
	Logger *log.Logger
	// Inventory lists the creatable node types. Nil means empty.
	Inventory *Inventory
	// CaptionEditor is called on double-click. Nil disables editing.
	CaptionEditor CaptionEditor
}

// Editor dispatches input to the graph. It is not safe for concurrent use.
type Editor struct {
	g         *graph.Graph
	events    Events
	logger    *log.Logger
	inventory *Inventory
	edit      CaptionEditor

	conn   *connect.Machine
	groups *group.Manager
	drag   *itemDrag

	// pointer is the last known pointer position, used for items created
	// from the keyboard.
	pointer geom.Point
}

// itemDrag moves a set of selected items by the incremental pointer delta.
type itemDrag struct {
	last  geom.Point
	items []graph.Item
}

// New returns an editor for g.
func New(g *graph.Graph, opts Options) *Editor {
	e := &Editor{
		g:         g,
		events:    opts.Events,
		logger:    opts.Logger,
		inventory: opts.Inventory,
		edit:      opts.CaptionEditor,
	}
	if e.events == nil {
		e.events = NoopEvents{}
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.inventory == nil {
		e.inventory = NewInventory()
	}
	e.conn = connect.New(g, e.events)
	e.groups = group.NewManager(g)
	g.AddObserver(&observer{e: e})
	return e
}

// Graph returns the edited graph.
func (e *Editor) Graph() *graph.Graph { return e.g }

// Inventory returns the node type inventory.
func (e *Editor) Inventory() *Inventory { return e.inventory }

// Provisional returns the link being dragged, if any.
func (e *Editor) Provisional() (connect.Provisional, bool) {
	return e.conn.Provisional()
}

// Connecting reports whether a connection gesture is active.
func (e *Editor) Connecting() bool { return e.conn.State() == connect.Dragging }

// observer forwards model removals to the host.
type observer struct {
	graph.NoopObserver
	e *Editor
}

func (o *observer) NodeRemoved(n *graph.Node) {
	o.e.logger.Debug("node deleted", "node", n.ID())
	o.e.events.NodeDeleted(n.ID())
}

func (o *observer) LinkRemoved(l *graph.Link, replaced bool) {
	outPort, inPort := o.e.portID(l.Out), o.e.portID(l.In)
	o.e.logger.Debug("link deleted",
		"out", l.Out.Node+":"+outPort, "in", l.In.Node+":"+inPort, "replaced", replaced)
	o.e.events.ConnectionDeleted(l.Out.Node, outPort, l.In.Node, inPort, replaced)
}

// portID resolves a port reference to its id. Ports that no longer exist
// resolve to "".
func (e *Editor) portID(ref graph.PortRef) string {
	n := e.g.Node(ref.Node)
	if n == nil || n.Descriptor() == nil || ref.Port >= n.Descriptor().PortCount() {
		return ""
	}
	return n.Descriptor().PortID(ref.Port)
}

func (e *Editor) reclaim() {
	if n := e.g.Reclaim(); n > 0 {
		e.logger.Debug("reclaimed entities", "count", n)
	}
}

// =============================================================================
// Selection
// =============================================================================

// changeSelection runs fn and reports the resulting selection changes:
// NodeSelected and NodeDeselected per node, then one SelectionChanged.
func (e *Editor) changeSelection(fn func()) {
	before := e.g.Selected()
	beforeNodes := selectedNodeSet(e.g)
	fn()
	after := e.g.Selected()
	afterNodes := selectedNodeSet(e.g)

	for _, n := range e.g.Nodes() {
		id := n.ID()
		switch {
		case afterNodes[id] && !beforeNodes[id]:
			e.events.NodeSelected(id)
		case beforeNodes[id] && !afterNodes[id]:
			e.events.NodeDeselected(id)
		}
	}
	if !slices.Equal(before, after) {
		e.events.SelectionChanged()
	}
}

func selectedNodeSet(g *graph.Graph) map[string]bool {
	set := map[string]bool{}
	for _, n := range g.SelectedNodes() {
		set[n.ID()] = true
	}
	return set
}

// SelectAll selects every entity.
func (e *Editor) SelectAll() {
	defer e.reclaim()
	e.changeSelection(e.g.SelectAll)
}

// DeselectAll clears the selection.
func (e *Editor) DeselectAll() {
	defer e.reclaim()
	e.changeSelection(e.g.DeselectAll)
}

// SelectNode adds a node to the selection.
func (e *Editor) SelectNode(id string) {
	defer e.reclaim()
	e.changeSelection(func() {
		if n := e.g.Node(id); n != nil {
			n.Selected = true
		}
	})
}

// SelectedNodeIDs returns the ids of the selected nodes in stacking order.
func (e *Editor) SelectedNodeIDs() []string {
	var ids []string
	for _, n := range e.g.SelectedNodes() {
		ids = append(ids, n.ID())
	}
	return ids
}

// SelectedPositions returns the positions of the selected nodes, in the
// same order as SelectedNodeIDs.
func (e *Editor) SelectedPositions() []geom.Point {
	var pos []geom.Point
	for _, n := range e.g.SelectedNodes() {
		pos = append(pos, n.Pos)
	}
	return pos
}

// =============================================================================
// Operations
// =============================================================================

// AddNode places a node built from desc at pos.
func (e *Editor) AddNode(desc node.Descriptor, pos geom.Point) (*graph.Node, error) {
	defer e.reclaim()
	n, err := e.g.AddNode(desc, pos)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("node added", "node", n.ID(), "caption", n.Caption())
	return n, nil
}

// RemoveNode removes a node and its links. It reports whether the node
// existed.
func (e *Editor) RemoveNode(id string) bool {
	defer e.reclaim()
	return e.g.RemoveNode(id)
}

// DeleteSelected removes the selection: links first, then nodes, then
// groups and comments.
func (e *Editor) DeleteSelected() {
	defer e.reclaim()
	e.deleteSelected()
}

func (e *Editor) deleteSelected() {
	items := e.g.Selected()
	if len(items) == 0 {
		return
	}
	e.conn.Cancel()
	e.groups.End()
	e.drag = nil
	for _, it := range items {
		e.g.RemoveItem(it)
	}
	e.events.SelectionChanged()
}

// Clear removes everything, notifying the host of each deletion.
func (e *Editor) Clear() {
	defer e.reclaim()
	e.g.SelectAll()
	e.deleteSelected()
}

// ToggleLinkType switches every link, and new links, to the next type.
func (e *Editor) ToggleLinkType() route.LinkType {
	t := e.g.ToggleLinkType()
	e.logger.Debug("link type toggled", "type", t)
	return t
}

// UnpinNodes makes every node draggable again.
func (e *Editor) UnpinNodes() {
	e.g.UnpinAll()
}

// SetPinned pins or unpins a node. Pinned nodes do not follow drags.
func (e *Editor) SetPinned(id string, pinned bool) {
	if n := e.g.Node(id); n != nil {
		n.Pinned = pinned
	}
}

// ComputeStarted marks a node as computing.
func (e *Editor) ComputeStarted(id string) {
	if n := e.g.Node(id); n != nil {
		n.Computing = true
	}
}

// ComputeFinished clears a node's computing mark.
func (e *Editor) ComputeFinished(id string) {
	if n := e.g.Node(id); n != nil {
		n.Computing = false
	}
}

// ResizeEmbedded records the measured size of a node's embedded control
// and relayouts the node.
func (e *Editor) ResizeEmbedded(id string, size geom.Size) {
	defer e.reclaim()
	e.g.SetEmbeddedSize(id, size)
}

// ZoomToContent returns the rectangle a view should fit to show every
// entity, grown on each side by the style's zoom margin times the content
// size. It is empty for an empty graph.
func (e *Editor) ZoomToContent() geom.Rect {
	b := e.g.BoundingBox()
	if b.IsEmpty() {
		return geom.Rect{}
	}
	m := e.g.Style().Editor.ZoomMargin
	mx, my := m*b.W, m*b.H
	return b.Adjust(-mx, -my, mx, my)
}

// GroupSelection adds a group enclosing the selection, leaving room for the
// caption above it. With nothing selected, a default group is placed at the
// pointer.
func (e *Editor) GroupSelection() *graph.Group {
	gr := e.g.NewGroup(e.pointer)
	if len(e.g.Selected()) > 0 {
		b := e.g.SelectionBounds()
		lh := e.g.Metrics().LineHeight()
		gr.Rect = b.Adjust(-GroupPadding, -GroupPadding-lh, GroupPadding, GroupPadding)
	}
	e.logger.Debug("group added", "group", gr.ID(), "rect", gr.Rect)
	return gr
}

// AddComment adds a comment at the pointer.
func (e *Editor) AddComment(text string) *graph.Comment {
	return e.g.AddComment(text, e.pointer)
}

// RequestNode asks the host to create an inventory node type at pos. It
// reports false for types not in the inventory.
func (e *Editor) RequestNode(nodeType string, pos geom.Point) bool {
	if !e.inventory.Has(nodeType) {
		return false
	}
	e.events.NewNodeRequest(nodeType, pos)
	return true
}
