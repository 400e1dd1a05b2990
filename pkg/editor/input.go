package editor

import (
	"strings"

	"github.com/matzehuels/nodegraph/pkg/connect"
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/group"
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Mods is a set of keyboard modifiers.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether every modifier in m2 is held.
func (m Mods) Has(m2 Mods) bool { return m&m2 == m2 }

// Pointer is a pointer event in graph coordinates.
type Pointer struct {
	Pos    geom.Point
	Button Button
	Mods   Mods
}

// Key names a key. Letters are their lower-case character.
type Key string

const (
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
)

// =============================================================================
// Pointer
// =============================================================================

// PointerDown handles a button press and reports whether it was consumed.
//
// A left press resolves, top to bottom: a port (starts a connection), a
// node header button, a node body (selection and drag), a link, a comment,
// a group (drag or corner resize), and finally the background, which
// clears the selection.
func (e *Editor) PointerDown(p Pointer) bool {
	defer e.reclaim()
	e.pointer = p.Pos
	switch p.Button {
	case ButtonLeft:
		return e.leftDown(p)
	case ButtonRight:
		return e.rightDown(p)
	}
	return false
}

func (e *Editor) leftDown(p Pointer) bool {
	if e.conn.Press(p.Pos) {
		g := e.conn.Gesture()
		e.logger.Debug("connection started", "node", g.Node, "port", g.PortID)
		return true
	}

	if n := e.g.NodeAt(p.Pos); n != nil {
		local := n.ToLocal(p.Pos)
		geo := n.Geometry()
		switch {
		case geo.Settings.Contains(local):
			e.logger.Debug("settings requested", "node", n.ID())
			e.events.NodeSettingsRequest(n.ID())
			return true
		case geo.Reload.Contains(local):
			e.logger.Debug("reload requested", "node", n.ID())
			e.events.NodeReloadRequest(n.ID())
			return true
		}
		e.g.Raise(n.ID())
		e.pick(graph.Item{Kind: graph.KindNode, ID: n.ID()}, &n.Selected, p)
		return true
	}

	if l := e.g.LinkAt(p.Pos, 0); l != nil {
		e.pick(graph.Item{Kind: graph.KindLink, ID: l.ID()}, &l.Selected, p)
		return true
	}

	if c := e.g.CommentAt(p.Pos); c != nil {
		e.pick(graph.Item{Kind: graph.KindComment, ID: c.ID()}, &c.Selected, p)
		return true
	}

	if gr := e.g.GroupAt(p.Pos); gr != nil {
		e.changeSelection(func() {
			if !p.Mods.Has(ModShift) && !gr.Selected {
				e.g.DeselectAll()
			}
			gr.Selected = true
		})
		mode := e.groups.Begin(gr.ID(), p.Pos)
		e.logger.Debug("group gesture", "group", gr.ID(), "mode", mode, "corner", e.groups.Corner())
		return true
	}

	e.changeSelection(e.g.DeselectAll)
	return false
}

// pick updates the selection for a press on an item and starts dragging
// the selection. Shift or Ctrl toggles the item; a plain press on an
// unselected item makes it the only selection.
func (e *Editor) pick(it graph.Item, selected *bool, p Pointer) {
	e.changeSelection(func() {
		switch {
		case p.Mods.Has(ModShift) || p.Mods.Has(ModCtrl):
			*selected = !*selected
		case !*selected:
			e.g.DeselectAll()
			*selected = true
		}
	})
	if !*selected || it.Kind == graph.KindLink {
		return
	}
	if it.Kind == graph.KindNode {
		if n := e.g.Node(it.ID); n.Pinned || !n.Draggable {
			return
		}
	}
	e.drag = &itemDrag{last: p.Pos, items: e.draggable()}
}

// draggable returns the selected nodes and comments that follow a drag.
// Pinned nodes stay put.
func (e *Editor) draggable() []graph.Item {
	var items []graph.Item
	for _, n := range e.g.SelectedNodes() {
		if !n.Pinned {
			items = append(items, graph.Item{Kind: graph.KindNode, ID: n.ID()})
		}
	}
	for _, c := range e.g.Comments() {
		if c.Selected {
			items = append(items, graph.Item{Kind: graph.KindComment, ID: c.ID()})
		}
	}
	return items
}

// rightDown deletes the item under the pointer with Ctrl held, and
// otherwise reports a right-click on a node or on the empty background.
func (e *Editor) rightDown(p Pointer) bool {
	n := e.g.NodeAt(p.Pos)
	if p.Mods.Has(ModCtrl) {
		if n != nil {
			return e.g.RemoveNode(n.ID())
		}
		if l := e.g.LinkAt(p.Pos, 0); l != nil {
			return e.g.RemoveLink(l.ID(), false)
		}
		if c := e.g.CommentAt(p.Pos); c != nil {
			return e.g.RemoveComment(c.ID())
		}
		return false
	}
	if n != nil {
		e.events.NodeRightClicked(n.ID(), n.Pos)
		return true
	}
	if e.g.LinkAt(p.Pos, 0) == nil && e.g.CommentAt(p.Pos) == nil && e.g.GroupAt(p.Pos) == nil {
		e.events.BackgroundRightClicked(p.Pos)
		return true
	}
	return false
}

// PointerMove handles pointer motion and reports whether anything visible
// changed: a dragged item, the provisional link or a hover highlight.
func (e *Editor) PointerMove(p Pointer) bool {
	defer e.reclaim()
	e.pointer = p.Pos

	switch {
	case e.conn.State() == connect.Dragging:
		e.conn.Move(p.Pos)
		return true
	case e.groups.Mode() != group.Inactive:
		e.groups.Move(p.Pos)
		return true
	case e.drag != nil:
		d := p.Pos.Sub(e.drag.last)
		e.drag.last = p.Pos
		for _, it := range e.drag.items {
			e.g.MoveItem(it, d)
		}
		return len(e.drag.items) > 0
	}
	return e.updateHover(p.Pos)
}

func (e *Editor) updateHover(p geom.Point) bool {
	changed := false
	for _, n := range e.g.Nodes() {
		if n.Hover.Update(n.ToLocal(p), n.Geometry()) {
			changed = true
		}
	}
	hit := e.g.LinkAt(p, 0)
	for _, l := range e.g.Links() {
		if h := l == hit; l.Hovered != h {
			l.Hovered = h
			changed = true
		}
	}
	return changed
}

// PointerUp ends the active gesture. Releasing a connection drag either
// commits a link or reports a drop to the host.
func (e *Editor) PointerUp(p Pointer) bool {
	defer e.reclaim()
	e.pointer = p.Pos

	switch {
	case e.conn.State() == connect.Dragging:
		outcome, l := e.conn.Release(p.Pos)
		if l != nil {
			e.logger.Debug("connection finished", "link", l.ID(), "out", l.Out.Node, "in", l.In.Node)
		} else {
			e.logger.Debug("connection dropped", "outcome", outcome, "pos", p.Pos)
		}
		return true
	case e.groups.Mode() != group.Inactive:
		e.groups.End()
		return true
	case e.drag != nil:
		e.drag = nil
		return true
	}
	return false
}

// DoubleClick edits the text under the pointer: a comment's text, or a
// group caption when the click lands on the caption. It reports whether
// the text changed.
func (e *Editor) DoubleClick(p Pointer) bool {
	defer e.reclaim()
	e.pointer = p.Pos
	if e.edit == nil || p.Button != ButtonLeft || e.g.NodeAt(p.Pos) != nil {
		return false
	}
	if c := e.g.CommentAt(p.Pos); c != nil {
		text, ok := e.edit(c.Text, true)
		if !ok || text == "" || text == c.Text {
			return false
		}
		e.g.SetCommentText(c.ID(), text)
		return true
	}
	if gr := e.g.GroupAt(p.Pos); gr != nil && group.CaptionHit(e.g, gr.ID(), p.Pos) {
		text, ok := e.edit(gr.Caption, false)
		return ok && group.SetCaption(e.g, gr.ID(), text)
	}
	return false
}

// =============================================================================
// Keyboard
// =============================================================================

// KeyPress handles a shortcut and reports whether it was recognised.
//
//	Delete, Backspace  delete the selection
//	Ctrl+A             select all
//	Ctrl+C, Ctrl+D     copy or duplicate the selected nodes (host request)
//	Ctrl+V             paste (host request)
//	Ctrl+B             comment at the pointer
//	Ctrl+G             group around the selection
//	Ctrl+L             toggle the link type
//	Ctrl+I, Ctrl+O     import, open
//	Ctrl+S, Ctrl+Shift+S  save, save as
//	Ctrl+P             automatic layout
//	Ctrl+N, Ctrl+Q     new graph, quit
func (e *Editor) KeyPress(k Key, mods Mods) bool {
	defer e.reclaim()
	k = Key(strings.ToLower(string(k)))

	if k == KeyDelete || k == KeyBackspace {
		e.deleteSelected()
		return true
	}

	switch mods {
	case ModCtrl:
		return e.ctrlKey(k)
	case ModCtrl | ModShift:
		if k == "s" {
			e.events.GraphRequest(RequestSaveAs)
			return true
		}
	}
	return false
}

func (e *Editor) ctrlKey(k Key) bool {
	switch k {
	case "a":
		e.changeSelection(e.g.SelectAll)
	case "c":
		if ids := e.SelectedNodeIDs(); len(ids) > 0 {
			e.events.NodesCopyRequest(ids, e.SelectedPositions())
		}
	case "d":
		if ids := e.SelectedNodeIDs(); len(ids) > 0 {
			e.events.NodesDuplicateRequest(ids, e.SelectedPositions())
		}
	case "v":
		e.events.NodesPasteRequest()
	case "b":
		e.AddComment("")
	case "g":
		e.GroupSelection()
	case "l":
		e.ToggleLinkType()
	case "i":
		e.events.GraphRequest(RequestImport)
	case "o":
		e.events.GraphRequest(RequestOpen)
	case "s":
		e.events.GraphRequest(RequestSave)
	case "p":
		e.events.GraphRequest(RequestAutoLayout)
	case "q":
		e.events.GraphRequest(RequestQuit)
	case "n":
		e.events.GraphRequest(RequestNew)
	default:
		return false
	}
	return true
}
