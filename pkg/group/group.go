// Package group implements group containment, group dragging that carries
// contained items along, corner resizing and caption editing.
package group

import (
	"math"
	"slices"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/geometry"
	"github.com/matzehuels/nodegraph/pkg/graph"
)

// Corner identifies a resize handle.
type Corner int

const (
	NoCorner Corner = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	}
	return "none"
}

// CornerAt returns the handle of rect containing p. Handles are squares of
// side handle inset at each corner, tested in the order top-left, top-right,
// bottom-left, bottom-right.
func CornerAt(rect geom.Rect, p geom.Point, handle float64) Corner {
	corners := []struct {
		c  Corner
		at geom.Point
	}{
		{TopLeft, rect.Min()},
		{TopRight, geom.Pt(rect.Right()-handle, rect.Y)},
		{BottomLeft, geom.Pt(rect.X, rect.Bottom()-handle)},
		{BottomRight, geom.Pt(rect.Right()-handle, rect.Bottom()-handle)},
	}
	for _, h := range corners {
		if geom.RectAt(h.at, geom.Size{W: handle, H: handle}).Contains(p) {
			return h.c
		}
	}
	return NoCorner
}

// Containment returns the nodes and groups lying fully inside the group,
// including the contents of nested groups. The group itself is excluded.
func Containment(g *graph.Graph, groupID string) []graph.Item {
	root := g.Group(groupID)
	if root == nil {
		return nil
	}
	seen := map[graph.Item]bool{{Kind: graph.KindGroup, ID: groupID}: true}
	var out []graph.Item
	var visit func(r geom.Rect)
	visit = func(r geom.Rect) {
		for _, n := range g.Nodes() {
			it := graph.Item{Kind: graph.KindNode, ID: n.ID()}
			if !seen[it] && r.ContainsRect(n.Bounds()) {
				seen[it] = true
				out = append(out, it)
			}
		}
		for _, gr := range g.Groups() {
			it := graph.Item{Kind: graph.KindGroup, ID: gr.ID()}
			if !seen[it] && r.ContainsRect(gr.Rect) {
				seen[it] = true
				out = append(out, it)
				visit(gr.Rect)
			}
		}
	}
	visit(root.Rect)
	return out
}

// CaptionRect returns the caption bounding box of a group in graph
// coordinates.
func CaptionRect(g *graph.Graph, groupID string) geom.Rect {
	gr := g.Group(groupID)
	if gr == nil {
		return geom.Rect{}
	}
	return geometry.CaptionRect(gr.Caption, gr.Rect.W, g.Metrics()).Translate(gr.Rect.Min())
}

// CaptionHit reports whether p is on the group's caption.
func CaptionHit(g *graph.Graph, groupID string, p geom.Point) bool {
	r := CaptionRect(g, groupID)
	return !r.IsEmpty() && r.Contains(p)
}

// SetCaption replaces a group caption. Empty text is ignored. It reports
// whether the caption changed.
func SetCaption(g *graph.Graph, groupID, text string) bool {
	gr := g.Group(groupID)
	if gr == nil || text == "" || text == gr.Caption {
		return false
	}
	gr.Caption = text
	return true
}

// Mode is the interaction started by [Manager.Begin].
type Mode int

const (
	Inactive Mode = iota
	Drag
	Resize
)

func (m Mode) String() string {
	switch m {
	case Drag:
		return "drag"
	case Resize:
		return "resize"
	}
	return "inactive"
}

// Manager runs one group drag or resize at a time.
type Manager struct {
	g *graph.Graph

	mode      Mode
	corner    Corner
	id        string
	start     geom.Point
	startRect geom.Rect
	last      geom.Point
}

// NewManager returns an inactive manager for g.
func NewManager(g *graph.Graph) *Manager {
	return &Manager{g: g}
}

// Mode returns the active mode.
func (m *Manager) Mode() Mode { return m.mode }

// Corner returns the handle being dragged in Resize mode.
func (m *Manager) Corner() Corner { return m.corner }

// GroupID returns the id of the group being manipulated.
func (m *Manager) GroupID() string { return m.id }

// Begin starts an interaction on a group at p. A press on a corner handle
// resizes; anything else drags the group with its contents, which are
// computed now and held for the rest of the drag.
func (m *Manager) Begin(groupID string, p geom.Point) Mode {
	gr := m.g.Group(groupID)
	if gr == nil {
		return Inactive
	}
	m.id, m.start, m.last, m.startRect = groupID, p, p, gr.Rect
	if c := CornerAt(gr.Rect, p, m.g.Style().Group.ResizeHandle); c != NoCorner {
		m.mode, m.corner = Resize, c
		return m.mode
	}
	m.mode, m.corner = Drag, NoCorner
	gr.Contained = Containment(m.g, groupID)
	return m.mode
}

// Move continues the interaction at p. It returns the ids of links rerouted
// because a contained node moved.
func (m *Manager) Move(p geom.Point) []string {
	gr := m.g.Group(m.id)
	if gr == nil {
		m.End()
		return nil
	}
	switch m.mode {
	case Resize:
		gr.Rect = m.resized(p.Sub(m.start))
		return nil
	case Drag:
		d := p.Sub(m.last)
		m.last = p
		gr.Rect = gr.Rect.Translate(d)
		var rerouted []string
		for _, it := range gr.Contained {
			m.g.MoveItem(it, d)
			if it.Kind == graph.KindNode {
				for _, id := range m.g.LinksOf(it.ID) {
					if !slices.Contains(rerouted, id) {
						rerouted = append(rerouted, id)
					}
				}
			}
		}
		return rerouted
	}
	return nil
}

// resized applies the total pointer delta to the dragged corner of the
// starting rectangle, keeping the opposite corner fixed and the size at or
// above the style minimum.
func (m *Manager) resized(d geom.Point) geom.Rect {
	st := m.g.Style().Group
	r := m.startRect
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()
	switch m.corner {
	case TopLeft:
		x0 = math.Min(x0+d.X, x1-st.MinWidth)
		y0 = math.Min(y0+d.Y, y1-st.MinHeight)
	case TopRight:
		x1 = math.Max(x1+d.X, x0+st.MinWidth)
		y0 = math.Min(y0+d.Y, y1-st.MinHeight)
	case BottomLeft:
		x0 = math.Min(x0+d.X, x1-st.MinWidth)
		y1 = math.Max(y1+d.Y, y0+st.MinHeight)
	case BottomRight:
		x1 = math.Max(x1+d.X, x0+st.MinWidth)
		y1 = math.Max(y1+d.Y, y0+st.MinHeight)
	}
	return geom.R(x0, y0, x1-x0, y1-y0)
}

// End finishes the interaction and drops the containment set.
func (m *Manager) End() {
	if gr := m.g.Group(m.id); gr != nil {
		gr.Contained = nil
	}
	*m = Manager{g: m.g}
}
