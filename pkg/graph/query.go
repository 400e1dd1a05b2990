package graph

import (
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/route"
)

// =============================================================================
// Hit lookups
// =============================================================================

// NodeAt returns the topmost node whose rectangle contains p, or nil.
func (g *Graph) NodeAt(p geom.Point) *Node {
	for i := len(g.nodeOrder) - 1; i >= 0; i-- {
		if n := g.nodes[g.nodeOrder[i]]; n.Bounds().Contains(p) {
			return n
		}
	}
	return nil
}

// LinkAt returns the most recent link whose path passes within width/2 of p,
// or nil. A width of zero uses the style's hit width.
func (g *Graph) LinkAt(p geom.Point, width float64) *Link {
	if width <= 0 {
		width = g.style.Link.HitWidth
	}
	if width <= 0 {
		width = route.DefaultHitWidth
	}
	for i := len(g.linkOrder) - 1; i >= 0; i-- {
		if l := g.links[g.linkOrder[i]]; l.path.Hit(p, width) {
			return l
		}
	}
	return nil
}

// GroupAt returns the most recent group whose rectangle contains p, or nil.
func (g *Graph) GroupAt(p geom.Point) *Group {
	for i := len(g.groupOrd) - 1; i >= 0; i-- {
		if gr := g.groups[g.groupOrd[i]]; gr.Rect.Contains(p) {
			return gr
		}
	}
	return nil
}

// CommentAt returns the most recent comment whose rectangle contains p, or
// nil.
func (g *Graph) CommentAt(p geom.Point) *Comment {
	for i := len(g.commOrd) - 1; i >= 0; i-- {
		if c := g.comments[g.commOrd[i]]; c.Rect().Contains(p) {
			return c
		}
	}
	return nil
}

// =============================================================================
// Selection
// =============================================================================

// SelectAll marks every node, link, group and comment selected.
func (g *Graph) SelectAll() { g.setSelected(true) }

// DeselectAll clears every selection flag.
func (g *Graph) DeselectAll() { g.setSelected(false) }

func (g *Graph) setSelected(v bool) {
	for _, n := range g.nodes {
		n.Selected = v
	}
	for _, l := range g.links {
		l.Selected = v
	}
	for _, gr := range g.groups {
		gr.Selected = v
	}
	for _, c := range g.comments {
		c.Selected = v
	}
}

// Selected returns the selected entities: links first, then nodes, groups
// and comments, each in graph order.
func (g *Graph) Selected() []Item {
	var out []Item
	for _, l := range g.Links() {
		if l.Selected {
			out = append(out, Item{KindLink, l.id})
		}
	}
	for _, n := range g.Nodes() {
		if n.Selected {
			out = append(out, Item{KindNode, n.id})
		}
	}
	for _, gr := range g.Groups() {
		if gr.Selected {
			out = append(out, Item{KindGroup, gr.id})
		}
	}
	for _, c := range g.Comments() {
		if c.Selected {
			out = append(out, Item{KindComment, c.id})
		}
	}
	return out
}

// SelectedNodes returns the selected nodes in stacking order.
func (g *Graph) SelectedNodes() []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

// SelectionBounds returns the union of the selected items' rectangles.
func (g *Graph) SelectionBounds() geom.Rect {
	var r geom.Rect
	for _, it := range g.Selected() {
		r = r.Union(g.ItemBounds(it))
	}
	return r
}

// ItemBounds returns the rectangle of an item, or an empty rectangle. Link
// bounds include the end tips.
func (g *Graph) ItemBounds(it Item) geom.Rect {
	switch it.Kind {
	case KindNode:
		if n := g.nodes[it.ID]; n != nil {
			return n.Bounds()
		}
	case KindLink:
		if l := g.links[it.ID]; l != nil {
			return route.HitBounds(l.path, g.style.Link.PortTipRadius)
		}
	case KindGroup:
		if gr := g.groups[it.ID]; gr != nil {
			return gr.Rect
		}
	case KindComment:
		if c := g.comments[it.ID]; c != nil {
			return c.Rect()
		}
	}
	return geom.Rect{}
}

// RemoveItem removes any entity by reference.
func (g *Graph) RemoveItem(it Item) bool {
	switch it.Kind {
	case KindNode:
		return g.RemoveNode(it.ID)
	case KindLink:
		return g.RemoveLink(it.ID, false)
	case KindGroup:
		return g.RemoveGroup(it.ID)
	case KindComment:
		return g.RemoveComment(it.ID)
	}
	return false
}

// MoveItem translates a node, group or comment by d. Nodes reroute their
// links.
func (g *Graph) MoveItem(it Item, d geom.Point) {
	switch it.Kind {
	case KindNode:
		if n := g.nodes[it.ID]; n != nil {
			g.MoveNode(it.ID, n.Pos.Add(d))
		}
	case KindGroup:
		if gr := g.groups[it.ID]; gr != nil {
			gr.Rect = gr.Rect.Translate(d)
		}
	case KindComment:
		if c := g.comments[it.ID]; c != nil {
			c.Pos = c.Pos.Add(d)
		}
	}
}
