// Package hover tracks which port of a node is under the pointer and, while a
// connection is being dragged, whether that port would accept the link.
//
// A [State] belongs to one node and holds no layout of its own: every update
// receives the node's current geometry, so a relayout takes effect on the
// next pointer event. During a drag the editor passes the active [Gesture] to
// every node; each node classifies its own hovered port against it.
package hover

import (
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/geometry"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// Legality classifies a hovered port against an in-progress connection.
type Legality int

const (
	// None means no gesture is active or no port is hovered.
	None Legality = iota
	// Legal means a drop would create a link.
	Legal
	// Replace means a drop would create a link after removing the link
	// already attached to the IN port.
	Replace
	// Illegal means a drop would be rejected.
	Illegal
)

func (l Legality) String() string {
	switch l {
	case Legal:
		return "legal"
	case Replace:
		return "replace"
	case Illegal:
		return "illegal"
	}
	return "none"
}

// Accepts reports whether a drop would commit a link.
func (l Legality) Accepts() bool { return l == Legal || l == Replace }

// Gesture describes the source side of a connection drag.
type Gesture struct {
	Node      string
	Port      int
	PortID    string
	Direction node.Direction
	DataType  string
	// Busy is set when the source is an IN port that already carries a
	// link. Such a gesture has no legal target.
	Busy bool
}

// Port is the candidate side of a connection as seen by [Gesture.Classify].
type Port struct {
	Node      string
	Direction node.Direction
	DataType  string
	// Occupied is set when the port already carries a link. It only matters
	// for IN ports.
	Occupied bool
}

// Classify decides whether p can terminate the gesture. A port on the source
// node, a port with the source's direction and a port with a different data
// type are illegal, as is every port when the gesture is Busy. An occupied
// IN port is accepted as a replacement.
func (g *Gesture) Classify(p Port) Legality {
	switch {
	case g.Busy:
		return Illegal
	case p.Node == g.Node:
		return Illegal
	case p.Direction == g.Direction:
		return Illegal
	case p.DataType != g.DataType:
		return Illegal
	case p.Direction == node.In && p.Occupied:
		return Replace
	}
	return Legal
}

// State is the hover state of one node.
type State struct {
	flags    []bool
	index    int
	legality Legality
}

// NewState returns a cleared state for a node with n ports.
func NewState(n int) State {
	return State{flags: make([]bool, n), index: -1}
}

// Resize adapts the state to a new port count and clears it.
func (s *State) Resize(n int) {
	*s = NewState(n)
}

// Hovered returns the hovered port index, or -1.
func (s *State) Hovered() int {
	if s.flags == nil {
		return -1
	}
	return s.index
}

// IsHovered reports whether port i is hovered.
func (s *State) IsHovered(i int) bool {
	return i >= 0 && i < len(s.flags) && s.flags[i]
}

// Legality returns the classification of the hovered port against the last
// gesture, or None.
func (s *State) Legality() Legality { return s.legality }

// Reset clears all hover flags.
func (s *State) Reset() {
	for i := range s.flags {
		s.flags[i] = false
	}
	s.index = -1
	s.legality = None
}

// Update hit-tests local (node coordinates) against the port circles in port
// order and marks the first match as hovered. When nothing matches, a
// previously hovered port is cleared. It reports whether the state changed,
// so moving off a port reports true exactly once.
func (s *State) Update(local geom.Point, g *geometry.NodeGeometry) bool {
	return s.set(g.PortAt(local), None)
}

// UpdateWithGesture is Update plus classification of the hovered port. port
// describes candidate port i.
func (s *State) UpdateWithGesture(local geom.Point, g *geometry.NodeGeometry, gesture *Gesture, port func(i int) Port) bool {
	idx := g.PortAt(local)
	legality := None
	if idx >= 0 && gesture != nil {
		legality = gesture.Classify(port(idx))
	}
	return s.set(idx, legality)
}

func (s *State) set(idx int, legality Legality) bool {
	if idx >= len(s.flags) {
		s.Resize(idx + 1)
	}
	if idx == s.Hovered() && legality == s.legality {
		return false
	}
	if s.index >= 0 && s.index < len(s.flags) {
		s.flags[s.index] = false
	}
	s.index = idx
	s.legality = legality
	if idx >= 0 {
		s.flags[idx] = true
	}
	return true
}

// Visual is how a port should be drawn given its hover state.
type Visual struct {
	Radius float64
	Color  style.Color
	// Hovered is set when the port is under the pointer.
	Hovered bool
}

// PortVisual returns the drawing parameters for port i. An illegal hovered
// port is drawn smaller and muted so the user sees why a drop would fail.
func PortVisual(s *State, i int, dataType string, st style.Node) Visual {
	v := Visual{Radius: st.PortRadius, Color: st.PortColor(dataType)}
	if !s.IsHovered(i) {
		return v
	}
	v.Hovered = true
	switch s.legality {
	case Illegal:
		v.Radius = st.PortRadiusNotSelectable
		v.Color = st.MutedPortColor(dataType)
	default:
		v.Color = st.PortHovered
	}
	return v
}
