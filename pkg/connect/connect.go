// Package connect implements the pointer-driven connection gesture: press on
// a port, drag a provisional link, release on a compatible port to commit.
//
// The provisional link belongs to the [Machine] and never enters the graph,
// so it has no effect on port cardinality. While dragging, every node is
// handed the active [hover.Gesture] and classifies its own hovered port.
package connect

import (
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/hover"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
)

// State is the machine state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome is the result of a release.
type Outcome int

const (
	// None means no drag was active.
	None Outcome = iota
	// Committed means a link was created.
	Committed
	// Dropped means the drag ended without a link.
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Dropped:
		return "dropped"
	}
	return "none"
}

// Listener receives gesture notifications.
type Listener interface {
	ConnectionStarted(nodeID, portID string)
	ConnectionFinished(outNode, outPort, inNode, inPort string)
	ConnectionDropped(nodeID, portID string, pos geom.Point)
}

// NoopListener implements Listener with no-ops.
type NoopListener struct{}

func (NoopListener) ConnectionStarted(string, string)                 {}
func (NoopListener) ConnectionFinished(string, string, string, string) {}
func (NoopListener) ConnectionDropped(string, string, geom.Point)     {}

// Provisional is the dashed link that follows the pointer during a drag.
type Provisional struct {
	// Anchor is the source port centre, Pointer the free end.
	Anchor  geom.Point
	Pointer geom.Point
	Path    route.Path
	Pen     graph.Pen
}

// Machine drives one connection gesture at a time.
type Machine struct {
	g *graph.Graph
	l Listener

	state       State
	gesture     hover.Gesture
	provisional Provisional
}

// New returns an idle machine. A nil listener is replaced by NoopListener.
func New(g *graph.Graph, l Listener) *Machine {
	if l == nil {
		l = NoopListener{}
	}
	return &Machine{g: g, l: l}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Gesture returns the active gesture, or nil when idle.
func (m *Machine) Gesture() *hover.Gesture {
	if m.state != Dragging {
		return nil
	}
	return &m.gesture
}

// Provisional returns the provisional link while dragging.
func (m *Machine) Provisional() (Provisional, bool) {
	return m.provisional, m.state == Dragging
}

// PortUnder returns the topmost node under p and the index of the port
// circle containing p, or (nil, -1).
func PortUnder(g *graph.Graph, p geom.Point) (*graph.Node, int) {
	n := g.NodeAt(p)
	if n == nil {
		return nil, -1
	}
	idx := n.Geometry().PortAt(n.ToLocal(p))
	if idx < 0 {
		return n, -1
	}
	return n, idx
}

// Press starts a drag when p is over a port of the topmost node. It reports
// whether a drag started.
func (m *Machine) Press(p geom.Point) bool {
	if m.state == Dragging {
		return false
	}
	n, idx := PortUnder(m.g, p)
	if idx < 0 {
		return false
	}
	d := n.Descriptor()
	m.gesture = hover.Gesture{
		Node:      n.ID(),
		Port:      idx,
		PortID:    d.PortID(idx),
		Direction: d.PortDirection(idx),
		DataType:  d.PortDataType(idx),
		Busy:      !m.g.PortAvailable(graph.PortRef{Node: n.ID(), Port: idx}),
	}
	n.Draggable = false
	m.state = Dragging
	m.provisional = Provisional{Anchor: n.PortPos(idx), Pen: graph.PenDashed}
	m.track(p)
	m.l.ConnectionStarted(n.ID(), m.gesture.PortID)
	return true
}

// Move updates the provisional link and the hover state of every node. It
// reports whether any node's hover state changed.
func (m *Machine) Move(p geom.Point) bool {
	if m.state != Dragging {
		return false
	}
	m.track(p)
	changed := false
	for _, n := range m.g.Nodes() {
		if n.Hover.UpdateWithGesture(n.ToLocal(p), n.Geometry(), &m.gesture, n.HoverPort) {
			changed = true
		}
	}
	return changed
}

func (m *Machine) track(p geom.Point) {
	m.provisional.Pointer = p
	start, end := m.provisional.Anchor, p
	if m.gesture.Direction == node.In {
		start, end = p, m.provisional.Anchor
	}
	m.provisional.Path = route.Route(m.g.LinkType(), start, end, m.g.RouteOptions())
}

// Release ends the drag at p. A legal target port commits a link, replacing
// the link on an occupied IN port; anything else drops the gesture. A drag
// that started on an occupied IN port always drops.
func (m *Machine) Release(p geom.Point) (Outcome, *graph.Link) {
	if m.state != Dragging {
		return None, nil
	}
	defer m.finish()

	src := graph.PortRef{Node: m.gesture.Node, Port: m.gesture.Port}
	target, idx := PortUnder(m.g, p)
	if idx >= 0 && m.gesture.Classify(target.HoverPort(idx)).Accepts() {
		l, err := m.g.Connect(src, graph.PortRef{Node: target.ID(), Port: idx}, m.g.LinkType())
		if err == nil {
			m.l.ConnectionFinished(l.Out.Node, m.portID(l.Out), l.In.Node, m.portID(l.In))
			return Committed, l
		}
	}
	m.l.ConnectionDropped(m.gesture.Node, m.gesture.PortID, p)
	return Dropped, nil
}

func (m *Machine) portID(ref graph.PortRef) string {
	return m.g.Node(ref.Node).Descriptor().PortID(ref.Port)
}

// Cancel abandons an active drag without notifying the listener.
func (m *Machine) Cancel() {
	if m.state == Dragging {
		m.finish()
	}
}

func (m *Machine) finish() {
	if n := m.g.Node(m.gesture.Node); n != nil {
		n.Draggable = true
	}
	for _, n := range m.g.Nodes() {
		n.Hover.Reset()
	}
	m.state = Idle
	m.gesture = hover.Gesture{}
	m.provisional = Provisional{}
}
