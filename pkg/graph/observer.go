package graph

// Observer receives model notifications. Callbacks run synchronously inside
// the mutating call, after the graph has been updated.
type Observer interface {
	NodeAdded(n *Node)
	NodeRemoved(n *Node)
	LinkAdded(l *Link)
	// LinkRemoved reports replaced when the link was removed to make room
	// for a new link on the same IN port.
	LinkRemoved(l *Link, replaced bool)
}

// NoopObserver implements Observer with no-ops. Embed it to implement a
// subset of the callbacks.
type NoopObserver struct{}

func (NoopObserver) NodeAdded(*Node)         {}
func (NoopObserver) NodeRemoved(*Node)       {}
func (NoopObserver) LinkAdded(*Link)         {}
func (NoopObserver) LinkRemoved(*Link, bool) {}
