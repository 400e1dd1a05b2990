package document

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/node"
)

// NodeFactory creates node descriptors for document entries. The engine
// never constructs nodes itself; hosts decide what a node id means.
type NodeFactory interface {
	NewNode(id string, pos geom.Point, fields map[string]any) (node.Descriptor, error)
}

// NodeFactoryFunc adapts a function to NodeFactory.
type NodeFactoryFunc func(id string, pos geom.Point, fields map[string]any) (node.Descriptor, error)

func (f NodeFactoryFunc) NewNode(id string, pos geom.Point, fields map[string]any) (node.Descriptor, error) {
	return f(id, pos, fields)
}

// SpecFactory builds static [node.Spec] descriptors from the fields written
// by [node.Spec.Fields].
type SpecFactory struct{}

func (SpecFactory) NewNode(id string, _ geom.Point, fields map[string]any) (node.Descriptor, error) {
	return node.SpecFromFields(id, fields)
}

// ApplyOptions controls [Apply].
type ApplyOptions struct {
	// Clear empties the graph first and adopts the document id and link
	// type. Without it the document is merged into the graph.
	Clear bool
	// Offset is added to every position.
	Offset geom.Point
	// Logger receives one warning per skipped entry. Defaults to
	// log.Default().
	Logger *log.Logger
}

// Report counts what [Apply] created and skipped.
type Report struct {
	Nodes    int
	Links    int
	Groups   int
	Comments int
	Skipped  int
}

// Apply builds the document into g: groups, comments, nodes, then links once
// every node exists. An entry that cannot be created, including a link that
// would break direction, type or the one-link-per-input rule, is logged and
// skipped.
func Apply(g *graph.Graph, doc Document, factory NodeFactory, opts ApplyOptions) (Report, error) {
	if g == nil || factory == nil {
		return Report{}, errors.New(errors.ErrCodeInvalidInput, "graph and node factory are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	var rep Report
	skip := func(msg string, keyvals ...any) {
		rep.Skipped++
		logger.Warn(msg, keyvals...)
	}

	if opts.Clear {
		g.Clear()
		if doc.ID != "" {
			g.SetID(doc.ID)
		}
		g.SetLinkType(doc.LinkType)
	}

	st := g.Style().Group
	for _, gr := range doc.Groups {
		rect := geom.R(gr.Position.X, gr.Position.Y, gr.Width, gr.Height).Translate(opts.Offset)
		g.AddGroup(gr.Caption, rect, gr.groupColor(st.Color))
		rep.Groups++
	}

	for _, c := range doc.Comments {
		cm := g.AddComment(c.Text, c.Position.Point().Add(opts.Offset))
		g.SetCommentText(cm.ID(), c.Text)
		rep.Comments++
	}

	for _, n := range doc.Nodes {
		pos := n.Position.Point().Add(opts.Offset)
		if g.Node(n.ID) != nil {
			skip("skipping node: id already in graph", "node", n.ID)
			continue
		}
		desc, err := factory.NewNode(n.ID, pos, n.Fields)
		if err != nil {
			skip("skipping node: factory failed", "node", n.ID, "err", err)
			continue
		}
		if desc.ID() != n.ID {
			skip("skipping node: factory returned a different id", "node", n.ID, "got", desc.ID())
			continue
		}
		if _, err := g.AddNode(desc, pos); err != nil {
			skip("skipping node", "node", n.ID, "err", err)
			continue
		}
		g.SetWidgetVisible(n.ID, n.WidgetVisible)
		rep.Nodes++
	}

	for _, l := range doc.Links {
		in := graph.PortRef{Node: l.NodeIn, Port: g.PortIndex(l.NodeIn, l.PortIn)}
		if in.Port >= 0 && !g.PortAvailable(in) {
			skip("skipping link: input already connected", "node", l.NodeIn, "port", l.PortIn)
			continue
		}
		if _, err := g.ConnectByPortID(l.NodeOut, l.PortOut, l.NodeIn, l.PortIn, l.Type); err != nil {
			skip("skipping link", "out", l.NodeOut+"/"+l.PortOut, "in", l.NodeIn+"/"+l.PortIn, "err", err)
			continue
		}
		rep.Links++
	}
	return rep, nil
}
