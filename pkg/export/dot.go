// Package export turns a graph into external formats: Graphviz DOT for
// debugging, SVG rendered through Graphviz, and a JSON layout dump of the
// computed node geometry and link paths.
package export

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/observability"
)

// DefaultLabel is the graph label written when Options.Label is empty.
const DefaultLabel = "nodegraph"

// Options configures DOT export.
type Options struct {
	// Label is the graph title.
	Label string
}

// ToDOT writes g as a Graphviz digraph. Nodes are labelled "caption(id)",
// edges "out_port - in_port". Both are sorted so the output is stable.
func ToDOT(g *graph.Graph, opts Options) string {
	label := cmp.Or(opts.Label, DefaultLabel)

	var buf bytes.Buffer
	buf.WriteString("digraph root {\n")
	fmt.Fprintf(&buf, "label=%q;\n", label)
	buf.WriteString("labelloc=\"t\";\n")
	buf.WriteString("rankdir=TD;\n")
	buf.WriteString("ranksep=0.5;\n")
	buf.WriteString("node [shape=record];\n")

	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *graph.Node) int { return cmp.Compare(a.ID(), b.ID()) })
	for _, n := range nodes {
		fmt.Fprintf(&buf, "%q [label=%q];\n", n.ID(), n.Caption()+"("+n.ID()+")")
	}

	type edge struct{ out, in, label string }
	var edges []edge
	for _, l := range g.Links() {
		out, in := g.Node(l.Out.Node), g.Node(l.In.Node)
		edges = append(edges, edge{
			out:   l.Out.Node,
			in:    l.In.Node,
			label: out.Descriptor().PortID(l.Out.Port) + " - " + in.Descriptor().PortID(l.In.Port),
		})
	}
	slices.SortFunc(edges, func(a, b edge) int {
		return cmp.Or(cmp.Compare(a.out, b.out), cmp.Compare(a.in, b.in), cmp.Compare(a.label, b.label))
	})
	for _, e := range edges {
		fmt.Fprintf(&buf, "%q -> %q [fontsize=8, label=%q];\n", e.out, e.in, e.label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// WriteDOT writes the DOT export of g to path.
func WriteDOT(path string, g *graph.Graph, opts Options) error {
	if err := os.WriteFile(path, []byte(ToDOT(g, opts)), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// RenderSVG lays out and renders a DOT graph with Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, "svg", bytes.Count([]byte(dot), []byte("[label=")))
	start := time.Now()

	svg, err := renderSVG(ctx, dot)
	hooks.OnRenderComplete(ctx, "svg", len(svg), time.Since(start), err)
	return svg, err
}

func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
