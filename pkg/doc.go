// Package pkg provides the libraries behind nodegraph, a headless node-graph
// editing engine.
//
// # Overview
//
// A node graph is a set of nodes with typed input and output ports, links
// from output ports to input ports, captioned groups and free-standing
// comments. The host application owns what nodes mean and how they are
// painted; these packages own everything in between: layout, link routing,
// hit-testing, the connection gesture, selection and dragging, and the
// document format.
//
// # Architecture
//
// The typical data flow:
//
//	host pointer/keyboard events
//	         ↓
//	    [editor] (dispatch, shortcuts, host callbacks)
//	         ↓
//	    [connect], [group], [hover] (gestures and hit-testing)
//	         ↓
//	    [graph] (nodes, links, groups, comments)
//	         ↓
//	    [geometry], [route] (node layout, link paths)
//
// Documents move in and out through [document], and [export] turns a graph
// into DOT, SVG and a JSON layout dump.
//
// # Quick Start
//
// Load a document and compute its layout:
//
//	g := graph.New("demo", graph.Options{})
//	_, issues, err := document.LoadFile(ctx, "demo.json", g, document.SpecFactory{},
//	    document.ApplyOptions{Clear: true})
//	layout := export.ComputeLayout(g)
//
// Drive it from pointer events:
//
//	ed := editor.New(g, editor.Options{Events: host})
//	ed.PointerDown(editor.Pointer{Pos: p, Button: editor.ButtonLeft})
//	ed.PointerMove(editor.Pointer{Pos: q})
//	ed.PointerUp(editor.Pointer{Pos: q, Button: editor.ButtonLeft})
//
// # Main Packages
//
// ## Model
//
// [geom] - Points, sizes and rectangles.
//
// [node] - The read-only view of a host node: caption, category and ports.
// [node.Spec] is a plain implementation used when loading documents.
//
// [style] - Fonts, colors and paddings, loadable from TOML.
//
// [geometry] - Node, comment and group caption layout from text metrics.
// [fonts] provides the faces it measures with.
//
// [route] - Link paths for the seven link types, and their tips.
//
// [graph] - The editable model, with port cardinality, direction and type
// rules enforced on connect, and two-phase removal.
//
// ## Interaction
//
// [hover] - Port hover state and its transitions.
//
// [connect] - The press, drag, release connection gesture.
//
// [group] - Group containment, resizing and dragging.
//
// [editor] - The façade hosts talk to.
//
// ## Persistence and Output
//
// [document] - The JSON document, with lenient parsing.
//
// [export] - DOT, Graphviz SVG and layout dumps.
//
// [store] - Document stores: files, memory, Redis and MongoDB.
//
// [cache] - Artifact caching for rendered SVGs and layouts.
//
// [server] - The HTTP API over a store.
//
// ## Support
//
// [errors] - Coded errors shared across package boundaries.
//
// [observability] - Hooks for metrics and tracing.
//
// [buildinfo] - Version information injected at build time.
package pkg
