// Package graph is the in-memory model edited by the user: nodes, the links
// between their ports, groups and comments.
//
// # Registry
//
// Entities live in typed registries keyed by id, with insertion order kept
// for deterministic iteration. Node ids come from the host descriptor; link,
// group and comment ids are generated UUIDs. Lookups never fail loudly:
// [Graph.Node] returns nil and [Graph.PortIndex] returns -1 when nothing
// matches.
//
// # Invariants
//
//   - A link always runs from an OUT port to an IN port; [Graph.Connect]
//     normalizes the order of its arguments.
//   - An IN port carries at most one link. Connecting to an occupied IN port
//     first removes the existing link, reported to observers as replaced,
//     and only then attaches the new one.
//   - No link outlives its endpoint nodes: [Graph.RemoveNode] removes
//     incident links before the node itself.
//
// # Removal
//
// Removal is two-phase. Removing an entity drops it from the registry,
// clears every back-reference to it and marks it invalid (Valid reports
// false), but the value itself stays usable for code still holding a pointer
// during the current event pass. [Graph.Reclaim] releases removed entities
// once the pass is over.
//
// A Graph is not safe for concurrent use.
package graph
