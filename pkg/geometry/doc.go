// Package geometry lays out nodes, comments and group captions.
//
// # Node layout
//
// [Compute] is a pure function of a node descriptor, the measured size of its
// embedded control, the node style and a text [Metrics] implementation. It
// returns a [NodeGeometry] in node-local coordinates (origin at the top-left
// of the full bounding box, margins included):
//
//	+-----------------------------------+
//	|   Caption                         |  caption line
//	| +-------------------------------+ |
//	| | header             [R] [S]    | |  header: reload / settings buttons
//	| |-------------------------------| |
//	| o in label         out label    o |  one row per port, circles on the edges
//	| o in label                      | |
//	| |    +---------------------+    | |
//	| |    |  embedded control   |    | |  optional
//	| |    +---------------------+    | |
//	| |  wrapped comment text ...     | |  optional
//	| +-------------------------------+ |
//	+-----------------------------------+
//
// IN port circles are centred on the body's left edge and OUT port circles on
// its right edge. Calling Compute twice with the same inputs yields identical
// rectangles; nothing is cached between calls.
//
// # Text metrics
//
// Layout needs a line height and the advance width of strings. [FaceMetrics]
// adapts any golang.org/x/image/font.Face; [DefaultMetrics] uses the fixed
// 7x13 bitmap face so results do not depend on installed fonts.
package geometry
