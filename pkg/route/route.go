// Package route computes the paths drawn for links between two port anchors.
//
// [Route] is a pure function of a [LinkType], the two anchors and [Options];
// it must be re-run whenever an endpoint moves or the link type changes. The
// resulting [Path] can be flattened to a polyline, rendered as SVG path data,
// or hit-tested with a widened stroke so thin links stay easy to click.
package route

import (
	"math"

	"github.com/matzehuels/nodegraph/pkg/geom"
)

// Options tunes the routing styles. The zero value is not useful; start from
// [DefaultOptions].
type Options struct {
	// Curvature is the fraction of the horizontal span used to offset cubic
	// control points.
	Curvature float64
	// BrokenOffset is the horizontal run out of each port for BrokenLine.
	BrokenOffset float64
	// QuadraticLift raises the quadratic control point above the higher
	// endpoint.
	QuadraticLift float64
	// JaggedSegments and JaggedAmplitude shape the Jagged zig-zag.
	JaggedSegments  int
	JaggedAmplitude float64
}

// DefaultOptions returns the built-in routing settings.
func DefaultOptions() Options {
	return Options{
		Curvature:       0.5,
		BrokenOffset:    20,
		QuadraticLift:   20,
		JaggedSegments:  6,
		JaggedAmplitude: 10,
	}
}

// WithCurvature returns DefaultOptions with the given curvature.
func WithCurvature(c float64) Options {
	o := DefaultOptions()
	o.Curvature = c
	return o
}

// Route computes the path of a link from start (the OUT port) to end (the IN
// port).
func Route(t LinkType, start, end geom.Point, opts Options) Path {
	p := Path{Start: start}
	mx := 0.5 * (start.X + end.X)

	switch t {
	case Linear:
		p.lineTo(end)

	case BrokenLine:
		off := math.Copysign(opts.BrokenOffset, end.X-start.X)
		p.lineTo(geom.Pt(start.X+off, start.Y))
		p.lineTo(geom.Pt(end.X-off, end.Y))
		p.lineTo(end)

	case Circuit:
		p.lineTo(geom.Pt(mx, start.Y))
		p.lineTo(geom.Pt(mx, end.Y))
		p.lineTo(end)

	case Deported:
		mid := geom.Pt(mx, start.Y)
		p.lineTo(mid)
		p.cubicTo(cubicControls(mid, end, opts.Curvature))

	case Quadratic:
		ctrl := geom.Pt(mx, math.Min(start.Y, end.Y)-opts.QuadraticLift)
		p.quadTo(ctrl, end)

	case Jagged:
		n := max(opts.JaggedSegments, 1)
		for i := 1; i <= n; i++ {
			q := start.Lerp(end, float64(i)/float64(n))
			if i%2 == 1 {
				q.Y += opts.JaggedAmplitude
			} else {
				q.Y -= opts.JaggedAmplitude
			}
			p.lineTo(q)
		}
		p.lineTo(end)

	default:
		p.cubicTo(cubicControls(start, end, opts.Curvature))
	}
	return p
}

func cubicControls(start, end geom.Point, curvature float64) (geom.Point, geom.Point, geom.Point) {
	dx := math.Abs(end.X-start.X) * curvature
	return geom.Pt(start.X+dx, start.Y), geom.Pt(end.X-dx, end.Y), end
}
