package route

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/nodegraph/pkg/geom"
)

// Op is the kind of a path segment.
type Op int

const (
	OpLine Op = iota
	OpQuad
	OpCubic
)

// Segment is one drawing command. Pts holds the end point for OpLine, the
// control and end point for OpQuad, and two controls plus the end point for
// OpCubic.
type Segment struct {
	Op  Op
	Pts [3]geom.Point
}

// End returns the segment's final point.
func (s Segment) End() geom.Point {
	switch s.Op {
	case OpQuad:
		return s.Pts[1]
	case OpCubic:
		return s.Pts[2]
	}
	return s.Pts[0]
}

// Path is a sequence of segments starting at Start.
type Path struct {
	Start    geom.Point
	Segments []Segment
}

func (p *Path) lineTo(q geom.Point) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, Pts: [3]geom.Point{q}})
}

func (p *Path) quadTo(c, q geom.Point) {
	p.Segments = append(p.Segments, Segment{Op: OpQuad, Pts: [3]geom.Point{c, q}})
}

func (p *Path) cubicTo(c1, c2, q geom.Point) {
	p.Segments = append(p.Segments, Segment{Op: OpCubic, Pts: [3]geom.Point{c1, c2, q}})
}

// End returns the last point of the path.
func (p Path) End() geom.Point {
	if len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].End()
}

// Flatten approximates the path by a polyline, sampling each curve segment
// with the given number of steps.
func (p Path) Flatten(steps int) []geom.Point {
	steps = max(steps, 1)
	pts := []geom.Point{p.Start}
	cur := p.Start
	for _, s := range p.Segments {
		switch s.Op {
		case OpLine:
			pts = append(pts, s.Pts[0])
		case OpQuad:
			for i := 1; i <= steps; i++ {
				pts = append(pts, quadAt(cur, s.Pts[0], s.Pts[1], float64(i)/float64(steps)))
			}
		case OpCubic:
			for i := 1; i <= steps; i++ {
				pts = append(pts, cubicAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/float64(steps)))
			}
		}
		cur = s.End()
	}
	return pts
}

const flattenSteps = 24

// Bounds returns the bounding box of the flattened path.
func (p Path) Bounds() geom.Rect {
	return geom.BoundsOf(p.Flatten(flattenSteps)...)
}

// Length returns the length of the flattened path.
func (p Path) Length() float64 {
	pts := p.Flatten(flattenSteps)
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i-1].Dist(pts[i])
	}
	return l
}

// DefaultHitWidth is the width of the stroke used for hit-testing links.
const DefaultHitWidth = 40

// Hit reports whether q lies within a stroke of the given width around the
// path.
func (p Path) Hit(q geom.Point, width float64) bool {
	return p.Distance(q) <= 0.5*width
}

// Distance returns the distance from q to the flattened path.
func (p Path) Distance(q geom.Point) float64 {
	pts := p.Flatten(flattenSteps)
	if len(pts) == 1 {
		return pts[0].Dist(q)
	}
	d := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		d = math.Min(d, segmentDistance(q, pts[i-1], pts[i]))
	}
	return d
}

// SVG returns the path as SVG path data ("M x y C ...").
func (p Path) SVG() string {
	var b strings.Builder
	b.WriteString("M ")
	writePt(&b, p.Start)
	for _, s := range p.Segments {
		switch s.Op {
		case OpLine:
			b.WriteString(" L ")
			writePt(&b, s.Pts[0])
		case OpQuad:
			b.WriteString(" Q ")
			writePt(&b, s.Pts[0])
			b.WriteByte(' ')
			writePt(&b, s.Pts[1])
		case OpCubic:
			b.WriteString(" C ")
			writePt(&b, s.Pts[0])
			b.WriteByte(' ')
			writePt(&b, s.Pts[1])
			b.WriteByte(' ')
			writePt(&b, s.Pts[2])
		}
	}
	return b.String()
}

func writePt(b *strings.Builder, p geom.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

func quadAt(p0, p1, p2 geom.Point, t float64) geom.Point {
	u := 1 - t
	return geom.Pt(
		u*u*p0.X+2*u*t*p1.X+t*t*p2.X,
		u*u*p0.Y+2*u*t*p1.Y+t*t*p2.Y,
	)
}

func cubicAt(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geom.Pt(
		a*p0.X+b*p1.X+c*p2.X+d*p3.X,
		a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
	)
}

func segmentDistance(q, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return q.Dist(a)
	}
	t := ((q.X-a.X)*ab.X + (q.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return q.Dist(a.Add(ab.Scale(t)))
}
