// Package geom provides the small value types shared by the layout, routing
// and interaction packages: points, sizes and axis-aligned rectangles.
//
// All coordinates are float64 in graph space with y growing downward. Values
// are plain structs and every method returns a new value.
package geom

import "math"

// Point is a position in graph space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"width" bson:"width"`
	H float64 `json:"height" bson:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"width" bson:"width"`
	H float64 `json:"height" bson:"height"`
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// RectAt builds a rectangle from a corner and a size.
func RectAt(p Point, s Size) Rect { return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H} }

func (r Rect) Min() Point      { return Point{r.X, r.Y} }
func (r Rect) Max() Point      { return Point{r.X + r.W, r.Y + r.H} }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Size() Size      { return Size{r.W, r.H} }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) void() bool { return r.W < 0 || r.H < 0 || (r.W == 0 && r.H == 0) }

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies fully inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Adjust moves each edge independently, like growing the top-left corner by
// (dx0, dy0) and the bottom-right corner by (dx1, dy1).
func (r Rect) Adjust(dx0, dy0, dx1, dy1 float64) Rect {
	return Rect{X: r.X + dx0, Y: r.Y + dy0, W: r.W - dx0 + dx1, H: r.H - dy0 + dy1}
}

// Grow returns r expanded by m on every side.
func (r Rect) Grow(m float64) Rect { return r.Adjust(-m, -m, m, m) }

// Union returns the smallest rectangle covering r and o. An operand with no
// extent at all is ignored; a line-shaped operand (zero width or height) is
// kept.
func (r Rect) Union(o Rect) Rect {
	if r.void() {
		return o
	}
	if o.void() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// BoundsOf returns the bounding rectangle of pts.
func BoundsOf(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	x0, y0, x1, y1 := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		x0 = math.Min(x0, p.X)
		y0 = math.Min(y0, p.Y)
		x1 = math.Max(x1, p.X)
		y1 = math.Max(y1, p.Y)
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
