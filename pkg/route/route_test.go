package route

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/style"
)

func TestRouteEndpoints(t *testing.T) {
	start, end := geom.Pt(10, 20), geom.Pt(200, 120)
	for _, lt := range LinkTypes {
		p := Route(lt, start, end, DefaultOptions())
		if p.Start != start {
			t.Errorf("%v: start = %v", lt, p.Start)
		}
		if p.End() != end {
			t.Errorf("%v: end = %v", lt, p.End())
		}
	}
}

func TestRouteShapes(t *testing.T) {
	start, end := geom.Pt(0, 0), geom.Pt(100, 50)
	opts := DefaultOptions()

	tests := []struct {
		lt   LinkType
		want []Segment
	}{
		{Linear, []Segment{{Op: OpLine, Pts: [3]geom.Point{end}}}},
		{Cubic, []Segment{{Op: OpCubic, Pts: [3]geom.Point{{X: 50, Y: 0}, {X: 50, Y: 50}, end}}}},
		{BrokenLine, []Segment{
			{Op: OpLine, Pts: [3]geom.Point{{X: 20, Y: 0}}},
			{Op: OpLine, Pts: [3]geom.Point{{X: 80, Y: 50}}},
			{Op: OpLine, Pts: [3]geom.Point{end}},
		}},
		{Circuit, []Segment{
			{Op: OpLine, Pts: [3]geom.Point{{X: 50, Y: 0}}},
			{Op: OpLine, Pts: [3]geom.Point{{X: 50, Y: 50}}},
			{Op: OpLine, Pts: [3]geom.Point{end}},
		}},
		{Deported, []Segment{
			{Op: OpLine, Pts: [3]geom.Point{{X: 50, Y: 0}}},
			{Op: OpCubic, Pts: [3]geom.Point{{X: 75, Y: 0}, {X: 75, Y: 50}, end}},
		}},
		{Quadratic, []Segment{{Op: OpQuad, Pts: [3]geom.Point{{X: 50, Y: -20}, end}}}},
	}
	for _, tt := range tests {
		t.Run(tt.lt.String(), func(t *testing.T) {
			got := Route(tt.lt, start, end, opts).Segments
			if len(got) != len(tt.want) {
				t.Fatalf("segments = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRouteBrokenLineLeftward(t *testing.T) {
	p := Route(BrokenLine, geom.Pt(100, 0), geom.Pt(0, 0), DefaultOptions())
	if got := p.Segments[0].End(); got != geom.Pt(80, 0) {
		t.Errorf("first run ends at %v, want (80,0)", got)
	}
	if got := p.Segments[1].End(); got != geom.Pt(20, 0) {
		t.Errorf("second run ends at %v, want (20,0)", got)
	}
}

func TestRouteCubicSameX(t *testing.T) {
	p := Route(Cubic, geom.Pt(10, 0), geom.Pt(10, 100), DefaultOptions())
	for _, q := range p.Flatten(16) {
		if math.Abs(q.X-10) > 1e-9 {
			t.Fatalf("vertical cubic left the line: %v", q)
		}
	}
}

func TestRouteJagged(t *testing.T) {
	opts := DefaultOptions()
	p := Route(Jagged, geom.Pt(0, 0), geom.Pt(60, 0), opts)
	// One zig per segment, the last sitting offset above the end point,
	// then a closing line onto the end itself.
	if len(p.Segments) != opts.JaggedSegments+1 {
		t.Fatalf("segments = %d, want %d", len(p.Segments), opts.JaggedSegments+1)
	}
	if end := p.Segments[len(p.Segments)-1].End(); end != geom.Pt(60, 0) {
		t.Errorf("end = %v", end)
	}
	for i := 1; i <= opts.JaggedSegments; i++ {
		q := p.Segments[i-1].End()
		want := 10.0
		if i%2 == 0 {
			want = -10
		}
		if math.Abs(q.X-float64(10*i)) > 1e-9 || q.Y != want {
			t.Errorf("zig %d = %v, want (%d,%v)", i, q, 10*i, want)
		}
	}
}

func TestPathHit(t *testing.T) {
	p := Route(Linear, geom.Pt(0, 0), geom.Pt(100, 0), DefaultOptions())
	tests := []struct {
		q    geom.Point
		want bool
	}{
		{geom.Pt(50, 0), true},
		{geom.Pt(50, 19), true},
		{geom.Pt(50, 21), false},
		{geom.Pt(-15, 0), true},
		{geom.Pt(130, 0), false},
	}
	for _, tt := range tests {
		if got := p.Hit(tt.q, DefaultHitWidth); got != tt.want {
			t.Errorf("Hit(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestPathSVG(t *testing.T) {
	p := Route(Cubic, geom.Pt(0, 0), geom.Pt(100, 50), DefaultOptions())
	if got, want := p.SVG(), "M 0 0 C 50 0 50 50 100 50"; got != want {
		t.Errorf("SVG() = %q, want %q", got, want)
	}
	q := Route(Quadratic, geom.Pt(0, 0), geom.Pt(10, 0), DefaultOptions())
	if !strings.Contains(q.SVG(), " Q 5 -20 10 0") {
		t.Errorf("quadratic SVG = %q", q.SVG())
	}
}

func TestPathBounds(t *testing.T) {
	p := Route(Quadratic, geom.Pt(0, 0), geom.Pt(100, 0), DefaultOptions())
	b := p.Bounds()
	if b.X != 0 || b.Right() != 100 {
		t.Errorf("Bounds = %v", b)
	}
	if b.Y >= 0 || b.Y < -20 {
		t.Errorf("quadratic should rise above the endpoints, bounds %v", b)
	}
	hb := HitBounds(p, 2)
	if hb.X != -2 || hb.Right() != 102 {
		t.Errorf("HitBounds = %v", hb)
	}
}

func TestTips(t *testing.T) {
	st := style.Default().Node
	st.PortDataColors["float"] = style.RGB(1, 2, 3)
	p := Route(Linear, geom.Pt(0, 0), geom.Pt(10, 10), DefaultOptions())
	tips := Tips(p, "float", "mystery", st, 2)
	if tips[0].Center != p.Start || tips[1].Center != p.End() {
		t.Errorf("tip centres = %v, %v", tips[0].Center, tips[1].Center)
	}
	if tips[0].Color != style.RGB(1, 2, 3) {
		t.Errorf("out tip color = %v", tips[0].Color)
	}
	if tips[1].Color != st.PortDataDefault {
		t.Errorf("in tip color = %v, want default", tips[1].Color)
	}
}

func TestLinkTypeNextCycles(t *testing.T) {
	lt := Cubic
	seen := map[LinkType]bool{}
	for range LinkTypes {
		seen[lt] = true
		lt = lt.Next()
	}
	if lt != Cubic {
		t.Errorf("after a full cycle got %v", lt)
	}
	if len(seen) != len(LinkTypes) {
		t.Errorf("visited %d types", len(seen))
	}
}

func TestParseLinkType(t *testing.T) {
	tests := []struct {
		in      string
		want    LinkType
		wantErr bool
	}{
		{"cubic", Cubic, false},
		{"BROKEN_LINE", BrokenLine, false},
		{"broken-line", BrokenLine, false},
		{"4", Deported, false},
		{"99", Cubic, true},
		{"bezier", Cubic, true},
	}
	for _, tt := range tests {
		got, err := ParseLinkType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLinkType(%q) error = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidLinkType) {
			t.Errorf("ParseLinkType(%q) code = %s", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseLinkType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLinkTypeJSON(t *testing.T) {
	b, err := json.Marshal(Circuit)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"circuit"` {
		t.Errorf("Marshal = %s", b)
	}
	for _, in := range []string{`"circuit"`, `3`} {
		var lt LinkType
		if err := json.Unmarshal([]byte(in), &lt); err != nil || lt != Circuit {
			t.Errorf("Unmarshal(%s) = %v, %v", in, lt, err)
		}
	}
	var lt LinkType
	if err := json.Unmarshal([]byte(`42`), &lt); err == nil {
		t.Error("Unmarshal(42) should fail")
	}
}
