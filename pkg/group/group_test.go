package group

import (
	"testing"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
	"github.com/matzehuels/nodegraph/pkg/style"
)

func TestCornerAt(t *testing.T) {
	r := geom.R(100, 100, 200, 100)
	tests := []struct {
		name string
		p    geom.Point
		want Corner
	}{
		{"TopLeft", geom.Pt(105, 105), TopLeft},
		{"TopRight", geom.Pt(295, 101), TopRight},
		{"BottomLeft", geom.Pt(101, 195), BottomLeft},
		{"BottomRight", geom.Pt(299, 199), BottomRight},
		{"Middle", geom.Pt(200, 150), NoCorner},
		{"TopEdge", geom.Pt(200, 100), NoCorner},
		{"Outside", geom.Pt(50, 50), NoCorner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CornerAt(r, tt.p, 20); got != tt.want {
				t.Errorf("CornerAt(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func nodeSpec(id string, ports ...node.PortSpec) *node.Spec {
	return &node.Spec{NodeID: id, Type: id, Ports: ports}
}

// nested builds an outer group holding node a and an inner group that holds
// node b, with node c outside and a link a -> c.
func nested(t *testing.T) (*graph.Graph, *graph.Group, *graph.Group) {
	t.Helper()
	g := graph.New("g", graph.Options{})
	outer := g.AddGroup("outer", geom.R(0, 0, 1000, 600), style.White)
	inner := g.AddGroup("inner", geom.R(400, 100, 400, 400), style.White)
	for _, n := range []struct {
		d   *node.Spec
		pos geom.Point
	}{
		{nodeSpec("a", node.PortSpec{ID: "o", Direction: node.Out, DataType: "float"}), geom.Pt(50, 100)},
		{nodeSpec("b"), geom.Pt(450, 150)},
		{nodeSpec("c", node.PortSpec{ID: "i", Direction: node.In, DataType: "float"}), geom.Pt(1200, 100)},
	} {
		if _, err := g.AddNode(n.d, n.pos); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := g.ConnectByPortID("a", "o", "c", "i", route.Linear); err != nil {
		t.Fatal(err)
	}
	return g, outer, inner
}

func TestContainment(t *testing.T) {
	g, outer, inner := nested(t)

	got := Containment(g, outer.ID())
	want := map[graph.Item]bool{
		{Kind: graph.KindNode, ID: "a"}:        true,
		{Kind: graph.KindNode, ID: "b"}:        true,
		{Kind: graph.KindGroup, ID: inner.ID()}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("Containment = %v", got)
	}
	for _, it := range got {
		if !want[it] {
			t.Errorf("unexpected item %v", it)
		}
	}

	got = Containment(g, inner.ID())
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("inner Containment = %v", got)
	}
	if Containment(g, "missing") != nil {
		t.Error("missing group should contain nothing")
	}
}

func TestDragCarriesContents(t *testing.T) {
	g, outer, inner := nested(t)
	m := NewManager(g)

	if mode := m.Begin(outer.ID(), geom.Pt(500, 50)); mode != Drag {
		t.Fatalf("Begin = %v, want drag", mode)
	}
	if len(outer.Contained) != 3 {
		t.Errorf("Contained = %v", outer.Contained)
	}
	m.Move(geom.Pt(510, 60))
	rerouted := m.Move(geom.Pt(520, 80))

	d := geom.Pt(20, 30)
	if got := g.Node("a").Pos; got != geom.Pt(70, 130) {
		t.Errorf("a.Pos = %v", got)
	}
	if got := g.Node("b").Pos; got != geom.Pt(470, 180) {
		t.Errorf("b.Pos = %v", got)
	}
	if got := g.Node("c").Pos; got != geom.Pt(1200, 100) {
		t.Errorf("outside node moved to %v", got)
	}
	if inner.Rect != geom.R(400, 100, 400, 400).Translate(d) {
		t.Errorf("inner.Rect = %+v", inner.Rect)
	}
	if outer.Rect != geom.R(0, 0, 1000, 600).Translate(d) {
		t.Errorf("outer.Rect = %+v", outer.Rect)
	}
	if len(rerouted) != 1 {
		t.Errorf("rerouted = %v, want the a -> c link", rerouted)
	}
	l := g.Links()[0]
	if l.Path().Start != g.Node("a").PortPos(0) {
		t.Error("link not rerouted after drag")
	}

	m.End()
	if m.Mode() != Inactive || outer.Contained != nil {
		t.Error("End did not reset")
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name  string
		press geom.Point
		to    geom.Point
		want  geom.Rect
	}{
		{"BottomRightGrow", geom.Pt(295, 195), geom.Pt(345, 245), geom.R(100, 100, 250, 150)},
		{"TopLeftShrink", geom.Pt(105, 105), geom.Pt(155, 125), geom.R(150, 120, 150, 80)},
		{"ClampMinimum", geom.Pt(295, 195), geom.Pt(0, 0), geom.R(100, 100, 40, 40)},
		{"TopRightClamp", geom.Pt(295, 105), geom.Pt(0, 500), geom.R(100, 160, 40, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New("r", graph.Options{})
			gr := g.AddGroup("g", geom.R(100, 100, 200, 100), style.White)
			m := NewManager(g)
			if mode := m.Begin(gr.ID(), tt.press); mode != Resize {
				t.Fatalf("Begin = %v, want resize", mode)
			}
			m.Move(tt.to)
			if gr.Rect != tt.want {
				t.Errorf("Rect = %+v, want %+v", gr.Rect, tt.want)
			}
		})
	}
}

func TestCaption(t *testing.T) {
	g := graph.New("c", graph.Options{})
	gr := g.AddGroup("Caption", geom.R(0, 0, 400, 200), style.White)

	r := CaptionRect(g, gr.ID())
	if !CaptionHit(g, gr.ID(), r.Center()) {
		t.Error("centre of caption not hit")
	}
	if CaptionHit(g, gr.ID(), geom.Pt(5, 150)) {
		t.Error("body hit as caption")
	}
	if r.Center().X != 200 {
		t.Errorf("caption not centred: %+v", r)
	}

	if SetCaption(g, gr.ID(), "") {
		t.Error("empty caption accepted")
	}
	if !SetCaption(g, gr.ID(), "Inputs") || gr.Caption != "Inputs" {
		t.Errorf("caption = %q", gr.Caption)
	}
}
