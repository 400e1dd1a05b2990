package geometry

import (
	"math"
	"reflect"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// monoMetrics is a fixed-pitch stand-in: every rune is 6 wide, lines are 10.
type monoMetrics struct{}

func (monoMetrics) LineHeight() float64      { return 10 }
func (monoMetrics) Advance(s string) float64 { return 6 * float64(utf8.RuneCountInString(s)) }

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearRect(a, b geom.Rect) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.W, b.W) && near(a.H, b.H)
}

func threePorts() *node.Spec {
	return &node.Spec{
		NodeID: "n",
		Type:   "Node",
		Ports: []node.PortSpec{
			{Caption: "a", Direction: node.In, DataType: "float"},
			{Caption: "b", Direction: node.In, DataType: "float"},
			{Caption: "out", Direction: node.Out, DataType: "float"},
		},
	}
}

func TestComputeLayout(t *testing.T) {
	st := style.Default().Node
	g := Compute(threePorts(), geom.Size{}, st, monoMetrics{})

	// dy = 1.3*10, margin = 2*6, gap = 1.2*dy
	if !near(g.RowHeight, 13) || !near(g.Margin, 12) {
		t.Fatalf("RowHeight/Margin = %v/%v", g.RowHeight, g.Margin)
	}
	if !near(g.Width, 128+24) {
		t.Errorf("Width = %v, want 152", g.Width)
	}
	if !near(g.Height, 13*3.5+15.6+24) {
		t.Errorf("Height = %v, want %v", g.Height, 13*3.5+15.6+24)
	}
	if !nearRect(g.Body, geom.R(12, 19, 128, g.Height-19)) {
		t.Errorf("Body = %v", g.Body)
	}
	if !nearRect(g.Header, geom.R(12, 19, 128, 15.6)) {
		t.Errorf("Header = %v", g.Header)
	}

	ypos := 19 + 15.6 + 6.0
	for k, p := range g.Ports {
		if !nearRect(p.Label, geom.R(24, ypos, 104, 13)) {
			t.Errorf("port %d label = %v", k, p.Label)
		}
		wantX := 6.0
		if k == 2 {
			wantX = 134
		}
		if !nearRect(p.Circle, geom.R(wantX, ypos+5-6, 12, 12)) {
			t.Errorf("port %d circle = %v", k, p.Circle)
		}
		ypos += 13
	}
	if g.Ports[0].Align != AlignLeft || g.Ports[2].Align != AlignRight {
		t.Errorf("alignments = %v, %v", g.Ports[0].Align, g.Ports[2].Align)
	}
	if !near(g.Embedded.Y, ypos+6) || g.Embedded.W != 0 {
		t.Errorf("Embedded = %v", g.Embedded)
	}
}

func TestPortCirclesOnBodyEdges(t *testing.T) {
	g := Compute(threePorts(), geom.Size{}, style.Default().Node, monoMetrics{})
	for k, p := range g.Ports {
		c := p.Circle.Center()
		edge := g.Body.X
		if p.Direction == node.Out {
			edge = g.Body.Right()
		}
		if !near(c.X, edge) {
			t.Errorf("port %d centre x = %v, want body edge %v", k, c.X, edge)
		}
	}
}

func TestComputeButtons(t *testing.T) {
	g := Compute(threePorts(), geom.Size{}, style.Default().Node, monoMetrics{})
	if g.Reload.Right() > g.Settings.X {
		t.Errorf("reload %v should sit left of settings %v", g.Reload, g.Settings)
	}
	if !g.Header.ContainsRect(g.Settings) || !g.Header.ContainsRect(g.Reload) {
		t.Errorf("buttons should be inside header %v", g.Header)
	}
	if mid := g.Header.Center().X; g.Reload.X < mid {
		t.Errorf("reload %v should sit in the right half of header %v", g.Reload, g.Header)
	}
}

func TestComputeEmbeddedWidensNode(t *testing.T) {
	st := style.Default().Node
	g := Compute(threePorts(), geom.Size{W: 200, H: 50}, st, monoMetrics{})
	if !near(g.Body.W, 208) {
		t.Errorf("Body.W = %v, want 208", g.Body.W)
	}
	base := Compute(threePorts(), geom.Size{}, st, monoMetrics{})
	if !near(g.Height-base.Height, 50+12) {
		t.Errorf("embedded height delta = %v, want 62", g.Height-base.Height)
	}
	if !g.Body.ContainsRect(g.Embedded) {
		t.Errorf("Embedded %v not inside body %v", g.Embedded, g.Body)
	}
}

func TestComputeLongCaptionWidensBox(t *testing.T) {
	d := threePorts()
	d.Type = "AVeryLongCaptionThatIsWiderThanTheNode"
	g := Compute(d, geom.Size{}, style.Default().Node, monoMetrics{})
	wantW := 6*float64(len(d.Type)) + 12 + 24
	if !near(g.Width, wantW) {
		t.Errorf("Width = %v, want %v", g.Width, wantW)
	}
	if !near(g.Body.W, 128) {
		t.Errorf("Body.W = %v, want 128", g.Body.W)
	}
}

func TestComputeZeroPorts(t *testing.T) {
	d := &node.Spec{NodeID: "z", Type: "Z"}
	g := Compute(d, geom.Size{}, style.Default().Node, monoMetrics{})
	if len(g.Ports) != 0 {
		t.Fatalf("Ports = %d", len(g.Ports))
	}
	if !near(g.Height, 13*0.5+15.6+24) {
		t.Errorf("Height = %v", g.Height)
	}
	if g.Body.H <= g.Header.H-eps {
		t.Errorf("body %v should hold the header %v", g.Body, g.Header)
	}
}

func TestComputeComment(t *testing.T) {
	d := threePorts()
	d.Text = "this comment wraps across a few lines of text"
	st := style.Default().Node
	g := Compute(d, geom.Size{W: 40, H: 20}, st, monoMetrics{})
	if len(g.CommentLines) < 2 {
		t.Fatalf("CommentLines = %q", g.CommentLines)
	}
	for _, l := range g.CommentLines {
		if (monoMetrics{}).Advance(l) > g.Comment.W+eps {
			t.Errorf("line %q wider than %v", l, g.Comment.W)
		}
	}
	if g.Comment.Y < g.Embedded.Bottom() {
		t.Errorf("comment %v overlaps embedded %v", g.Comment, g.Embedded)
	}
	if g.Comment.Bottom() > g.Height+eps {
		t.Errorf("comment %v outside node height %v", g.Comment, g.Height)
	}
}

func TestComputeDeterministic(t *testing.T) {
	d := threePorts()
	d.Text = "same input"
	st := style.Default().Node
	a := Compute(d, geom.Size{W: 30, H: 10}, st, DefaultMetrics())
	b := Compute(d, geom.Size{W: 30, H: 10}, st, DefaultMetrics())
	if !reflect.DeepEqual(a, b) {
		t.Error("Compute is not deterministic")
	}
}

func TestPortAt(t *testing.T) {
	g := Compute(threePorts(), geom.Size{}, style.Default().Node, monoMetrics{})
	if got := g.PortAt(g.PortCenter(1)); got != 1 {
		t.Errorf("PortAt(centre 1) = %d", got)
	}
	if got := g.PortAt(g.Body.Center()); got != -1 {
		t.Errorf("PortAt(body centre) = %d, want -1", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 60, nil},
		{"fits", "one two", 60, []string{"one two"}},
		{"greedy", "one two three", 48, []string{"one two", "three"}},
		{"newline", "a\n\nb", 60, []string{"a", "", "b"}},
		{"split long word", "abcdefghij", 24, []string{"abcd", "efgh", "ij"}},
		{"long word after text", "x abcdefgh", 24, []string{"x", "abcd", "efgh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, monoMetrics{})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestCommentSize(t *testing.T) {
	st := style.Default().Comment
	size, lines := CommentSize("Comment.", st, monoMetrics{})
	if size.W != st.Width {
		t.Errorf("W = %v, want %v", size.W, st.Width)
	}
	if len(lines) != 1 || !near(size.H, 10+4*st.RoundingRadius) {
		t.Errorf("size = %v, lines = %q", size, lines)
	}
}

func TestCaptionRectCentred(t *testing.T) {
	r := CaptionRect("Group", 256, monoMetrics{})
	if !near(r.Center().X, 128) || r.Y != 0 || r.H != 10 {
		t.Errorf("CaptionRect = %v", r)
	}
}

func TestDefaultMetrics(t *testing.T) {
	m := DefaultMetrics()
	if m.LineHeight() <= 0 {
		t.Errorf("LineHeight = %v", m.LineHeight())
	}
	if got, want := m.Advance("abc"), 3*m.Advance("a"); !near(got, want) {
		t.Errorf("Advance(abc) = %v, want %v", got, want)
	}
}
