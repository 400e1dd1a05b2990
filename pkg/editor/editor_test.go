package editor

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/group"
	"github.com/matzehuels/nodegraph/pkg/node"
	"github.com/matzehuels/nodegraph/pkg/route"
)

// recorder logs every callback as one line.
type recorder struct {
	NoopEvents
	log []string
}

func (r *recorder) add(format string, args ...any) {
	r.log = append(r.log, fmt.Sprintf(format, args...))
}

func (r *recorder) ConnectionStarted(n, p string) { r.add("started %s.%s", n, p) }
func (r *recorder) ConnectionFinished(on, op, in, ip string) {
	r.add("finished %s.%s->%s.%s", on, op, in, ip)
}
func (r *recorder) ConnectionDropped(n, p string, _ geom.Point) { r.add("dropped %s.%s", n, p) }
func (r *recorder) ConnectionDeleted(on, op, in, ip string, replaced bool) {
	r.add("deleted %s.%s->%s.%s replaced=%v", on, op, in, ip, replaced)
}
func (r *recorder) NodeSelected(id string)        { r.add("selected %s", id) }
func (r *recorder) NodeDeselected(id string)      { r.add("deselected %s", id) }
func (r *recorder) NodeDeleted(id string)         { r.add("node deleted %s", id) }
func (r *recorder) NodeReloadRequest(id string)   { r.add("reload %s", id) }
func (r *recorder) NodeSettingsRequest(id string) { r.add("settings %s", id) }
func (r *recorder) NodeRightClicked(id string, p geom.Point) {
	r.add("right %s %v,%v", id, p.X, p.Y)
}
func (r *recorder) BackgroundRightClicked(geom.Point) { r.add("background right") }
func (r *recorder) SelectionChanged()                 { r.add("selection changed") }
func (r *recorder) GraphRequest(req Request)          { r.add("request %s", req) }
func (r *recorder) NodesCopyRequest(ids []string, _ []geom.Point) {
	r.add("copy %v", ids)
}
func (r *recorder) NodesDuplicateRequest(ids []string, _ []geom.Point) {
	r.add("duplicate %v", ids)
}
func (r *recorder) NodesPasteRequest() { r.add("paste") }
func (r *recorder) NewNodeRequest(t string, _ geom.Point) { r.add("new %s", t) }

func (r *recorder) reset() { r.log = nil }

var quiet = log.New(io.Discard)

func port(id string, dir node.Direction) node.PortSpec {
	return node.PortSpec{ID: id, Caption: id, Direction: dir, DataType: "float"}
}

// fixture builds A(out o) at the origin, B(in i) to its right and C(out o)
// below A.
func fixture(t *testing.T) (*Editor, *recorder) {
	t.Helper()
	g := graph.New("g", graph.Options{})
	rec := &recorder{}
	e := New(g, Options{Events: rec, Logger: quiet})
	for _, n := range []struct {
		id  string
		pos geom.Point
		p   node.PortSpec
	}{
		{"A", geom.Pt(0, 0), port("o", node.Out)},
		{"B", geom.Pt(400, 0), port("i", node.In)},
		{"C", geom.Pt(0, 300), port("o", node.Out)},
	} {
		if _, err := e.AddNode(&node.Spec{NodeID: n.id, Type: n.id, Ports: []node.PortSpec{n.p}}, n.pos); err != nil {
			t.Fatal(err)
		}
	}
	return e, rec
}

func left(p geom.Point) Pointer  { return Pointer{Pos: p, Button: ButtonLeft} }
func right(p geom.Point) Pointer { return Pointer{Pos: p, Button: ButtonRight} }

func gesture(e *Editor, from, to geom.Point) {
	e.PointerDown(left(from))
	e.PointerMove(left(from.Lerp(to, 0.5)))
	e.PointerMove(left(to))
	e.PointerUp(left(to))
}

func portPos(e *Editor, id string) geom.Point {
	return e.Graph().Node(id).PortPos(0)
}

func center(e *Editor, id string) geom.Point {
	return e.Graph().Node(id).Bounds().Center()
}

func TestConnectionEvents(t *testing.T) {
	e, rec := fixture(t)

	gesture(e, portPos(e, "A"), portPos(e, "B"))
	want := []string{"started A.o", "finished A.o->B.i"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("events = %q, want %q", rec.log, want)
	}
	if e.Connecting() {
		t.Error("still connecting after release")
	}

	rec.reset()
	gesture(e, portPos(e, "C"), portPos(e, "B"))
	want = []string{"started C.o", "deleted A.o->B.i replaced=true", "finished C.o->B.i"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("replace events = %q, want %q", rec.log, want)
	}
	if e.Graph().LinkCount() != 1 || e.Graph().Pending() != 0 {
		t.Errorf("links = %d, pending = %d", e.Graph().LinkCount(), e.Graph().Pending())
	}

	rec.reset()
	gesture(e, portPos(e, "A"), geom.Pt(250, 600))
	want = []string{"started A.o", "dropped A.o"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("drop events = %q, want %q", rec.log, want)
	}
}

func TestProvisionalDuringDrag(t *testing.T) {
	e, _ := fixture(t)
	e.PointerDown(left(portPos(e, "A")))
	e.PointerMove(left(geom.Pt(300, 200)))
	p, ok := e.Provisional()
	if !ok || p.Pointer != geom.Pt(300, 200) || p.Pen != graph.PenDashed {
		t.Errorf("provisional = %+v, %v", p, ok)
	}
	e.PointerUp(left(geom.Pt(300, 200)))
	if _, ok := e.Provisional(); ok {
		t.Error("provisional link survives release")
	}
}

func TestHeaderButtons(t *testing.T) {
	e, rec := fixture(t)
	a := e.Graph().Node("A")
	geo := a.Geometry()

	e.PointerDown(left(a.Pos.Add(geo.Settings.Center())))
	e.PointerDown(left(a.Pos.Add(geo.Reload.Center())))
	want := []string{"settings A", "reload A"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("events = %q, want %q", rec.log, want)
	}
	if a.Selected {
		t.Error("header button selected the node")
	}
}

func TestSelectAndDrag(t *testing.T) {
	e, rec := fixture(t)
	g := e.Graph()
	a, c := g.Node("A"), g.Node("C")
	gesture(e, portPos(e, "A"), portPos(e, "B"))
	l := g.Links()[0]
	before := l.Path()
	rec.reset()

	e.PointerDown(left(center(e, "A")))
	if !a.Selected || !slices.Equal(rec.log, []string{"selected A", "selection changed"}) {
		t.Errorf("select A: selected=%v events=%q", a.Selected, rec.log)
	}

	rec.reset()
	e.PointerDown(Pointer{Pos: center(e, "C"), Button: ButtonLeft, Mods: ModShift})
	if !a.Selected || !c.Selected {
		t.Errorf("shift-click: A=%v C=%v", a.Selected, c.Selected)
	}
	c.Pinned = true
	e.PointerUp(left(center(e, "C")))

	start := center(e, "A")
	e.PointerDown(left(start))
	if !e.PointerMove(left(start.Add(geom.Pt(10, 20)))) {
		t.Error("drag move reported no change")
	}
	e.PointerUp(left(start.Add(geom.Pt(10, 20))))
	if a.Pos != geom.Pt(10, 20) {
		t.Errorf("A.Pos = %v", a.Pos)
	}
	if c.Pos != geom.Pt(0, 300) {
		t.Errorf("pinned C moved to %v", c.Pos)
	}
	if reflect.DeepEqual(before, l.Path()) {
		t.Error("link not rerouted after drag")
	}

	rec.reset()
	if e.PointerDown(left(geom.Pt(-500, -500))) {
		t.Error("background press consumed")
	}
	want := []string{"deselected A", "deselected C", "selection changed"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("deselect events = %q, want %q", rec.log, want)
	}
}

func TestDeleteSelected(t *testing.T) {
	e, rec := fixture(t)
	gesture(e, portPos(e, "A"), portPos(e, "B"))
	e.AddComment("note")
	rec.reset()

	e.SelectAll()
	rec.reset()
	if !e.KeyPress(KeyDelete, 0) {
		t.Fatal("delete not handled")
	}
	want := []string{
		"deleted A.o->B.i replaced=false",
		"node deleted A", "node deleted B", "node deleted C",
		"selection changed",
	}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("events = %q, want %q", rec.log, want)
	}
	g := e.Graph()
	if g.NodeCount()+g.LinkCount()+len(g.Comments()) != 0 || g.Pending() != 0 {
		t.Errorf("graph not empty: nodes=%d links=%d comments=%d pending=%d",
			g.NodeCount(), g.LinkCount(), len(g.Comments()), g.Pending())
	}
}

func TestRightClick(t *testing.T) {
	e, rec := fixture(t)
	gesture(e, portPos(e, "A"), portPos(e, "B"))
	mid := portPos(e, "A").Lerp(portPos(e, "B"), 0.5)
	rec.reset()

	e.PointerDown(right(center(e, "B")))
	e.PointerDown(right(geom.Pt(250, -400)))
	e.PointerDown(right(mid))
	want := []string{"right B 400,0", "background right"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("events = %q, want %q", rec.log, want)
	}

	rec.reset()
	ctrl := func(p geom.Point) Pointer { return Pointer{Pos: p, Button: ButtonRight, Mods: ModCtrl} }
	if !e.PointerDown(ctrl(mid)) {
		t.Error("ctrl+right on link not consumed")
	}
	if !e.PointerDown(ctrl(center(e, "C"))) {
		t.Error("ctrl+right on node not consumed")
	}
	want = []string{"deleted A.o->B.i replaced=false", "node deleted C"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("delete events = %q, want %q", rec.log, want)
	}
	if e.Graph().Node("C") != nil || e.Graph().LinkCount() != 0 {
		t.Error("ctrl+right did not delete")
	}
}

func TestKeyPressRequests(t *testing.T) {
	tests := []struct {
		key  Key
		mods Mods
		want string
	}{
		{"o", ModCtrl, "request open"},
		{"S", ModCtrl, "request save"},
		{"s", ModCtrl | ModShift, "request save-as"},
		{"i", ModCtrl, "request import"},
		{"p", ModCtrl, "request auto-layout"},
		{"q", ModCtrl, "request quit"},
		{"n", ModCtrl, "request new"},
		{"v", ModCtrl, "paste"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v+%s", tt.mods, tt.key), func(t *testing.T) {
			e, rec := fixture(t)
			if !e.KeyPress(tt.key, tt.mods) {
				t.Fatal("not handled")
			}
			if len(rec.log) != 1 || rec.log[0] != tt.want {
				t.Errorf("events = %q, want %q", rec.log, tt.want)
			}
		})
	}

	e, rec := fixture(t)
	if e.KeyPress("o", 0) || e.KeyPress("x", ModCtrl) || e.KeyPress("o", ModCtrl|ModAlt) {
		t.Error("unbound shortcut handled")
	}
	if len(rec.log) != 0 {
		t.Errorf("unbound shortcuts emitted %q", rec.log)
	}
}

func TestKeyPressEditing(t *testing.T) {
	e, rec := fixture(t)
	g := e.Graph()

	e.KeyPress("c", ModCtrl)
	if len(rec.log) != 0 {
		t.Errorf("copy with empty selection emitted %q", rec.log)
	}

	e.SelectNode("A")
	e.SelectNode("C")
	rec.reset()
	e.KeyPress("c", ModCtrl)
	e.KeyPress("d", ModCtrl)
	want := []string{"copy [A C]", "duplicate [A C]"}
	if !reflect.DeepEqual(rec.log, want) {
		t.Errorf("events = %q, want %q", rec.log, want)
	}
	if pos := e.SelectedPositions(); !reflect.DeepEqual(pos, []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 300}}) {
		t.Errorf("SelectedPositions = %v", pos)
	}

	sel := g.SelectionBounds()
	e.KeyPress("g", ModCtrl)
	if len(g.Groups()) != 1 || !g.Groups()[0].Rect.ContainsRect(sel) {
		t.Errorf("group around selection: %v", g.Groups())
	}

	e.PointerMove(left(geom.Pt(700, 700)))
	e.KeyPress("b", ModCtrl)
	if cs := g.Comments(); len(cs) != 1 || cs[0].Pos != geom.Pt(700, 700) || cs[0].Text != graph.DefaultCommentText {
		t.Errorf("comment = %+v", cs)
	}

	gesture(e, portPos(e, "A"), portPos(e, "B"))
	e.KeyPress("l", ModCtrl)
	if g.LinkType() != route.Linear || g.Links()[0].Type != route.Linear {
		t.Errorf("link type = %v / %v", g.LinkType(), g.Links()[0].Type)
	}

	rec.reset()
	e.KeyPress("a", ModCtrl)
	if len(g.Selected()) != g.NodeCount()+g.LinkCount()+1+1 {
		t.Errorf("select all selected %d items", len(g.Selected()))
	}
	if !slices.Contains(rec.log, "selected B") {
		t.Errorf("select all events = %q", rec.log)
	}
}

func TestDoubleClickEditsText(t *testing.T) {
	g := graph.New("g", graph.Options{})
	var asked []string
	e := New(g, Options{Logger: quiet, CaptionEditor: func(cur string, multiline bool) (string, bool) {
		asked = append(asked, fmt.Sprintf("%s/%v", cur, multiline))
		return "edited", true
	}})

	c := g.AddComment("old", geom.Pt(500, 500))
	gr := g.NewGroup(geom.Pt(0, 0))

	if !e.DoubleClick(left(c.Rect().Center())) || c.Text != "edited" {
		t.Errorf("comment text = %q", c.Text)
	}
	if !e.DoubleClick(left(group.CaptionRect(g, gr.ID()).Center())) || gr.Caption != "edited" {
		t.Errorf("caption = %q", gr.Caption)
	}
	if e.DoubleClick(left(gr.Rect.Center())) {
		t.Error("double-click off the caption edited the group")
	}
	want := []string{"old/true", graph.DefaultGroupCaption + "/false"}
	if !reflect.DeepEqual(asked, want) {
		t.Errorf("editor asked %q, want %q", asked, want)
	}
}

func TestGroupSelectionStraightLink(t *testing.T) {
	e, _ := fixture(t)
	g := e.Graph()
	gesture(e, portPos(e, "A"), portPos(e, "B"))
	if g.LinkCount() != 1 {
		t.Fatalf("links = %d", g.LinkCount())
	}
	l := g.Links()[0]
	g.DeselectAll()
	l.Selected = true

	gr := e.GroupSelection()
	if !gr.Rect.Contains(l.Path().Start) || !gr.Rect.Contains(l.Path().End()) {
		t.Errorf("group %v does not enclose link %v -> %v", gr.Rect, l.Path().Start, l.Path().End())
	}
}

func TestGroupDragCarriesNodes(t *testing.T) {
	e, _ := fixture(t)
	g := e.Graph()
	gr := g.AddGroup("g", geom.R(-50, -50, 300, 600), g.Style().Group.Color)

	press := geom.Pt(-40, 400)
	e.PointerDown(left(press))
	if !gr.Selected {
		t.Error("group not selected")
	}
	e.PointerMove(left(press.Add(geom.Pt(5, 5))))
	e.PointerUp(left(press.Add(geom.Pt(5, 5))))

	if gr.Rect != geom.R(-45, -45, 300, 600) {
		t.Errorf("group rect = %v", gr.Rect)
	}
	if g.Node("A").Pos != geom.Pt(5, 5) || g.Node("C").Pos != geom.Pt(5, 305) {
		t.Errorf("contained nodes at %v, %v", g.Node("A").Pos, g.Node("C").Pos)
	}
	if g.Node("B").Pos != geom.Pt(400, 0) {
		t.Errorf("outside node moved to %v", g.Node("B").Pos)
	}
	if gr.Contained != nil {
		t.Error("containment kept after drag")
	}
}

func TestHoverHighlights(t *testing.T) {
	e, _ := fixture(t)
	a := e.Graph().Node("A")
	if !e.PointerMove(left(portPos(e, "A"))) || a.Hover.Hovered() != 0 {
		t.Errorf("hovered port = %d", a.Hover.Hovered())
	}
	if e.PointerMove(left(portPos(e, "A"))) {
		t.Error("unchanged hover reported a change")
	}
	e.PointerMove(left(geom.Pt(-500, -500)))
	if a.Hover.Hovered() != -1 {
		t.Errorf("hover not cleared: %d", a.Hover.Hovered())
	}
}

func TestOperations(t *testing.T) {
	e, _ := fixture(t)
	g := e.Graph()

	if r := New(graph.New("", graph.Options{}), Options{Logger: quiet}).ZoomToContent(); !r.IsEmpty() {
		t.Errorf("empty ZoomToContent = %v", r)
	}
	b := g.BoundingBox()
	want := b.Adjust(-0.3*b.W, -0.3*b.H, 0.3*b.W, 0.3*b.H)
	if got := e.ZoomToContent(); got != want {
		t.Errorf("ZoomToContent = %v, want %v", got, want)
	}

	e.ComputeStarted("A")
	if !g.Node("A").Computing {
		t.Error("ComputeStarted")
	}
	e.ComputeFinished("A")
	if g.Node("A").Computing {
		t.Error("ComputeFinished")
	}

	e.SetPinned("A", true)
	e.UnpinNodes()
	if g.Node("A").Pinned {
		t.Error("UnpinNodes")
	}

	h := g.Node("A").Bounds().H
	e.ResizeEmbedded("A", geom.Size{W: 50, H: 80})
	if g.Node("A").Bounds().H <= h {
		t.Error("ResizeEmbedded did not grow the node")
	}

	if !e.RemoveNode("B") || e.RemoveNode("B") || g.Pending() != 0 {
		t.Error("RemoveNode")
	}

	e.Clear()
	if g.NodeCount() != 0 {
		t.Errorf("Clear left %d nodes", g.NodeCount())
	}
}

func TestInventory(t *testing.T) {
	inv := NewInventory()
	inv.Add("Noise", "Primitive/Coherent")
	inv.Add("Add", "Math")
	inv.Add("Cos", "Math/Trig")
	inv.Add("Abs", "Math")
	inv.Add("Cloud", "Primitive/Coherent")

	var flatten func(items []*MenuItem, depth int) []string
	flatten = func(items []*MenuItem, depth int) []string {
		var out []string
		for _, it := range items {
			prefix := fmt.Sprintf("%*s", 2*depth, "")
			if it.Type == "" {
				out = append(out, prefix+it.Label+"/")
				out = append(out, flatten(it.Items, depth+1)...)
			} else {
				out = append(out, prefix+it.Label)
			}
		}
		return out
	}
	want := []string{
		"Math/",
		"  Abs",
		"  Add",
		"  Trig/",
		"    Cos",
		"Primitive/",
		"  Coherent/",
		"    Cloud",
		"    Noise",
	}
	if got := flatten(inv.Menu(), 0); !reflect.DeepEqual(got, want) {
		t.Errorf("Menu =\n%q\nwant\n%q", got, want)
	}

	if got := inv.Filter("O"); !reflect.DeepEqual(got, []string{"Cloud", "Cos", "Noise"}) {
		t.Errorf("Filter(O) = %v", got)
	}
	if got := inv.Filter(" "); len(got) != inv.Len() {
		t.Errorf("Filter(blank) = %v", got)
	}

	rec := &recorder{}
	e := New(graph.New("", graph.Options{}), Options{Events: rec, Logger: quiet, Inventory: inv})
	if !e.RequestNode("Cos", geom.Pt(1, 1)) || e.RequestNode("Sin", geom.Pt(1, 1)) {
		t.Error("RequestNode")
	}
	if !reflect.DeepEqual(rec.log, []string{"new Cos"}) {
		t.Errorf("events = %q", rec.log)
	}
}
