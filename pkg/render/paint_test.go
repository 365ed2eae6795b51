package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/matzehuels/biotree/pkg/viewport"
)

type call struct {
	op    string
	p     viewport.Point
	r     float64
	text  string
	style Style
}

type recorder struct {
	canvas viewport.Size
	calls  []call
	endErr error
}

func (r *recorder) Begin(c viewport.Size) error { r.canvas = c; return nil }
func (r *recorder) Curve(p0, _, _, p3 viewport.Point, st Style) {
	r.calls = append(r.calls, call{op: "curve", p: p3, style: st})
}
func (r *recorder) Circle(c viewport.Point, rad float64, st Style) {
	r.calls = append(r.calls, call{op: "circle", p: c, r: rad, style: st})
}
func (r *recorder) Text(at viewport.Point, s string, st Style) {
	r.calls = append(r.calls, call{op: "text", p: at, text: s, style: st})
}
func (r *recorder) End() error { return r.endErr }

func testScene() Scene {
	return Scene{
		Canvas:    viewport.Size{W: 400, H: 300},
		Transform: viewport.Transform{X: 10, Y: 20, K: 2},
		Nodes: []Node{
			{Key: 1, Label: "root", Pos: viewport.Point{X: 0, Y: 50}, Opacity: 1, Focus: true},
			{Key: 2, Label: "a", Pos: viewport.Point{X: 100, Y: 40}, Opacity: 1, Collapsed: true},
			{Key: 3, Label: "", Pos: viewport.Point{X: 100, Y: 60}, Opacity: 0.5, Leaf: true},
		},
		Links: []Link{
			{Key: 2, Src: viewport.Point{X: 0, Y: 50}, Dst: viewport.Point{X: 100, Y: 40}, Opacity: 1},
			{Key: 3, Src: viewport.Point{X: 0, Y: 50}, Dst: viewport.Point{X: 100, Y: 60}, Opacity: 0.5},
		},
	}
}

func TestPaintOrder(t *testing.T) {
	rec := &recorder{}
	if err := Paint(rec, testScene(), DefaultTheme()); err != nil {
		t.Fatalf("Paint() error = %v", err)
	}

	var ops []string
	for _, c := range rec.calls {
		ops = append(ops, c.op)
	}
	want := []string{"curve", "curve", "circle", "circle", "circle", "text", "text"}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", ops, want)
		}
	}
	if rec.canvas != (viewport.Size{W: 400, H: 300}) {
		t.Errorf("canvas = %+v", rec.canvas)
	}
}

func TestPaintAppliesTransform(t *testing.T) {
	rec := &recorder{}
	th := DefaultTheme()
	_ = Paint(rec, testScene(), th)

	root := rec.calls[2]
	if root.p != (viewport.Point{X: 10, Y: 120}) {
		t.Errorf("root circle at %+v, want (10, 120)", root.p)
	}
	if root.r != th.NodeRadius*2 {
		t.Errorf("radius = %v, want %v", root.r, th.NodeRadius*2)
	}
	if root.style.Stroke != th.FocusStroke {
		t.Errorf("focus stroke = %v, want %v", root.style.Stroke, th.FocusStroke)
	}
	if a := rec.calls[3]; a.style.Fill != th.CollapsedFill {
		t.Errorf("collapsed fill = %v, want %v", a.style.Fill, th.CollapsedFill)
	}
	if label := rec.calls[5]; label.p.X <= root.p.X || label.text != "root" {
		t.Errorf("label %q at %+v, want right of marker", label.text, label.p)
	}
}

func TestPaintEndError(t *testing.T) {
	boom := errors.New("boom")
	if err := Paint(&recorder{endErr: boom}, Scene{}, DefaultTheme()); !errors.Is(err, boom) {
		t.Errorf("Paint() error = %v, want %v", err, boom)
	}
}

func TestWithOpacity(t *testing.T) {
	c := color.RGBA{10, 20, 30, 255}
	tests := []struct {
		o    float64
		want uint8
	}{
		{1, 255}, {0, 0}, {0.5, 128}, {2, 255}, {-1, 0},
	}
	for _, tt := range tests {
		if got := WithOpacity(c, tt.o); got.A != tt.want || got.R != 10 {
			t.Errorf("WithOpacity(%v) = %+v, want alpha %d", tt.o, got, tt.want)
		}
	}
}

func TestSceneFind(t *testing.T) {
	sc := testScene()
	if n, ok := sc.Find(2); !ok || n.Label != "a" {
		t.Errorf("Find(2) = %+v, %v", n, ok)
	}
	if _, ok := sc.Find(99); ok {
		t.Error("Find(99) found a node")
	}
}
