package canvas

import (
	"testing"

	"github.com/matzehuels/peerplot/pkg/errors"
)

func TestPageTargets(t *testing.T) {
	p := NewPage()
	a := p.AddTarget("matrix-1", 100, 100)
	if again := p.AddTarget("matrix-1", 5, 5); again != a {
		t.Error("AddTarget should return the existing target")
	}
	if a.Width != 100 || a.Height != 100 {
		t.Errorf("target size = %vx%v, want 100x100", a.Width, a.Height)
	}

	p.AddTarget("first-frequency-1", 160, 80)
	ids := []string{}
	for _, tg := range p.Targets() {
		ids = append(ids, tg.ID)
	}
	if len(ids) != 2 || ids[0] != "first-frequency-1" || ids[1] != "matrix-1" {
		t.Errorf("Targets() = %v, want sorted ids", ids)
	}

	if _, err := p.Target("nope"); !errors.Is(err, errors.ErrCodeTargetNotFound) {
		t.Errorf("Target(nope) error = %v, want TARGET_NOT_FOUND", err)
	}
	if _, err := p.Text("nope"); !errors.Is(err, errors.ErrCodeTargetNotFound) {
		t.Errorf("Text(nope) error = %v, want TARGET_NOT_FOUND", err)
	}
}

func TestTargetAppendDuplicatesAndClear(t *testing.T) {
	tg := &Target{ID: "t", Width: 10, Height: 10}
	g := NewGroup().Add(Rect(0, 0, 5, 5, Gray), Text(1, 1, "x"))

	tg.Append(g)
	tg.Append(g)
	if got := tg.Len(); got != 4 {
		t.Errorf("Len() after two appends = %d, want 4", got)
	}

	tg.Clear()
	if got := tg.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}

func TestGroupWalkAccumulates(t *testing.T) {
	child := NewGroup()
	child.TranslateX = 5
	child.Opacity = 0.5
	child.Add(Rect(1, 2, 3, 4, Gray))

	parent := NewGroup()
	parent.TranslateX = 30
	parent.TranslateY = 10
	parent.Add(Text(0, 0, "a"))
	parent.AddGroup(child)

	type visit struct {
		kind       Kind
		tx, ty, op float64
	}
	var got []visit
	parent.Walk(func(s Shape, tx, ty, op float64) {
		got = append(got, visit{s.Kind, tx, ty, op})
	})

	want := []visit{
		{KindText, 30, 10, 1},
		{KindRect, 35, 10, 0.5},
	}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %d shapes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if parent.Count() != 2 {
		t.Errorf("Count() = %d, want 2", parent.Count())
	}
}

func TestPageClear(t *testing.T) {
	p := NewPage()
	tg := p.AddTarget("m", 10, 10)
	tg.Append(NewGroup().Add(Rect(0, 0, 1, 1, White)))
	n := p.AddText("rating-1")
	n.Text = "Easy"
	n.Color = RGB(1, 2, 3)

	p.Clear()
	if tg.Len() != 0 {
		t.Error("Clear should empty targets")
	}
	if n.Text != "" || !n.Color.IsZero() {
		t.Error("Clear should reset text nodes")
	}
}

func TestColor(t *testing.T) {
	if got := RGB(30, 142, 62).String(); got != "rgb(30, 142, 62)" {
		t.Errorf("String() = %q", got)
	}
	if got := White.String(); got != "white" {
		t.Errorf("White.String() = %q", got)
	}
	c := RGB(10, 20, 30).RGBA(0.5)
	if c.A != 128 || c.R != 10 {
		t.Errorf("RGBA(0.5) = %+v", c)
	}
	if RGB(1, 1, 1).RGBA(2).A != 255 {
		t.Error("RGBA should clamp opacity to 1")
	}
}
