package canvas

// Kind identifies the primitive a Shape draws.
type Kind string

const (
	KindRect Kind = "rect"
	KindText Kind = "text"
	KindLine Kind = "line"
)

// Anchor is the horizontal text anchor.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Geometry is the animatable part of a bar.
type Geometry struct {
	X     float64
	Width float64
}

// Shape is a single draw command. Coordinates are relative to the
// enclosing Group's translation.
type Shape struct {
	Kind  Kind
	ID    string
	Class string

	X      float64
	Y      float64
	Width  float64
	Height float64
	X2     float64 // line end
	Y2     float64 // line end
	DX     float64
	DY     float64

	Fill    Color
	Stroke  Color
	Opacity float64

	Text     string
	FontSize float64 // points
	Anchor   Anchor

	Initial *Geometry
	Final   *Geometry
}

// Animated reports whether the shape carries a final geometry.
func (s Shape) Animated() bool { return s.Final != nil }

// Rect returns an opaque rectangle.
func Rect(x, y, w, h float64, fill Color) Shape {
	return Shape{Kind: KindRect, X: x, Y: y, Width: w, Height: h, Fill: fill, Opacity: 1}
}

// Text returns an opaque text shape anchored at start.
func Text(x, y float64, text string) Shape {
	return Shape{Kind: KindText, X: x, Y: y, Text: text, Opacity: 1, Anchor: AnchorStart, Fill: Black}
}

// Line returns an opaque line from (x1,y1) to (x2,y2).
func Line(x1, y1, x2, y2 float64, stroke Color) Shape {
	return Shape{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: stroke, Opacity: 1}
}

// Group is an ordered list of shapes sharing a translation and opacity.
type Group struct {
	Class      string
	TranslateX float64
	TranslateY float64
	Opacity    float64
	Shapes     []Shape
	Groups     []Group
}

// NewGroup returns an opaque, untranslated group.
func NewGroup() *Group { return &Group{Opacity: 1} }

// Add appends shapes to the group.
func (g *Group) Add(shapes ...Shape) *Group {
	g.Shapes = append(g.Shapes, shapes...)
	return g
}

// AddGroup appends a child group. Children are drawn after the
// group's own shapes.
func (g *Group) AddGroup(child *Group) *Group {
	g.Groups = append(g.Groups, *child)
	return g
}

// Visible reports whether the group contributes any pixels.
func (g Group) Visible() bool { return g.Opacity > 0 }

// Count returns the number of shapes in g and all of its descendants.
func (g Group) Count() int {
	n := len(g.Shapes)
	for _, c := range g.Groups {
		n += c.Count()
	}
	return n
}

// Walk calls fn for every shape in draw order with the accumulated
// translation and opacity of its ancestors.
func (g Group) Walk(fn func(s Shape, tx, ty, opacity float64)) {
	g.walk(0, 0, 1, fn)
}

func (g Group) walk(tx, ty, opacity float64, fn func(Shape, float64, float64, float64)) {
	tx += g.TranslateX
	ty += g.TranslateY
	opacity *= g.Opacity
	for _, s := range g.Shapes {
		fn(s, tx, ty, opacity)
	}
	for _, c := range g.Groups {
		c.walk(tx, ty, opacity, fn)
	}
}
