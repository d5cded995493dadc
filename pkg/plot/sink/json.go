package sink

import (
	"encoding/json"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	questions []stats.Question
	runID     string
}

// WithJSONQuestions embeds the source statistics next to the drawing.
func WithJSONQuestions(qs ...stats.Question) JSONOption {
	return func(r *jsonRenderer) { r.questions = qs }
}

// WithJSONRunID records the render run that produced the document.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

type jsonOutput struct {
	RunID     string           `json:"run_id,omitempty"`
	Targets   []jsonTarget     `json:"targets"`
	Texts     []jsonText       `json:"texts,omitempty"`
	Questions []stats.Question `json:"questions,omitempty"`
}

type jsonTarget struct {
	ID     string      `json:"id"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Groups []jsonGroup `json:"groups"`
}

type jsonGroup struct {
	Class     string      `json:"class,omitempty"`
	Translate [2]float64  `json:"translate"`
	Opacity   float64     `json:"opacity"`
	Shapes    []jsonShape `json:"shapes,omitempty"`
	Groups    []jsonGroup `json:"groups,omitempty"`
}

type jsonShape struct {
	Kind     string        `json:"kind"`
	ID       string        `json:"id,omitempty"`
	Class    string        `json:"class,omitempty"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width,omitempty"`
	Height   float64       `json:"height,omitempty"`
	X2       float64       `json:"x2,omitempty"`
	Y2       float64       `json:"y2,omitempty"`
	DX       float64       `json:"dx,omitempty"`
	DY       float64       `json:"dy,omitempty"`
	Fill     string        `json:"fill,omitempty"`
	Stroke   string        `json:"stroke,omitempty"`
	Opacity  float64       `json:"opacity"`
	Text     string        `json:"text,omitempty"`
	FontSize float64       `json:"font_size,omitempty"`
	Anchor   string        `json:"anchor,omitempty"`
	Initial  *jsonGeometry `json:"initial,omitempty"`
	Final    *jsonGeometry `json:"final,omitempty"`
}

type jsonGeometry struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

type jsonText struct {
	ID    string `json:"id"`
	Text  string `json:"text,omitempty"`
	Color string `json:"color,omitempty"`
}

// RenderJSON exports the draw commands of every target on the page, plus
// the text nodes, as a pretty-printed JSON document. Animated bars carry
// their initial and final geometry so an external driver can tween them.
func RenderJSON(p *canvas.Page, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		RunID:     r.runID,
		Questions: r.questions,
	}
	for _, t := range p.Targets() {
		out.Targets = append(out.Targets, buildJSONTarget(t))
	}
	for _, n := range p.Texts() {
		jt := jsonText{ID: n.ID, Text: n.Text}
		if !n.Color.IsZero() {
			jt.Color = n.Color.String()
		}
		out.Texts = append(out.Texts, jt)
	}
	return json.MarshalIndent(out, "", "  ")
}

// RenderTargetJSON exports a single target.
func RenderTargetJSON(t *canvas.Target) ([]byte, error) {
	return json.MarshalIndent(buildJSONTarget(t), "", "  ")
}

func buildJSONTarget(t *canvas.Target) jsonTarget {
	jt := jsonTarget{ID: t.ID, Width: t.Width, Height: t.Height, Groups: []jsonGroup{}}
	for _, g := range t.Groups {
		jt.Groups = append(jt.Groups, buildJSONGroup(g))
	}
	return jt
}

func buildJSONGroup(g canvas.Group) jsonGroup {
	jg := jsonGroup{
		Class:     g.Class,
		Translate: [2]float64{g.TranslateX, g.TranslateY},
		Opacity:   g.Opacity,
	}
	for _, s := range g.Shapes {
		jg.Shapes = append(jg.Shapes, buildJSONShape(s))
	}
	for _, c := range g.Groups {
		jg.Groups = append(jg.Groups, buildJSONGroup(c))
	}
	return jg
}

func buildJSONShape(s canvas.Shape) jsonShape {
	js := jsonShape{
		Kind: string(s.Kind), ID: s.ID, Class: s.Class,
		X: s.X, Y: s.Y, Width: s.Width, Height: s.Height,
		X2: s.X2, Y2: s.Y2, DX: s.DX, DY: s.DY,
		Opacity:  s.Opacity,
		Text:     s.Text,
		FontSize: s.FontSize,
	}
	if !s.Fill.IsZero() {
		js.Fill = s.Fill.String()
	}
	if !s.Stroke.IsZero() {
		js.Stroke = s.Stroke.String()
	}
	if s.Kind == canvas.KindText {
		js.Anchor = string(s.Anchor)
	}
	if s.Initial != nil {
		js.Initial = &jsonGeometry{X: s.Initial.X, Width: s.Initial.Width}
	}
	if s.Final != nil {
		js.Final = &jsonGeometry{X: s.Final.X, Width: s.Final.Width}
	}
	return js
}
