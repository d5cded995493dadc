package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/peerplot/pkg/canvas"
)

const barTransitionJS = `
    function peerplotAnimate(root, ms) {
      const bars = Array.from(root.querySelectorAll('rect[data-final-width]'));
      const from = bars.map(b => [+b.getAttribute('x'), +b.getAttribute('width')]);
      const start = performance.now();
      function step(now) {
        const t = Math.min(1, (now - start) / ms), e = t * (2 - t);
        bars.forEach((b, i) => {
          b.setAttribute('x', from[i][0] + (+b.getAttribute('data-final-x') - from[i][0]) * e);
          b.setAttribute('width', from[i][1] + (+b.getAttribute('data-final-width') - from[i][1]) * e);
        });
        if (t < 1) requestAnimationFrame(step);
      }
      requestAnimationFrame(step);
    }`

// DefaultDuration is the bar transition length in milliseconds.
const DefaultDuration = 750

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	animate    bool
	duration   int
	background canvas.Color
	final      bool
}

// WithAnimation embeds a script that grows bars from their initial to their
// final geometry when the document loads.
func WithAnimation() SVGOption { return func(r *svgRenderer) { r.animate = true } }

// WithDuration sets the transition length in milliseconds.
func WithDuration(ms int) SVGOption { return func(r *svgRenderer) { r.duration = ms } }

// WithBackground fills the target with c before drawing.
func WithBackground(c canvas.Color) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithFinalState draws bars at their final geometry. Static exports use it.
func WithFinalState() SVGOption { return func(r *svgRenderer) { r.final = true } }

// RenderSVG serializes one target as a standalone SVG document.
//
// Animated bars are written at their initial geometry and carry their end
// state in data-final-x and data-final-width attributes, unless
// [WithFinalState] is given.
func RenderSVG(t *canvas.Target, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		escapeXML(t.ID), num(t.Width), num(t.Height), num(t.Width), num(t.Height))
	r.renderBody(&buf, t)
	if r.animate {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n    peerplotAnimate(document.documentElement, %d);\n  ]]></script>\n",
			barTransitionJS, r.duration)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{duration: DefaultDuration}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderBody writes the target's content without the enclosing <svg>.
func (r svgRenderer) renderBody(buf *bytes.Buffer, t *canvas.Target) {
	if !r.background.IsZero() {
		fmt.Fprintf(buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	for _, g := range t.Groups {
		r.renderGroup(buf, g, 1)
	}
}

func (r svgRenderer) renderGroup(buf *bytes.Buffer, g canvas.Group, depth int) {
	indent := indentOf(depth)
	buf.WriteString(indent + "<g")
	if g.Class != "" {
		fmt.Fprintf(buf, ` class="%s"`, escapeXML(g.Class))
	}
	if g.TranslateX != 0 || g.TranslateY != 0 {
		fmt.Fprintf(buf, ` transform="translate(%s,%s)"`, num(g.TranslateX), num(g.TranslateY))
	}
	if g.Opacity != 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(g.Opacity))
	}
	buf.WriteString(">\n")

	for _, s := range g.Shapes {
		buf.WriteString(indentOf(depth + 1))
		r.renderShape(buf, s)
		buf.WriteByte('\n')
	}
	for _, c := range g.Groups {
		r.renderGroup(buf, c, depth+1)
	}
	buf.WriteString(indent + "</g>\n")
}

func (r svgRenderer) renderShape(buf *bytes.Buffer, s canvas.Shape) {
	switch s.Kind {
	case canvas.KindRect:
		x, w := s.X, s.Width
		if r.final && s.Final != nil {
			x, w = s.Final.X, s.Final.Width
		}
		buf.WriteString("<rect")
		writeCommon(buf, s)
		fmt.Fprintf(buf, ` x="%s" y="%s" width="%s" height="%s"`, num(x), num(s.Y), num(w), num(s.Height))
		writePaint(buf, s)
		if s.Final != nil && !r.final {
			fmt.Fprintf(buf, ` data-final-x="%s" data-final-width="%s"`, num(s.Final.X), num(s.Final.Width))
		}
		buf.WriteString("/>")

	case canvas.KindText:
		buf.WriteString("<text")
		writeCommon(buf, s)
		fmt.Fprintf(buf, ` x="%s" y="%s"`, num(s.X), num(s.Y))
		if s.DX != 0 {
			fmt.Fprintf(buf, ` dx="%s"`, num(s.DX))
		}
		if s.DY != 0 {
			fmt.Fprintf(buf, ` dy="%s"`, num(s.DY))
		}
		if s.FontSize > 0 {
			fmt.Fprintf(buf, ` font-size="%spt"`, num(s.FontSize))
		}
		if s.Anchor != "" && s.Anchor != canvas.AnchorStart {
			fmt.Fprintf(buf, ` text-anchor="%s"`, s.Anchor)
		}
		writePaint(buf, s)
		fmt.Fprintf(buf, ">%s</text>", escapeXML(s.Text))

	case canvas.KindLine:
		buf.WriteString("<line")
		writeCommon(buf, s)
		fmt.Fprintf(buf, ` x1="%s" y1="%s" x2="%s" y2="%s"`, num(s.X), num(s.Y), num(s.X2), num(s.Y2))
		writePaint(buf, s)
		buf.WriteString("/>")
	}
}

func writeCommon(buf *bytes.Buffer, s canvas.Shape) {
	if s.ID != "" {
		fmt.Fprintf(buf, ` id="%s"`, escapeXML(s.ID))
	}
	if s.Class != "" {
		fmt.Fprintf(buf, ` class="%s"`, escapeXML(s.Class))
	}
}

func writePaint(buf *bytes.Buffer, s canvas.Shape) {
	if !s.Fill.IsZero() {
		fmt.Fprintf(buf, ` fill="%s"`, s.Fill)
	} else if s.Kind != canvas.KindLine {
		buf.WriteString(` fill="none"`)
	}
	if !s.Stroke.IsZero() {
		fmt.Fprintf(buf, ` stroke="%s"`, s.Stroke)
	}
	if s.Opacity != 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(s.Opacity))
	}
}

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func indentOf(depth int) string { return strings.Repeat("  ", depth) }
