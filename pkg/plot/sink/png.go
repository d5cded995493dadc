package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background canvas.Color
	rsvg       bool
	svgOpts    []SVGOption
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the image with c. The default is transparent.
func WithPNGBackground(c canvas.Color) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// WithRSVG rasterises through rsvg-convert instead of the built-in renderer.
func WithRSVG(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.rsvg = true; r.svgOpts = opts }
}

// RenderPNG rasterises a target. Bars are drawn at their final geometry.
func RenderPNG(ctx context.Context, t *canvas.Target, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}

	if r.rsvg {
		svgOpts := append([]SVGOption{WithFinalState(), WithBackground(r.background)}, r.svgOpts...)
		return render.ToPNG(ctx, RenderSVG(t, svgOpts...), r.scale)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := r.rasterize(t)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// rasterContext holds the destination image and the faces used so far.
type rasterContext struct {
	img   *image.NRGBA
	scale float64
	fnt   *opentype.Font
	faces map[float64]font.Face
}

func (r pngRenderer) rasterize(t *canvas.Target) (*image.NRGBA, error) {
	fnt, err := goRegular()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}

	w := int(math.Ceil(t.Width * r.scale))
	h := int(math.Ceil(t.Height * r.scale))
	ctx := &rasterContext{
		img:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		scale: r.scale,
		fnt:   fnt,
		faces: make(map[float64]font.Face),
	}
	if !r.background.IsZero() {
		draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(r.background.RGBA(1)), image.Point{}, draw.Src)
	}

	var drawErr error
	t.Walk(func(s canvas.Shape, tx, ty, opacity float64) {
		opacity *= s.Opacity
		if opacity <= 0 || drawErr != nil {
			return
		}
		switch s.Kind {
		case canvas.KindRect:
			ctx.drawRect(s, tx, ty, opacity)
		case canvas.KindLine:
			ctx.drawLine(s.X+tx, s.Y+ty, s.X2+tx, s.Y2+ty, s.Stroke.RGBA(opacity))
		case canvas.KindText:
			drawErr = ctx.drawText(s, tx, ty, opacity)
		}
	})
	return ctx.img, drawErr
}

func (ctx *rasterContext) drawRect(s canvas.Shape, tx, ty, opacity float64) {
	x, w := s.X, s.Width
	if s.Final != nil {
		x, w = s.Final.X, s.Final.Width
	}
	x0, y0 := x+tx, s.Y+ty
	x1, y1 := x0+w, y0+s.Height

	if !s.Fill.IsZero() {
		ctx.fill(x0, y0, x1, y1, s.Fill.RGBA(opacity))
	}
	if !s.Stroke.IsZero() && w > 0 {
		c := s.Stroke.RGBA(opacity)
		ctx.drawLine(x0, y0, x1, y0, c)
		ctx.drawLine(x1, y0, x1, y1, c)
		ctx.drawLine(x1, y1, x0, y1, c)
		ctx.drawLine(x0, y1, x0, y0, c)
	}
}

// fill blends a rectangle given in user units.
func (ctx *rasterContext) fill(x0, y0, x1, y1 float64, c color.NRGBA) {
	rect := image.Rect(
		int(math.Round(x0*ctx.scale)), int(math.Round(y0*ctx.scale)),
		int(math.Round(x1*ctx.scale)), int(math.Round(y1*ctx.scale)),
	)
	draw.Draw(ctx.img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

// drawLine draws a one-unit wide line. Axis-aligned lines are filled as
// rectangles; others are stamped along their length.
func (ctx *rasterContext) drawLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	const half = 0.5
	switch {
	case y0 == y1:
		ctx.fill(math.Min(x0, x1)-half, y0-half, math.Max(x0, x1)+half, y0+half, c)
	case x0 == x1:
		ctx.fill(x0-half, math.Min(y0, y1)-half, x0+half, math.Max(y0, y1)+half, c)
	default:
		length := math.Hypot(x1-x0, y1-y0) * ctx.scale
		src := image.NewUniform(c)
		for i := 0.0; i <= length; i++ {
			f := i / length
			px := int(math.Round((x0 + (x1-x0)*f) * ctx.scale))
			py := int(math.Round((y0 + (y1-y0)*f) * ctx.scale))
			draw.Draw(ctx.img, image.Rect(px, py, px+1, py+1), src, image.Point{}, draw.Over)
		}
	}
}

func (ctx *rasterContext) drawText(s canvas.Shape, tx, ty, opacity float64) error {
	face, err := ctx.face(s.FontSize)
	if err != nil {
		return err
	}

	x := (s.X + s.DX + tx) * ctx.scale
	y := (s.Y + s.DY + ty) * ctx.scale
	width := float64(font.MeasureString(face, s.Text)) / 64
	switch s.Anchor {
	case canvas.AnchorMiddle:
		x -= width / 2
	case canvas.AnchorEnd:
		x -= width
	}

	fill := s.Fill
	if fill.IsZero() {
		fill = canvas.Black
	}
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(fill.RGBA(opacity)),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s.Text)
	return nil
}

// face returns a Go Regular face for a size in points. Points are converted
// at 96 DPI, as browsers do, then scaled.
func (ctx *rasterContext) face(pt float64) (font.Face, error) {
	if pt <= 0 {
		pt = 12
	}
	if f, ok := ctx.faces[pt]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(ctx.fnt, &opentype.FaceOptions{
		Size:    pt,
		DPI:     96 * ctx.scale,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "font face %vpt", pt)
	}
	ctx.faces[pt] = f
	return f, nil
}
