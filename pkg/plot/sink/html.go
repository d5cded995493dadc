package sink

import (
	"bytes"
	"cmp"
	"html/template"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/stats"
)

const reportCSS = `
    body { font-family: Roboto, Helvetica, Arial, sans-serif; margin: 2rem; color: #333; }
    .question { display: flex; align-items: center; gap: 1.5rem; padding: 1rem 0; border-bottom: 1px solid #eee; }
    .question h2 { font-size: 1rem; width: 14rem; margin: 0; }
    .stats { font-weight: bold; width: 5rem; }
    .charts { display: flex; gap: 0.5rem; }
    .charts svg { overflow: visible; }`

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>` + reportCSS + `
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- range .Questions}}
  <section class="question" id="question-{{.ID}}">
    <h2>{{.Heading}}</h2>
    <div class="stats" id="{{.StatsID}}"{{if .Color}} style="color: {{.Color}}"{{end}}><span id="{{.RatingID}}">{{.Rating}}</span></div>
    <div class="charts">
      {{.Matrix}}
      {{.First}}
      {{.Second}}
    </div>
  </section>
{{- end}}
{{- if .Animate}}
  <script>` + barTransitionJS + `
    window.addEventListener('load', () => peerplotAnimate(document, {{.Duration}}));
  </script>
{{- end}}
</body>
</html>
`))

// HTMLOption configures the report page.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title    string
	animate  bool
	duration int
}

// WithTitle sets the page title.
func WithTitle(s string) HTMLOption { return func(r *htmlRenderer) { r.title = s } }

// WithoutAnimation shows bars at their final geometry with no script.
func WithoutAnimation() HTMLOption { return func(r *htmlRenderer) { r.animate = false } }

// WithHTMLDuration sets the bar transition length in milliseconds.
func WithHTMLDuration(ms int) HTMLOption { return func(r *htmlRenderer) { r.duration = ms } }

type reportPage struct {
	Title     string
	Animate   bool
	Duration  int
	Questions []reportQuestion
}

type reportQuestion struct {
	ID       string
	Heading  string
	StatsID  string
	RatingID string
	Rating   string
	Color    template.CSS
	Matrix   template.HTML
	First    template.HTML
	Second   template.HTML
}

// RenderHTML lays out every question of the page as a report: a heading,
// the rating in its category colour, the quadrant and both bar tracks.
// Bars animate from their initial to their final geometry on load.
func RenderHTML(p *canvas.Page, questions []stats.Question, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "Question statistics", animate: true, duration: DefaultDuration}
	for _, opt := range opts {
		opt(&r)
	}

	var svgOpts []SVGOption
	if !r.animate {
		svgOpts = append(svgOpts, WithFinalState())
	}

	data := reportPage{Title: r.title, Animate: r.animate, Duration: r.duration}
	for _, q := range questions {
		rq := reportQuestion{
			ID:       q.ID,
			Heading:  cmp.Or(q.Title, q.ID),
			StatsID:  stats.StatsNodeID(q.ID),
			RatingID: stats.RatingNodeID(q.ID),
		}
		if n, err := p.Text(rq.RatingID); err == nil {
			rq.Rating = n.Text
		}
		if n, err := p.Text(rq.StatsID); err == nil && !n.Color.IsZero() {
			rq.Color = template.CSS(n.Color.String())
		}

		var err error
		if rq.Matrix, err = inlineSVG(p, stats.MatrixTargetID(q.ID), svgOpts); err != nil {
			return nil, err
		}
		if rq.First, err = inlineSVG(p, stats.FirstFrequencyTargetID(q.ID), svgOpts); err != nil {
			return nil, err
		}
		if rq.Second, err = inlineSVG(p, stats.SecondFrequencyTargetID(q.ID), svgOpts); err != nil {
			return nil, err
		}
		data.Questions = append(data.Questions, rq)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render report")
	}
	return buf.Bytes(), nil
}

func inlineSVG(p *canvas.Page, id string, opts []SVGOption) (template.HTML, error) {
	t, err := p.Target(id)
	if err != nil {
		return "", err
	}
	return template.HTML(RenderSVG(t, opts...)), nil
}
