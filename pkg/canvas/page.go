package canvas

import (
	"cmp"
	"slices"

	"github.com/matzehuels/peerplot/pkg/errors"
)

// Target is a fixed-size container shapes are drawn into, one <svg>
// element of the report page.
type Target struct {
	ID     string
	Width  float64
	Height float64
	Groups []Group
}

// Append adds a top-level group.
func (t *Target) Append(g *Group) {
	t.Groups = append(t.Groups, *g)
}

// Clear removes everything drawn so far.
func (t *Target) Clear() {
	t.Groups = nil
}

// Len returns the number of shapes drawn into the target.
func (t *Target) Len() int {
	n := 0
	for _, g := range t.Groups {
		n += g.Count()
	}
	return n
}

// Walk visits every shape of every group in draw order.
func (t *Target) Walk(fn func(s Shape, tx, ty, opacity float64)) {
	for _, g := range t.Groups {
		g.Walk(fn)
	}
}

// TextNode is a non-drawing element whose text or colour a renderer may set.
type TextNode struct {
	ID    string
	Text  string
	Color Color
}

// Page is the set of targets and text nodes renderers write to.
type Page struct {
	targets map[string]*Target
	texts   map[string]*TextNode
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{
		targets: make(map[string]*Target),
		texts:   make(map[string]*TextNode),
	}
}

// AddTarget registers a target. Registering an existing id returns the
// existing target unchanged.
func (p *Page) AddTarget(id string, width, height float64) *Target {
	if t, ok := p.targets[id]; ok {
		return t
	}
	t := &Target{ID: id, Width: width, Height: height}
	p.targets[id] = t
	return t
}

// AddText registers a text node.
func (p *Page) AddText(id string) *TextNode {
	if n, ok := p.texts[id]; ok {
		return n
	}
	n := &TextNode{ID: id}
	p.texts[id] = n
	return n
}

// Target returns the target registered under id.
func (p *Page) Target(id string) (*Target, error) {
	t, ok := p.targets[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeTargetNotFound, "no render target %q", id)
	}
	return t, nil
}

// Text returns the text node registered under id.
func (p *Page) Text(id string) (*TextNode, error) {
	n, ok := p.texts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeTargetNotFound, "no text node %q", id)
	}
	return n, nil
}

// Targets returns all targets sorted by id.
func (p *Page) Targets() []*Target {
	out := make([]*Target, 0, len(p.targets))
	for _, t := range p.targets {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Target) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Clear empties every target and resets every text node.
func (p *Page) Clear() {
	for _, t := range p.targets {
		t.Clear()
	}
	for _, n := range p.texts {
		n.Text = ""
		n.Color = Color{}
	}
}

// Texts returns all text nodes sorted by id.
func (p *Page) Texts() []*TextNode {
	out := make([]*TextNode, 0, len(p.texts))
	for _, n := range p.texts {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *TextNode) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
