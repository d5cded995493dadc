package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// memCache is a goroutine-safe in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func question(id string) stats.Question {
	return stats.Question{
		ID:     id,
		Matrix: stats.ConfidenceMatrix{Easy: 0.1, Hard: 0.8, Tricky: 0.3, Peer: 0.2},
		Freq: stats.Frequencies{
			FirstChoice:  stats.FrequencyTable{"a": 1, "b": 1, "c": 2},
			SecondChoice: stats.FrequencyTable{"a": 1, "c": 1},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"html", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MatrixSize != 100 || opts.FrequencyWidth != 160 || opts.FrequencyHeight != 80 {
		t.Errorf("sizes = %v/%v/%v", opts.MatrixSize, opts.FrequencyWidth, opts.FrequencyHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", opts.Concurrency, DefaultConcurrency)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"narrow frequency track", Options{FrequencyWidth: 20}, true},
		{"negative matrix", Options{MatrixSize: -1}, true},
		{"negative scale", Options{Scale: -2}, true},
		{"bad format", Options{Formats: []string{"gif"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Scale
	opts.Scale = 3
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Scale != 3 || first != DefaultScale {
		t.Errorf("second call changed options: scale %v (first %v)", opts.Scale, first)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Animate: true}
	opts.SetDefaults()

	png := opts.ArtifactKeyOpts("matrix", 100, 100, FormatPNG)
	if png.Scale != 3 || png.Animate || png.RSVG {
		t.Errorf("png key opts = %+v", png)
	}
	rsvg := opts
	rsvg.RSVG = true
	if k := rsvg.ArtifactKeyOpts("matrix", 100, 100, FormatPNG); !k.RSVG {
		t.Errorf("rsvg png key opts = %+v", k)
	}
	if k := rsvg.ArtifactKeyOpts("matrix", 100, 100, FormatSVG); k.RSVG {
		t.Errorf("svg key should ignore the rasteriser: %+v", k)
	}
	keyer := cache.NewDefaultKeyer()
	if keyer.ArtifactKey("h", png) == keyer.ArtifactKey("h", rsvg.ArtifactKeyOpts("matrix", 100, 100, FormatPNG)) {
		t.Error("rasteriser choice should change the PNG cache key")
	}
	svg := opts.ArtifactKeyOpts("matrix", 100, 100, FormatSVG)
	if svg.Scale != 0 || !svg.Animate {
		t.Errorf("svg key opts = %+v", svg)
	}
	js := opts.ArtifactKeyOpts("matrix", 100, 100, FormatJSON)
	if js.Scale != 0 || js.Animate {
		t.Errorf("json key opts = %+v", js)
	}
}

func TestTargetIDs(t *testing.T) {
	got := TargetIDs("7")
	want := []string{"matrix-7", "first-frequency-7", "second-frequency-7"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("TargetIDs = %v, want %v", got, want)
	}
	if targetKind(got[1], "7") != "first-frequency" {
		t.Errorf("targetKind = %q", targetKind(got[1], "7"))
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), []stats.Question{question("1"), question("2")}, Options{
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(res.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", res.RunID, err)
	}
	if len(res.Questions) != 2 || res.Stats.Rendered != 2 {
		t.Fatalf("rendered %d of %d", res.Stats.Rendered, len(res.Questions))
	}
	for i, qr := range res.Questions {
		if want := []string{"1", "2"}[i]; qr.ID != want {
			t.Errorf("Questions[%d].ID = %q, want %q (input order)", i, qr.ID, want)
		}
		if len(qr.Artifacts) != 6 {
			t.Errorf("%s: %d artifacts, want 6", qr.ID, len(qr.Artifacts))
		}
		if qr.Classification.Category != stats.Hard {
			t.Errorf("%s: category = %q, want hard", qr.ID, qr.Classification.Category)
		}
		svg := string(qr.Artifacts[ArtifactName("first-frequency-"+qr.ID, FormatSVG)])
		if !strings.Contains(svg, `id="first_choice-`+qr.ID+`"`) {
			t.Errorf("%s: first frequency svg has no bars", qr.ID)
		}
	}
	if res.CacheInfo.Misses != 2 || res.CacheInfo.Hits != 0 {
		t.Errorf("CacheInfo = %+v", res.CacheInfo)
	}
}

func TestExecuteCaching(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	qs := []stats.Question{question("1")}
	ctx := context.Background()

	first, err := r.Execute(ctx, qs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if c.sets != 3 {
		t.Errorf("cache sets = %d, want 3", c.sets)
	}

	second, err := r.Execute(ctx, qs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Questions[0].CacheHit || second.CacheInfo.Hits != 1 {
		t.Errorf("second run CacheInfo = %+v", second.CacheInfo)
	}
	name := ArtifactName("matrix-1", FormatSVG)
	if string(first.Questions[0].Artifacts[name]) != string(second.Questions[0].Artifacts[name]) {
		t.Error("cached artifact differs from rendered one")
	}

	refreshed, err := r.Execute(ctx, qs, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.Questions[0].CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	// A different size is a different artifact.
	resized, err := r.Execute(ctx, qs, Options{MatrixSize: 120})
	if err != nil {
		t.Fatal(err)
	}
	if resized.Questions[0].CacheHit {
		t.Error("resized run should miss")
	}
}

func TestExecuteNoData(t *testing.T) {
	q := question("1")
	q.Freq = stats.Frequencies{FirstChoice: stats.FrequencyTable{"a": 0}}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), []stats.Question{q}, Options{})
	if err != nil {
		t.Fatalf("no-data question should not fail the run: %v", err)
	}
	qr := res.Questions[0]
	if !qr.NoData || res.Stats.NoData != 1 || res.Stats.Rendered != 1 {
		t.Errorf("NoData = %v, Stats = %+v", qr.NoData, res.Stats)
	}
	if len(qr.Artifacts) != 3 {
		t.Errorf("artifacts = %d, want 3", len(qr.Artifacts))
	}
	if strings.Contains(string(qr.Artifacts["first-frequency-1.svg"]), "first_choice-1") {
		t.Error("bars drawn without data")
	}
}

func TestExecuteContinuesPastInvalidQuestion(t *testing.T) {
	bad := question("bad")
	bad.Matrix.Easy = 2

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(),
		[]stats.Question{bad, question("good")}, Options{})
	if err == nil {
		t.Fatal("expected an error for the invalid matrix")
	}
	if res == nil {
		t.Fatal("result should be returned with the error")
	}
	if res.Stats.Failed != 1 || res.Stats.Rendered != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Questions[0].OK() || !res.Questions[1].OK() {
		t.Errorf("OK = %v, %v", res.Questions[0].OK(), res.Questions[1].OK())
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, nil).Execute(ctx, []stats.Question{question("1")}, Options{}); err == nil {
		t.Error("expected context error")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), nil, Options{Formats: []string{"bmp"}})
	if err == nil || !strings.Contains(err.Error(), "invalid options") {
		t.Errorf("err = %v", err)
	}
}

func TestReport(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	empty := question("3")
	empty.Freq = stats.Frequencies{FirstChoice: stats.FrequencyTable{}}
	qs := []stats.Question{question("1"), empty}

	html, err := r.Report(context.Background(), qs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`id="rating-1"`, `id="matrix-3"`, "Hard", "peerplotAnimate"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("report missing %q", want)
		}
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	again, err := r.Report(context.Background(), qs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(html) || c.sets != 1 {
		t.Error("second report should come from cache")
	}
}

func TestReportKeepsValidQuestions(t *testing.T) {
	bad := question("2")
	bad.Matrix.Peer = 1.5
	qs := []stats.Question{question("1"), bad, question("3")}

	html, err := NewRunner(nil, nil, nil).Report(context.Background(), qs, Options{})
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	for _, want := range []string{`id="matrix-1"`, `id="matrix-3"`} {
		if !strings.Contains(string(html), want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(string(html), `id="matrix-2"`) {
		t.Error("report should leave out the invalid question")
	}
}

func TestReportRepeatedID(t *testing.T) {
	repeat := question("1")
	repeat.Matrix = stats.ConfidenceMatrix{Easy: 0.9}
	qs := []stats.Question{question("1"), repeat}

	html, err := NewRunner(nil, nil, nil).Report(context.Background(), qs, Options{})
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	if n := strings.Count(string(html), `id="matrix-1"`); n != 1 {
		t.Errorf("matrix-1 appears %d times, want 1", n)
	}
	if !strings.Contains(string(html), `<span id="rating-1">Hard</span>`) {
		t.Error("the first question's rating should win")
	}
}
