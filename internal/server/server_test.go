package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/stats"
)

type stubSource struct {
	questions []stats.Question
	err       error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) List(context.Context) ([]stats.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]stats.Question(nil), s.questions...), nil
}

func (s *stubSource) Get(_ context.Context, id string) (stats.Question, error) {
	if s.err != nil {
		return stats.Question{}, s.err
	}
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return stats.Question{}, errors.New(errors.ErrCodeNotFound, "question %q not found", id)
}

func (s *stubSource) Close(context.Context) error { return nil }

func testServer(t *testing.T, src *stubSource) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	ts := httptest.NewServer(New(src, runner, pipeline.Options{}, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func questions() []stats.Question {
	return []stats.Question{
		{
			ID:     "1",
			Title:  "Pointers",
			Matrix: stats.ConfidenceMatrix{Easy: 0.9, Hard: 0.1},
			Freq: stats.Frequencies{
				FirstChoice:  stats.FrequencyTable{"a": 3, "b": 1},
				SecondChoice: stats.FrequencyTable{"a": 2},
			},
		},
		{
			ID:     "2",
			Matrix: stats.ConfidenceMatrix{Tricky: 0.4},
			Freq:   stats.Frequencies{FirstChoice: stats.FrequencyTable{"a": 0}},
		},
	}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts := testServer(t, &stubSource{})
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Source != "stub" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "peerplot/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q: %v", resp.Header.Get(RequestIDHeader), err)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts := testServer(t, &stubSource{})
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not a uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not a uuid" {
		t.Error("malformed request id should be replaced")
	}
}

func TestListQuestions(t *testing.T) {
	ts := testServer(t, &stubSource{questions: questions()})
	resp, body := get(t, ts.URL+"/questions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out []questionSummary
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d summaries", len(out))
	}
	if out[0].Rating != "Easy" || out[0].Title != "Pointers" {
		t.Errorf("summary[0] = %+v", out[0])
	}
	if out[1].Rating != "Tricky" {
		t.Errorf("summary[1] = %+v", out[1])
	}
}

func TestGetQuestion(t *testing.T) {
	ts := testServer(t, &stubSource{questions: questions()})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/questions/1", http.StatusOK, ""},
		{"/questions/9", http.StatusNotFound, "NOT_FOUND"},
		{"/questions/..bad", http.StatusBadRequest, "INVALID_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if tt.code == "" {
				if !strings.Contains(body, `"rating": "Easy"`) {
					t.Errorf("body missing rating: %s", body)
				}
				return
			}
			var e errorResponse
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatal(err)
			}
			if e.Error != tt.code || e.RequestID == "" {
				t.Errorf("error = %+v", e)
			}
		})
	}
}

func TestArtifact(t *testing.T) {
	ts := testServer(t, &stubSource{questions: questions()})

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/questions/1/matrix.svg", http.StatusOK, "image/svg+xml", `id="matrix-1"`},
		{"/questions/1/first-frequency.svg?animate=true", http.StatusOK, "image/svg+xml", "peerplotAnimate"},
		{"/questions/1/second-frequency.json", http.StatusOK, "application/json", `"second-frequency-1"`},
		{"/questions/1/matrix.png?scale=1", http.StatusOK, "image/png", "PNG"},
		{"/questions/2/first-frequency.svg", http.StatusOK, "image/svg+xml", `id="first-frequency-2"`},
		{"/questions/1/legend.svg", http.StatusNotFound, "application/json", "TARGET_NOT_FOUND"},
		{"/questions/1/matrix.gif", http.StatusBadRequest, "application/json", "INVALID_FORMAT"},
		{"/questions/1/matrix.png?scale=0", http.StatusBadRequest, "application/json", "INVALID_INPUT"},
		{"/questions/1/matrix.svg?animate=maybe", http.StatusBadRequest, "application/json", "INVALID_INPUT"},
		{"/questions/9/matrix.svg", http.StatusNotFound, "application/json", "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestReport(t *testing.T) {
	ts := testServer(t, &stubSource{questions: questions()})

	resp, body := get(t, ts.URL+"/report")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	for _, want := range []string{`id="question-1"`, `id="question-2"`} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %s", want)
		}
	}

	_, body = get(t, ts.URL+"/report?ids=2")
	if strings.Contains(body, `id="question-1"`) || !strings.Contains(body, `id="question-2"`) {
		t.Error("ids filter not applied")
	}
}

func TestReportSkipsBrokenQuestion(t *testing.T) {
	broken := stats.Question{ID: "3", Matrix: stats.ConfidenceMatrix{Peer: 1.5}}
	ts := testServer(t, &stubSource{questions: append(questions(), broken)})

	resp, body := get(t, ts.URL+"/report")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `id="question-1"`) || !strings.Contains(body, `id="question-2"`) {
		t.Error("valid questions missing from report")
	}
	if strings.Contains(body, `id="question-3"`) {
		t.Error("broken question should be left out")
	}
}

func TestSourceFailure(t *testing.T) {
	ts := testServer(t, &stubSource{err: errors.New(errors.ErrCodeNetwork, "mongo unreachable")})
	for _, path := range []string{"/questions", "/report", "/questions/1"} {
		resp, _ := get(t, ts.URL+path)
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("%s: status = %d, want 502", path, resp.StatusCode)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidMatrix, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeNoData, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeNotFound, "x")), http.StatusNotFound},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(&stubSource{}, pipeline.NewRunner(nil, nil, logger), pipeline.Options{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
