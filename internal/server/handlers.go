package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/peerplot/pkg/buildinfo"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/plot/sink"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// targets maps the {target} path segment to a target id builder.
var targets = map[string]func(string) string{
	"matrix":           stats.MatrixTargetID,
	"first-frequency":  stats.FirstFrequencyTargetID,
	"second-frequency": stats.SecondFrequencyTargetID,
}

type healthResponse struct {
	Status string         `json:"status"`
	Source string         `json:"source"`
	Build  buildinfo.Info `json:"build"`
}

type questionSummary struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	Rating string  `json:"rating,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

type questionResponse struct {
	stats.Question
	Rating string `json:"rating,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Source: s.source.Name(),
		Build:  buildinfo.Get(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	qs, err := s.source.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]questionSummary, len(qs))
	for i, q := range qs {
		c := stats.Classify(q.Matrix)
		out[i] = questionSummary{ID: q.ID, Title: q.Title, Rating: c.Label(), Value: c.Value}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.question(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionResponse{Question: q, Rating: stats.Classify(q.Matrix).Label()})
}

// handleArtifact renders one target. Query parameters: animate=1 embeds
// the bar transition in SVG output, scale sets the PNG scale.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	targetFn, ok := targets[chi.URLParam(r, "target")]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTargetNotFound, "unknown target %q", chi.URLParam(r, "target")))
		return
	}
	format, err := sink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.question(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.opts
	opts.Formats = []string{string(format)}
	if v := r.URL.Query().Get("animate"); v != "" {
		animate, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "animate must be a boolean, got %q", v))
			return
		}
		opts.Animate = animate
	}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 8 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be a number in (0, 8]"))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.Execute(r.Context(), []stats.Question{q}, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qr := res.Questions[0]
	data := qr.Artifacts[pipeline.ArtifactName(targetFn(q.ID), string(format))]

	w.Header().Set("Content-Type", format.ContentType())
	if qr.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleReport renders every question, or those listed in ?ids=a,b, as
// one HTML page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	qs, err := s.source.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids := r.URL.Query().Get("ids"); ids != "" {
		want := make(map[string]bool)
		for _, id := range strings.Split(ids, ",") {
			want[strings.TrimSpace(id)] = true
		}
		filtered := qs[:0]
		for _, q := range qs {
			if want[q.ID] {
				filtered = append(filtered, q)
			}
		}
		qs = filtered
	}

	html, err := s.runner.Report(r.Context(), qs, s.opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (s *Server) question(r *http.Request) (stats.Question, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateQuestionID(id); err != nil {
		return stats.Question{}, err
	}
	return s.source.Get(r.Context(), id)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Error:     string(code),
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeTargetNotFound, code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeNoData:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
