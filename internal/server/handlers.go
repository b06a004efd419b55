package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/archetype-cli/archetype/pkg/buildinfo"
	apperrors "github.com/archetype-cli/archetype/pkg/errors"
	"github.com/archetype-cli/archetype/pkg/export"
	"github.com/archetype-cli/archetype/pkg/inventory"
	"github.com/archetype-cli/archetype/pkg/pipeline"
)

// generateRequest is the POST body for diagram generation.
type generateRequest struct {
	Title    string               `json:"title,omitempty"`
	Servers  []inventory.Item     `json:"servers"`
	Insights inventory.InsightSet `json:"insights"`
}

// generateResponse summarizes a generated diagram.
type generateResponse struct {
	DiagramID   string `json:"diagram_id"`
	Title       string `json:"title"`
	Components  int    `json:"components"`
	Connections int    `json:"connections"`
	Cached      bool   `json:"cached"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:   &inventory.Input{Servers: req.Servers, Insights: req.Insights},
		Title:   req.Title,
		Formats: []string{pipeline.FormatJSON},
		Logger:  s.logger,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.store(result.Diagram)
	writeJSON(w, http.StatusCreated, generateResponse{
		DiagramID:   result.Diagram.ID,
		Title:       result.Diagram.Title,
		Components:  result.Stats.ComponentCount,
		Connections: result.Stats.ConnectionCount,
		Cached:      result.CacheInfo.BuildHit,
	})
}

func (s *Server) handleGetJSON(w http.ResponseWriter, r *http.Request) {
	d := s.lookup(chi.URLParam(r, "id"))
	if d == nil {
		writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeDiagramNotFound, "diagram not found"))
		return
	}
	data, err := export.MarshalJSON(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleGetSVG(w http.ResponseWriter, r *http.Request) {
	d := s.lookup(chi.URLParam(r, "id"))
	if d == nil {
		writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeDiagramNotFound, "diagram not found"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(export.RenderSVG(d))
}

// handleGetDOT serves the node-link view: DOT text by default, or the
// Graphviz-rendered SVG with ?render=svg.
func (s *Server) handleGetDOT(w http.ResponseWriter, r *http.Request) {
	d := s.lookup(chi.URLParam(r, "id"))
	if d == nil {
		writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeDiagramNotFound, "diagram not found"))
		return
	}

	dot := export.ToDOT(d)
	if r.URL.Query().Get("render") == "svg" {
		data, err := export.RenderDOTSVG(r.Context(), dot)
		if err != nil {
			writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeExportDOT, err, "render DOT through graphviz"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	d := s.lookup(chi.URLParam(r, "id"))
	if d == nil {
		writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeDiagramNotFound, "diagram not found"))
		return
	}

	pkg, err := export.BuildPackage(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	contentType := "application/vnd.ms-visio.drawing"
	if pkg.Degraded() {
		contentType = "application/xml"
		w.Header().Set("X-Package-Degraded", pkg.Reason)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.ID+pkg.Ext()+`"`)
	_, _ = w.Write(pkg.Bytes())
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error envelope, exposing the structured code
// when the error carries one.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}
