package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"nodecolor/internal/codec"
	"nodecolor/internal/colorize"
	"nodecolor/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxImportBytes bounds an uploaded graph document
const maxImportBytes = 32 << 20

// ToolInfo describes the colorize operation to a UI
type ToolInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keyword     string   `json:"keyword"`
	Policy      string   `json:"policy"`
	Formats     []string `json:"formats"`
}

// DefaultToolInfo returns the tool description for a keyword and policy
func DefaultToolInfo(keyword string, policy colorize.Policy) ToolInfo {
	return ToolInfo{
		Name:        "Color nodes",
		Description: "Color nodes based on a RGB or hex color attribute",
		Keyword:     keyword,
		Policy:      string(policy),
		Formats:     codec.Formats(),
	}
}

// GraphHandler handles graph API requests
type GraphHandler struct {
	svc    *service.ColorService
	logger *zap.Logger
	info   ToolInfo
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(svc *service.ColorService, logger *zap.Logger, info ToolInfo) *GraphHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphHandler{svc: svc, logger: logger, info: info}
}

// Routes mounts the graph API on r
func (h *GraphHandler) Routes(r chi.Router) {
	r.Get("/info", h.Info)
	r.Get("/graphs", h.ListGraphs)
	r.Post("/graphs", h.ImportGraph)
	r.Get("/graphs/{id}", h.GetGraph)
	r.Delete("/graphs/{id}", h.DeleteGraph)
	r.Get("/graphs/{id}/export", h.ExportGraph)
	r.Get("/graphs/{id}/view", h.ViewGraph)
	r.Post("/graphs/{id}/colorize", h.Colorize)
	r.Delete("/graphs/{id}/colors", h.ClearColors)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Info describes the colorize tool
func (h *GraphHandler) Info(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.info, http.StatusOK)
}

// ListGraphs returns a summary of every stored graph
func (h *GraphHandler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := h.svc.List(r.Context())
	if err != nil {
		h.serviceError(w, "Failed to list graphs", err)
		return
	}

	h.writeJSON(w, graphs, http.StatusOK)
}

// ImportGraph stores the request body as a new graph. The format comes from
// the format query parameter, falling back to the Content-Type.
func (h *GraphHandler) ImportGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatFromContentType(r.Header.Get("Content-Type"))
	}
	if format == "" {
		h.writeError(w, "Unknown format", "set the format query parameter or a Content-Type", http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	summary, err := h.svc.Import(r.Context(), format, r.URL.Query().Get("name"), body)
	if err != nil {
		h.serviceError(w, "Failed to import graph", err)
		return
	}

	w.Header().Set("Location", "/api/graphs/"+summary.ID)
	h.writeJSON(w, summary, http.StatusCreated)
}

// GetGraph returns a stored graph with its table and colors
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, "Failed to get graph", err)
		return
	}

	h.writeJSON(w, g, http.StatusOK)
}

// DeleteGraph removes a stored graph
func (h *GraphHandler) DeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, "Failed to delete graph", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportGraph writes a stored graph in the requested format, yaml by default
func (h *GraphHandler) ExportGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "yaml"
	}

	// Buffer so a failed export can still produce an error response
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), id, format, &buf); err != nil {
		h.serviceError(w, "Failed to export graph", err)
		return
	}

	format = strings.ToLower(format)
	w.Header().Set("Content-Type", codec.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", id, format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export", zap.String("graph_id", id), zap.Error(err))
	}
}

// ViewGraph returns the render view of a stored graph
func (h *GraphHandler) ViewGraph(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, "Failed to get view", err)
		return
	}

	h.writeJSON(w, view, http.StatusOK)
}

// Colorize runs the colorizer on a stored graph. The policy and keyword query
// parameters override the server defaults for this run.
func (h *GraphHandler) Colorize(w http.ResponseWriter, r *http.Request) {
	var opts []colorize.Option

	if p := r.URL.Query().Get("policy"); p != "" {
		policy, err := colorize.ParsePolicy(p)
		if err != nil {
			h.writeError(w, "Invalid policy", err.Error(), http.StatusBadRequest)
			return
		}
		opts = append(opts, colorize.WithPolicy(policy))
	}
	if k := r.URL.Query().Get("keyword"); k != "" {
		opts = append(opts, colorize.WithKeyword(k))
	}

	report, err := h.svc.Colorize(r.Context(), chi.URLParam(r, "id"), opts...)
	if err != nil {
		h.serviceError(w, "Failed to colorize graph", err)
		return
	}

	status := http.StatusOK
	if report.Err != nil {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSON(w, report, status)
}

// ClearColors removes every computed color from a stored graph
func (h *GraphHandler) ClearColors(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearColors(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, "Failed to clear colors", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Helper methods

// serviceError maps service errors onto status codes
func (h *GraphHandler) serviceError(w http.ResponseWriter, msg string, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.As(err, &maxBytes):
		h.writeError(w, msg, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, service.ErrInvalidInput):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(msg, zap.Error(err))
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *GraphHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func (h *GraphHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{
		Error:   error,
		Details: details,
	}, statusCode)
}

func formatFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/json":
		return "json"
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "yaml"
	case "text/csv":
		return "csv"
	case "text/vnd.graphviz":
		return "dot"
	default:
		return ""
	}
}
