// Package httpserver implements spec.md §6's "optional front-end
// collaborator": a single POST /analyze endpoint over the same
// Orchestrator used by the CLI and MCP surfaces. net/http is the
// correct tool here — see SPEC_FULL.md §3.6 and DESIGN.md.
package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/logging"
	"github.com/nuthan-ms/depgraph/internal/orchestrator"
	"github.com/nuthan-ms/depgraph/internal/output"
)

type analyzeRequest struct {
	RepoPath string `json:"repoPath"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server wires the orchestrator into the HTTP handler.
type Server struct {
	cfg    *config.Config
	logger logging.Logger
}

// New builds a Server. cfg supplies the defaults every request's
// analysis runs with; a per-request repoPath is the only thing the
// client controls.
func New(cfg *config.Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the mux this server answers requests on.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	return mux
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.RepoPath == "" {
		writeError(w, http.StatusBadRequest, "repoPath is required")
		return
	}

	orch := orchestrator.New(s.cfg, s.logger)
	res, err := orch.Analyze(r.Context(), req.RepoPath)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	doc, err := output.Build(req.RepoPath, res, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
