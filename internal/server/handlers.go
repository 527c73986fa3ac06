package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/scanmill/scanmill/internal/findings"
	"github.com/scanmill/scanmill/internal/report"
	"github.com/scanmill/scanmill/internal/workspace"
	"github.com/scanmill/scanmill/pkg/shared/config"
	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
)

// analyzeResponse is the upload contract: the flattened findings plus the
// name of the persisted document the client can download later.
type analyzeResponse struct {
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	Language  string             `json:"language"`
	ScanID    string             `json:"scan_id"`
	Results   []findings.Finding `json:"results"`
	SarifFile string             `json:"sarif_file"`
}

type detailResponse struct {
	Status    string             `json:"status"`
	SarifFile string             `json:"sarif_file"`
	Count     int                `json:"count"`
	Results   []findings.Finding `json:"results"`
}

type listResponse struct {
	Status  string          `json:"status"`
	Reports []report.Record `json:"reports"`
}

type statsResponse struct {
	Status string `json:"status"`
	report.Stats
}

type errorResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Kind    string `json:"kind,omitempty"`
}

// handleAnalyze accepts a multipart upload under the "file" field, runs the
// whole pipeline on it, and answers with the normalized findings.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.GetMaxUploadSize(s.cfg))

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "uploaded archive is too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "No filename")
		return
	}

	tree, err := workspace.NewFromUpload(s.logger, s.cfg, header.Filename, file)
	if err != nil {
		s.writeScanError(w, err)
		return
	}
	defer tree.Close()

	result, err := s.scanner.Scan(r.Context(), tree)
	if err != nil {
		s.writeScanError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		Message:   result.Message,
		Status:    "ok",
		Language:  result.Language.String(),
		ScanID:    result.ScanID,
		Results:   result.Findings,
		SarifFile: result.ReportFile,
	})
}

// handleReports lists the scan history, newest first.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.scanner.Store().List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []report.Record{}
	}
	s.writeJSON(w, http.StatusOK, listResponse{Status: "ok", Reports: records})
}

// handleReportDetail re-reads one persisted document and serves its
// normalized findings.
func (s *Server) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if name == "" {
		s.handleReports(w, r)
		return
	}
	if name != filepath.Base(name) {
		s.writeError(w, http.StatusNotFound, "report not found")
		return
	}

	list, err := s.scanner.Store().Detail(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.writeError(w, http.StatusNotFound, "report not found")
			return
		}
		s.writeScanError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, detailResponse{
		Status:    "ok",
		SarifFile: name,
		Count:     len(list),
		Results:   list,
	})
}

// handleStats recomputes the dashboard statistics over every stored document.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.scanner.Store().Aggregate()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{Status: "ok", Stats: stats})
}

// handleDownload serves a raw result document as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/results/")
	if name == "" || name != filepath.Base(name) {
		s.writeError(w, http.StatusNotFound, "result not found")
		return
	}

	path, err := s.scanner.Store().Path(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "result not found")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Message: message, Status: "error"})
}

// writeScanError maps a pipeline failure onto the wire: the failure kind
// becomes the response discriminator and picks the HTTP status.
func (s *Server) writeScanError(w http.ResponseWriter, err error) {
	kind, ok := scanerrors.KindOf(err)
	if !ok {
		s.logger.Error("scan failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Error("scan failed", "kind", kind, "error", err)
	s.writeJSON(w, statusFor(kind), errorResponse{
		Message: err.Error(),
		Status:  "error",
		Kind:    string(kind),
	})
}

func statusFor(kind scanerrors.Kind) int {
	switch kind {
	case scanerrors.KindUnsupportedInput:
		return http.StatusBadRequest
	case scanerrors.KindTimeout:
		return http.StatusGatewayTimeout
	case scanerrors.KindParseFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
