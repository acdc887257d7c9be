package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/legalease/internal/config"
	"github.com/kirillkom/legalease/internal/core/analysis"
	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

const (
	serviceName = "api"

	multipartMemory  = 8 << 20
	capturedFilename = "camera_capture.jpg"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// RequestMetrics is the subset of the Prometheus HTTP metrics the router reports to.
type RequestMetrics interface {
	Middleware(service string, next http.Handler) http.Handler
	Handler() http.Handler
	RecordRejected(service, reason string)
	RecordExplain(service string, err error)
	RecordExport(service string, err error)
}

type Router struct {
	cfg       config.Config
	analyzer  ports.DocumentAnalyzer
	ingestor  ports.DocumentIngestor
	explainer ports.ClauseExplainer
	history   ports.DocumentHistory
	metrics   RequestMetrics
	breakers  func() map[string]string
}

// NewRouter accepts a nil ingestor; async uploads then answer 503.
func NewRouter(
	cfg config.Config,
	analyzer ports.DocumentAnalyzer,
	ingestor ports.DocumentIngestor,
	explainer ports.ClauseExplainer,
	history ports.DocumentHistory,
) *Router {
	return &Router{
		cfg:       cfg,
		analyzer:  analyzer,
		ingestor:  ingestor,
		explainer: explainer,
		history:   history,
	}
}

func (rt *Router) WithMetrics(m RequestMetrics) *Router {
	rt.metrics = m
	return rt
}

// WithBreakerStates adds circuit breaker states to /healthz.
func (rt *Router) WithBreakerStates(states func() map[string]string) *Router {
	rt.breakers = states
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/documents/export.xlsx", rt.exportDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	mux.HandleFunc("GET /v1/documents/{id}/logs", rt.getDocumentLogs)
	mux.HandleFunc("POST /v1/clauses/explain", rt.explainClause)
	mux.HandleFunc("GET /v1/legal/disclaimer", rt.disclaimer)

	var handler http.Handler = mux
	var onReject rejectFunc
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
		onReject = func(reason string) { rt.metrics.RecordRejected(serviceName, reason) }
	}

	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIInFlightWait, onReject)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onReject)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok"}
	if rt.breakers != nil {
		resp["breakers"] = rt.breakers()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	upload, err := rt.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	async, _ := strconv.ParseBool(r.URL.Query().Get("async"))
	if async {
		if rt.ingestor == nil {
			writeError(w, r, domain.WrapError(domain.ErrBackendUnavailable, "enqueue", errors.New("async analysis is not configured")))
			return
		}
		doc, err := rt.ingestor.Enqueue(r.Context(), upload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, doc)
		return
	}

	doc, err := rt.analyzer.Analyze(r.Context(), upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// readUpload takes the multipart "file" field, or a "captured_image" form
// field holding a base64 camera capture.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (domain.Upload, error) {
	limit := rt.cfg.MaxUploadBytes
	if limit > 0 {
		if r.ContentLength > limit {
			return domain.Upload{}, tooLarge(limit)
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.Upload{}, tooLarge(limit)
		}
		return domain.Upload{}, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		if strings.TrimSpace(header.Filename) == "" {
			return domain.Upload{}, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("no file selected"))
		}
		body, err := io.ReadAll(file)
		if err != nil {
			return domain.Upload{}, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
		}
		if limit > 0 && int64(len(body)) > limit {
			return domain.Upload{}, tooLarge(limit)
		}
		return domain.Upload{
			Filename: header.Filename,
			Body:     body,
			ClientIP: clientIP(r),
		}, nil
	}

	if captured := strings.TrimSpace(r.FormValue("captured_image")); captured != "" {
		return domain.Upload{
			Filename: capturedFilename,
			Kind:     domain.KindImage,
			Body:     []byte(captured),
			ClientIP: clientIP(r),
		}, nil
	}

	return domain.Upload{}, domain.WrapError(
		domain.ErrInvalidInput,
		"read upload",
		errors.New("multipart field 'file' or form field 'captured_image' is required"),
	)
}

func tooLarge(limit int64) error {
	return domain.WrapError(domain.ErrFileTooLarge, "read upload", fmt.Errorf("upload exceeds %d bytes", limit))
}

type documentPage struct {
	Items   []domain.Document `json:"items"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Total   int               `json:"total"`
	Pages   int               `json:"pages"`
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := rt.history.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentPage{
		Items:   result.Items,
		Page:    result.Page,
		PerPage: result.PerPage,
		Total:   result.Total,
		Pages:   result.Pages(),
	})
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.history.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) getDocumentLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := rt.history.Logs(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": logs})
}

func (rt *Router) exportDocuments(w http.ResponseWriter, r *http.Request) {
	payload, err := rt.history.ExportXLSX(r.Context())
	if rt.metrics != nil {
		rt.metrics.RecordExport(serviceName, err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="legalease-history.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (rt *Router) explainClause(w http.ResponseWriter, r *http.Request) {
	clause, err := readClauseText(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	explanation, err := rt.explainer.Explain(r.Context(), clause, clientIP(r))
	if rt.metrics != nil {
		rt.metrics.RecordExplain(serviceName, err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}

func readClauseText(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			ClauseText string `json:"clause_text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", domain.WrapError(domain.ErrInvalidInput, "read clause", errors.New("invalid json"))
		}
		return req.ClauseText, nil
	}
	return r.FormValue("clause_text"), nil
}

func (rt *Router) disclaimer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"disclaimer": analysis.Disclaimer})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
