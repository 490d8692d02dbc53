package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/kirillkom/document-triage/internal/config"
	"github.com/kirillkom/document-triage/internal/core/classifier"
	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
	"github.com/kirillkom/document-triage/internal/observability/metrics"
)

const (
	serviceName    = "api"
	batchesPrefix  = "/v1/batches/"
	exportSuffix   = "/export.xlsx"
	defaultMaxBody = 64 << 20
)

// Dependencies groups the inbound ports served over HTTP. Metrics and Logger
// are optional.
type Dependencies struct {
	Classifier ports.TextClassifier
	Batches    ports.BatchClassifier
	Submitter  ports.BatchSubmitter
	Reader     ports.BatchReader
	Exporter   ports.ResultExporter
	Metrics    *metrics.HTTPServerMetrics
	Logger     *slog.Logger
}

type Router struct {
	cfg  config.Config
	deps Dependencies
}

func NewRouter(cfg config.Config, deps Dependencies) *Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Router{cfg: cfg, deps: deps}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/classify", rt.classifyBatch)
	mux.HandleFunc("/v1/explain", rt.explainText)
	mux.HandleFunc("/v1/batches", rt.submitBatch)
	mux.HandleFunc(batchesPrefix, rt.batchByID)

	var handler http.Handler = mux
	if rt.deps.Metrics != nil {
		mux.Handle("/metrics", rt.deps.Metrics.Handler())
		handler = rt.deps.Metrics.Middleware(serviceName, handler)
	}
	if rt.cfg.APIMaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIInFlightWait, rt.recordThrottled)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		burst := max(rt.cfg.APIRateLimitBurst, 1)
		limiter := rate.NewLimiter(rate.Limit(rt.cfg.APIRateLimitRPS), burst)
		handler = rateLimitMiddleware(handler, limiter, rt.recordThrottled)
	}
	handler = accessLogMiddleware(rt.deps.Logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) recordThrottled(reason string) {
	if rt.deps.Metrics != nil {
		rt.deps.Metrics.RecordThrottled(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) classifyBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if rt.deps.Batches == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "classification is not configured"})
		return
	}

	var batch domain.ExtractionBatch
	if err := rt.decodeBody(w, r, &batch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := rt.deps.Batches.ClassifyBatch(r.Context(), &batch)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type explainRequest struct {
	Text string `json:"text"`
}

type explainResponse struct {
	Decision    classifier.Decision     `json:"decision"`
	Evaluations []classifier.Evaluation `json:"evaluations"`
	Signals     classifier.Signals      `json:"signals"`
}

func (rt *Router) explainText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if rt.deps.Classifier == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "classification is not configured"})
		return
	}

	var req explainRequest
	if err := rt.decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, explainResponse{
		Decision:    rt.deps.Classifier.Classify(req.Text),
		Evaluations: rt.deps.Classifier.Explain(req.Text),
		Signals:     classifier.ExtractSignals(req.Text),
	})
}

func (rt *Router) submitBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if rt.deps.Submitter == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "batch submission is not configured"})
		return
	}

	var req domain.BatchRequest
	if err := rt.decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	record, err := rt.deps.Submitter.Submit(r.Context(), &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, record)
}

func (rt *Router) batchByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	if rt.deps.Reader == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "batch lookup is not configured"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, batchesPrefix)
	export := strings.HasSuffix(rest, exportSuffix)
	id := strings.TrimSuffix(rest, exportSuffix)
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "batch id is required"})
		return
	}

	record, err := rt.deps.Reader.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if !export {
		writeJSON(w, http.StatusOK, record)
		return
	}
	rt.exportBatch(w, r, record)
}

func (rt *Router) exportBatch(w http.ResponseWriter, r *http.Request, record *domain.BatchRecord) {
	if rt.deps.Exporter == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "export is not configured"})
		return
	}
	if record.Status != domain.BatchStatusClassified || record.Result == nil {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "batch is not classified yet",
			"status": string(record.Status),
		})
		return
	}

	var buf bytes.Buffer
	if err := rt.deps.Exporter.Export(r.Context(), record.Result, &buf); err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", rt.deps.Exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.ID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (rt *Router) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	limit := rt.cfg.APIMaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.New("invalid json")
	}
	return nil
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.deps.Logger.Error("http_handler_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
