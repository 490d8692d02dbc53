package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/kirillkom/document-triage/internal/config"
	"github.com/kirillkom/document-triage/internal/core/classifier"
	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/observability/metrics"
)

const testBatchID = "0b4f8f3c-8f7e-4c55-9a3e-2f3f4b1d6a10"

const boletoText = "Banco Itaú S.A.\nFicha de Compensação\nCarteira 109\nAutenticação mecânica\n" +
	"23793.38128 60082.704599 00001.403226 1 84660000025000\n"

func rateLimit(rps float64) rate.Limit { return rate.Limit(rps) }

type readerFake struct {
	records map[string]*domain.BatchRecord
	err     error
}

func newReaderFake() *readerFake {
	return &readerFake{records: map[string]*domain.BatchRecord{
		testBatchID: {ID: testBatchID, Status: domain.BatchStatusPrepared},
	}}
}

func (f *readerFake) GetByID(_ context.Context, id string) (*domain.BatchRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrBatchNotFound, "get batch", errors.New("id="+id))
	}
	return record, nil
}

type submitterFake struct {
	err  error
	last *domain.BatchRequest
}

func (f *submitterFake) Submit(_ context.Context, req *domain.BatchRequest) (*domain.BatchRecord, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.BatchRecord{
		ID:               testBatchID,
		SourceIdentifier: req.SourceIdentifier,
		Status:           domain.BatchStatusPrepared,
	}, nil
}

type exporterFake struct {
	err error
}

func (f exporterFake) Export(_ context.Context, result *domain.ClassificationBatchResult, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "xlsx:"+result.SourceIdentifier)
	return err
}

func (exporterFake) ContentType() string { return "application/test-xlsx" }

func newTestHandler(cfg config.Config, reader *readerFake) http.Handler {
	c := classifier.New()
	return NewRouter(cfg, Dependencies{
		Classifier: c,
		Batches:    c,
		Submitter:  &submitterFake{},
		Reader:     reader,
		Exporter:   exporterFake{},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).Handler()
}

func TestClassifyEndpointLabelsBatch(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	payload, _ := json.Marshal(domain.ExtractionBatch{
		SourceIdentifier:    "mail-1",
		WorkspaceFolderName: "20250102030405678_mail-1",
		Files: []domain.ExtractedDocument{
			{FileName: "boleto.pdf", TextContent: boletoText},
			{FileName: "notes.pdf", TextContent: "Lista de compras"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/classify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", res.Code, res.Body.String())
	}

	var raw struct {
		SourceIdentifier string `json:"sourceIdentifier"`
		Files            []struct {
			FileName string `json:"fileName"`
			FileType string `json:"fileType"`
		} `json:"files"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if raw.SourceIdentifier != "mail-1" || len(raw.Files) != 2 {
		t.Fatalf("unexpected response: %+v", raw)
	}
	if raw.Files[0].FileType != "Boleto" || raw.Files[1].FileType != "Outros" {
		t.Fatalf("expected labels serialized as strings, got %+v", raw.Files)
	}
}

func TestClassifyEndpointRejectsInvalidJSON(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	req := httptest.NewRequest(http.MethodPost, "/v1/classify", strings.NewReader("{"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestClassifyEndpointRejectsOversizedBody(t *testing.T) {
	handler := newTestHandler(config.Config{APIMaxBodyBytes: 16}, newReaderFake())

	payload := `{"sourceIdentifier":"` + strings.Repeat("x", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/classify", strings.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "exceeds") {
		t.Fatalf("expected size error, got %s", res.Body.String())
	}
}

func TestClassifyEndpointRejectsGet(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/classify", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestExplainEndpointReturnsEveryDetector(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	payload, _ := json.Marshal(map[string]string{"text": boletoText})
	req := httptest.NewRequest(http.MethodPost, "/v1/explain", bytes.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp explainResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision.Type != domain.DocumentTypeBoleto {
		t.Fatalf("expected Boleto decision, got %+v", resp.Decision)
	}
	if len(resp.Evaluations) != 4 {
		t.Fatalf("expected 4 evaluations, got %d", len(resp.Evaluations))
	}
	if !resp.Signals.WideNumericRun || resp.Signals.DigitCount == 0 {
		t.Fatalf("expected barcode signals in explain output, got %+v", resp.Signals)
	}
}

func TestSubmitBatchReturns202(t *testing.T) {
	submitter := &submitterFake{}
	c := classifier.New()
	handler := NewRouter(config.Config{}, Dependencies{
		Classifier: c,
		Batches:    c,
		Submitter:  submitter,
		Reader:     newReaderFake(),
	}).Handler()

	payload, _ := json.Marshal(domain.BatchRequest{
		SourceIdentifier: "mail-7",
		Files:            []domain.InputFile{{FileName: "a.pdf", ContentBase64: "JVBERi0="}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/batches", bytes.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	if submitter.last == nil || submitter.last.SourceIdentifier != "mail-7" || len(submitter.last.Files) != 1 {
		t.Fatalf("unexpected submitted request: %+v", submitter.last)
	}
	var record domain.BatchRecord
	if err := json.Unmarshal(res.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if record.ID != testBatchID || record.Status != domain.BatchStatusPrepared {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestSubmitBatchMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid", err: domain.WrapError(domain.ErrInvalidInput, "submit", errors.New("no files")), want: http.StatusBadRequest},
		{name: "temporary", err: domain.WrapError(domain.ErrTemporary, "publish", errors.New("nats down")), want: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		handler := NewRouter(config.Config{}, Dependencies{
			Submitter: &submitterFake{err: tc.err},
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		}).Handler()

		req := httptest.NewRequest(http.MethodPost, "/v1/batches", strings.NewReader(`{"files":[]}`))
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, res.Code)
		}
	}
}

func TestGetBatchReturns404ForNotFound(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	req := httptest.NewRequest(http.MethodGet, "/v1/batches/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetBatchRequiresID(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/batches/", nil))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExportRequiresClassifiedBatch(t *testing.T) {
	handler := newTestHandler(config.Config{}, newReaderFake())

	req := httptest.NewRequest(http.MethodGet, "/v1/batches/"+testBatchID+"/export.xlsx", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.Code)
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	reader := newReaderFake()
	reader.records[testBatchID] = &domain.BatchRecord{
		ID:     testBatchID,
		Status: domain.BatchStatusClassified,
		Result: &domain.ClassificationBatchResult{SourceIdentifier: "mail-1"},
	}
	handler := newTestHandler(config.Config{}, reader)

	req := httptest.NewRequest(http.MethodGet, "/v1/batches/"+testBatchID+"/export.xlsx", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", res.Code, res.Body.String())
	}
	if got := res.Header().Get("Content-Type"); got != "application/test-xlsx" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(res.Header().Get("Content-Disposition"), testBatchID+".xlsx") {
		t.Fatalf("unexpected content disposition %q", res.Header().Get("Content-Disposition"))
	}
	if res.Body.String() != "xlsx:mail-1" {
		t.Fatalf("unexpected body %q", res.Body.String())
	}
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	c := classifier.New()
	httpMetrics := metrics.NewHTTPServerMetrics("api-test")
	handler := NewRouter(config.Config{}, Dependencies{
		Classifier: c,
		Batches:    c,
		Reader:     newReaderFake(),
		Metrics:    httpMetrics,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/batches/"+testBatchID, nil))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `path="/v1/batches/{batch_id}"`) {
		t.Fatalf("expected normalized batch path in metrics output")
	}
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: domain.WrapError(domain.ErrInvalidInput, "op", errors.New("x")), want: http.StatusBadRequest},
		{err: domain.WrapError(domain.ErrBatchNotFound, "op", errors.New("x")), want: http.StatusNotFound},
		{err: domain.WrapError(domain.ErrTemporary, "op", errors.New("x")), want: http.StatusServiceUnavailable},
		{err: errors.New("x"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapErrorToHTTPStatus(tc.err); got != tc.want {
			t.Fatalf("mapErrorToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
