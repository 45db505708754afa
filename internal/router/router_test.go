package router

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/artifact"
	"handwriting/internal/database/client"
	"handwriting/internal/database/fluentd/repository"
	"handwriting/internal/handler"
	"handwriting/internal/middleware"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/service"
	"handwriting/internal/service/analysis"
	"handwriting/internal/service/cost"
	"handwriting/internal/service/preprocess"
	"handwriting/internal/service/report"
	"handwriting/internal/service/txlog"
	"handwriting/internal/service/vision"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

type stubVision struct {
	calls atomic.Int32
	err   error
}

func (s *stubVision) AnalyzeImage(ctx context.Context, imagePath, prompt string) (*vision.Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &vision.Result{
		Text:  `{"overall_comment":"ok"}`,
		Usage: cost.Usage{PromptTokens: 1000, CompletionTokens: 1000, ImageTokens: 1000},
		Raw:   []byte(`{"id":"resp_test"}`),
	}, nil
}

type testEnv struct {
	engine      http.Handler
	uploadDir   string
	artifactDir string
	vision      *stubVision
}

func newTestEnv(t *testing.T, v *stubVision) *testEnv {
	t.Helper()
	uploadDir, artifactDir := t.TempDir(), t.TempDir()
	conf := config.ApplyDefaults(&config.Configuration{
		App:    config.App{Env: "test", Version: "test"},
		Log:    config.Log{ArtifactDir: artifactDir},
		Upload: config.Upload{Dir: uploadDir},
	})
	logger := zap.NewNop()
	trace := &telemetry.Trace{}
	logRepo := repository.NewLogRepository(conf, &client.NoopClient{})

	analysisService := analysis.NewService(
		conf,
		preprocess.NewPreprocessor(conf, trace, logger),
		v,
		txlog.NewTransactionLogger(artifact.NewRepository(conf), logRepo, trace, nil, logger),
		report.NewParser(),
		cost.NewRates(conf),
		trace,
		nil,
		logger,
	)
	health := service.NewHealthService(conf)
	health.SetReady(true)

	engine := NewRouter(
		conf,
		middleware.NewTraceEntry(trace, nil, conf),
		middleware.NewRecovery(logger, trace, conf, logRepo),
		middleware.NewCors(trace),
		middleware.NewLogger(logger, trace, conf, logRepo),
		middleware.NewResponse(logger, trace, conf, logRepo),
		NewHealthRouter(handler.NewHealthHandler(health)),
		NewAnalysisRouter(handler.NewAnalysisHandler(trace, analysisService, logger)),
	)
	return &testEnv{engine: engine, uploadDir: uploadDir, artifactDir: artifactDir, vision: v}
}

func multipartBody(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		img.Set(x, x%32, color.NRGBA{R: 200, A: 255})
	}
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, "note.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(part, img); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return body, w.FormDataContentType()
}

func (e *testEnv) post(t *testing.T, field string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, field)
	req := httptest.NewRequest(http.MethodPost, "/analyze-handwriting", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestAnalyzeMissingPhoto(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{})
	rec := env.post(t, "document")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || body["error"] != "No photo uploaded" {
		t.Errorf("body = %v", body)
	}
	if env.vision.calls.Load() != 0 {
		t.Errorf("vision calls = %d, want 0", env.vision.calls.Load())
	}
	if countFiles(t, env.artifactDir) != 0 {
		t.Error("artifacts written for a rejected request")
	}
}

func TestAnalyzeNotMultipart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{})
	req := httptest.NewRequest(http.MethodPost, "/analyze-handwriting", bytes.NewBufferString(`{"photo":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{})
	rec := env.post(t, core.UploadField)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got analysis.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.OK || got.CostUSD != "0.002400" || got.Report != `{"overall_comment":"ok"}` {
		t.Errorf("summary = %+v", got)
	}
	if got.Tokens != (analysis.Tokens{Prompt: 1000, Completion: 1000, Image: 1000}) {
		t.Errorf("tokens = %+v", got.Tokens)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if n := countFiles(t, env.uploadDir); n != 0 {
		t.Errorf("%d temp files left", n)
	}
	if n := countFiles(t, env.artifactDir); n != 3 {
		t.Errorf("artifacts = %d, want 3", n)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{err: cErr.UpstreamFailed("status 401")})
	rec := env.post(t, core.UploadField)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got analysis.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.OK || got.Error == "" {
		t.Errorf("failure body = %+v", got)
	}
	if n := countFiles(t, env.uploadDir); n != 0 {
		t.Errorf("%d temp files left", n)
	}
	if n := countFiles(t, env.artifactDir); n != 1 {
		t.Errorf("artifacts = %d, want 1 error artifact", n)
	}
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{})
	for _, path := range []string{"/health/liveness", "/health/readiness", "/health-check", "/version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		env.engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
		if rec.Header().Get("X-App-Version") != "test" {
			t.Errorf("%s missing version header", path)
		}
	}
}

func TestCorsPreflight(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{})
	req := httptest.NewRequest(http.MethodOptions, "/analyze-handwriting", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestVersionEnvelope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubVision{})
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	var got struct {
		Code int                 `json:"code"`
		Data service.VersionInfo `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("body %q: %v", rec.Body, err)
	}
	if got.Code != 0 || got.Data.Version != "test" {
		t.Errorf("version = %+v", got)
	}
}
