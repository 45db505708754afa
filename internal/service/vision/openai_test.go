package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"handwriting/config"
	"handwriting/internal/core"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

type fakeOpenAI struct {
	filesCalls     atomic.Int32
	responsesCalls atomic.Int32
	responseBody   string
	responseStatus int
	encoding       string
	lastRequest    atomic.Value
}

func (f *fakeOpenAI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files", func(w http.ResponseWriter, r *http.Request) {
		f.filesCalls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("purpose"); got != "vision" {
			t.Errorf("purpose = %q, want vision", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"file-abc","object":"file","purpose":"vision"}`)
	})
	mux.HandleFunc("/v1/responses", func(w http.ResponseWriter, r *http.Request) {
		f.responsesCalls.Add(1)
		b, _ := io.ReadAll(r.Body)
		f.lastRequest.Store(b)

		status := f.responseStatus
		if status == 0 {
			status = http.StatusOK
		}
		body := []byte(f.responseBody)
		switch f.encoding {
		case "br":
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write(body)
			_ = bw.Close()
			body = buf.Bytes()
		case "zstd":
			enc, _ := zstd.NewWriter(nil)
			body = enc.EncodeAll(body, nil)
			_ = enc.Close()
		}
		if f.encoding != "" {
			w.Header().Set("Content-Encoding", f.encoding)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
	return mux
}

func newTestService(t *testing.T, fake *fakeOpenAI, apiKey string) (Service, string) {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	conf := config.ApplyDefaults(&config.Configuration{OpenAI: config.OpenAI{APIKey: apiKey, BaseURL: srv.URL + "/"}})
	img := filepath.Join(t.TempDir(), "compressed.jpg")
	if err := os.WriteFile(img, []byte("\xff\xd8\xff fake jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewOpenAIService(conf, &telemetry.Trace{}, srv.Client(), zap.NewNop()), img
}

const okBody = `{
  "id": "resp_1",
  "model": "gpt-4o-mini-2024-07-18",
  "output": [{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"overall_comment\":\"ok\"}"}]}],
  "usage": {"prompt_tokens": 1200, "completion_tokens": 300, "image_tokens": 800}
}`

func TestAnalyzeImageSuccess(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{responseBody: okBody}
	svc, img := newTestService(t, fake, "sk-test")

	res, err := svc.AnalyzeImage(context.Background(), img, "PROMPT")
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	if res.Text != `{"overall_comment":"ok"}` || res.NoOutput {
		t.Errorf("text = %q noOutput=%v", res.Text, res.NoOutput)
	}
	if res.Usage.PromptTokens != 1200 || res.Usage.CompletionTokens != 300 || res.Usage.ImageTokens != 800 {
		t.Errorf("usage = %+v", res.Usage)
	}
	if res.FileID != "file-abc" || res.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("file/model = %q %q", res.FileID, res.Model)
	}
	if !json.Valid(res.Raw) {
		t.Errorf("raw is not valid json: %s", res.Raw)
	}

	var sent responsesRequest
	if err := json.Unmarshal(fake.lastRequest.Load().([]byte), &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent.Model != "gpt-4o-mini" || len(sent.Input) != 1 || sent.Input[0].Role != "user" {
		t.Fatalf("sent = %+v", sent)
	}
	content := sent.Input[0].Content
	if len(content) != 2 || content[0].Type != "input_text" || content[0].Text != "PROMPT" ||
		content[1].Type != "input_image" || content[1].FileID != "file-abc" {
		t.Errorf("content = %+v", content)
	}
}

func TestAnalyzeImageNoOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty output", body: `{"output":[]}`},
		{name: "no content", body: `{"output":[{"type":"message","content":[]}]}`},
		{name: "empty text", body: `{"output":[{"type":"message","content":[{"type":"output_text","text":""}]}]}`},
		{name: "missing text", body: `{"output":[{"type":"message","content":[{"type":"refusal"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, img := newTestService(t, &fakeOpenAI{responseBody: tt.body}, "sk-test")
			res, err := svc.AnalyzeImage(context.Background(), img, "p")
			if err != nil {
				t.Fatalf("AnalyzeImage: %v", err)
			}
			if res.Text != core.NoOutputSentinel || !res.NoOutput {
				t.Errorf("text = %q, want sentinel", res.Text)
			}
			if res.Usage.PromptTokens != 0 || res.Usage.CompletionTokens != 0 || res.Usage.ImageTokens != 0 {
				t.Errorf("usage = %+v, want zeros", res.Usage)
			}
		})
	}
}

func TestAnalyzeImageInputOutputTokens(t *testing.T) {
	t.Parallel()

	body := `{"output":[{"content":[{"type":"output_text","text":"x"}]}],"usage":{"input_tokens":500,"output_tokens":70,"total_tokens":570}}`
	svc, img := newTestService(t, &fakeOpenAI{responseBody: body}, "sk-test")
	res, err := svc.AnalyzeImage(context.Background(), img, "p")
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	if res.Usage.PromptTokens != 500 || res.Usage.CompletionTokens != 70 {
		t.Errorf("usage = %+v", res.Usage)
	}
}

func TestAnalyzeImageCompressedResponses(t *testing.T) {
	t.Parallel()

	for _, enc := range []string{"br", "zstd"} {
		enc := enc
		t.Run(enc, func(t *testing.T) {
			t.Parallel()
			svc, img := newTestService(t, &fakeOpenAI{responseBody: okBody, encoding: enc}, "sk-test")
			res, err := svc.AnalyzeImage(context.Background(), img, "p")
			if err != nil {
				t.Fatalf("AnalyzeImage: %v", err)
			}
			if res.Usage.ImageTokens != 800 {
				t.Errorf("usage = %+v", res.Usage)
			}
		})
	}
}

func TestAnalyzeImageUpstreamError(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{responseBody: `{"error":{"message":"Incorrect API key"}}`, responseStatus: http.StatusUnauthorized}
	svc, img := newTestService(t, fake, "sk-test")

	_, err := svc.AnalyzeImage(context.Background(), img, "p")
	var appErr *cErr.Error
	if !errors.As(err, &appErr) || appErr.ErrorCode() != cErr.EXTERNAL_REQUEST_ERROR {
		t.Fatalf("err = %v, want upstream error", err)
	}
	if appErr.HttpCode() != http.StatusInternalServerError {
		t.Errorf("http code = %d, want 500", appErr.HttpCode())
	}
	if !strings.Contains(appErr.ErrorDesc(), "Incorrect API key") {
		t.Errorf("desc = %q", appErr.ErrorDesc())
	}
	if fake.responsesCalls.Load() != 1 {
		t.Errorf("responses calls = %d, want exactly 1 (no retry)", fake.responsesCalls.Load())
	}
}

func TestAnalyzeImageMissingAPIKey(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{responseBody: okBody}
	svc, img := newTestService(t, fake, "")
	if _, err := svc.AnalyzeImage(context.Background(), img, "p"); err == nil {
		t.Fatal("expected error without api key")
	}
	if fake.filesCalls.Load() != 0 || fake.responsesCalls.Load() != 0 {
		t.Errorf("provider called without api key")
	}
}

func TestAnalyzeImageMalformedJSON(t *testing.T) {
	t.Parallel()

	svc, img := newTestService(t, &fakeOpenAI{responseBody: `not json`}, "sk-test")
	_, err := svc.AnalyzeImage(context.Background(), img, "p")
	var appErr *cErr.Error
	if !errors.As(err, &appErr) || appErr.ErrorCode() != cErr.EXTERNAL_RESPONSE_FORMAT_ERROR {
		t.Fatalf("err = %v, want response format error", err)
	}
}

func TestAnalyzeImageDeadline(t *testing.T) {
	t.Parallel()

	svc, img := newTestService(t, &fakeOpenAI{responseBody: okBody}, "sk-test")
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := svc.AnalyzeImage(ctx, img, "p")
	var appErr *cErr.Error
	if !errors.As(err, &appErr) || appErr.ErrorCode() != cErr.GATEWAY_TIMEOUT {
		t.Fatalf("err = %v, want gateway timeout", err)
	}
}
