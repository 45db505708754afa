package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"handwriting/config"
	"handwriting/internal/database/artifact"
	"handwriting/internal/service/cost"
	"handwriting/internal/service/preprocess"
	"handwriting/internal/service/report"
	"handwriting/internal/service/txlog"
	"handwriting/internal/service/vision"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

// 接上真正的 txlog 與 artifact，確認檔案確實落在 log 目錄
func newDiskService(t *testing.T, v vision.Service) (*Service, string, string) {
	t.Helper()
	uploadDir := t.TempDir()
	logDir := t.TempDir()
	conf := config.ApplyDefaults(&config.Configuration{
		Upload: config.Upload{Dir: uploadDir},
		Log:    config.Log{ArtifactDir: logDir},
	})
	trace := &telemetry.Trace{}
	recorder := txlog.NewTransactionLogger(artifact.NewRepository(conf), nil, trace, nil, zap.NewNop())
	svc := NewService(
		conf,
		preprocess.NewPreprocessor(conf, trace, zap.NewNop()),
		v,
		recorder,
		report.NewParser(),
		cost.NewRates(conf),
		trace,
		nil,
		zap.NewNop(),
	)
	return svc, uploadDir, logDir
}

func artifactFiles(t *testing.T, dir, category string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, category+"_*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

// cancelAfterVision 模擬模型回覆後 client 才斷線
type cancelAfterVision struct {
	inner  vision.Service
	cancel context.CancelFunc
}

func (c *cancelAfterVision) AnalyzeImage(ctx context.Context, imagePath, prompt string) (*vision.Result, error) {
	res, err := c.inner.AnalyzeImage(ctx, imagePath, prompt)
	c.cancel()
	return res, err
}

func TestRunCancelledContextStillWritesErrorArtifact(t *testing.T) {
	t.Parallel()

	fv := &fakeVision{}
	svc, uploadDir, logDir := newDiskService(t, fv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.Run(ctx, "req-gone", "x.png", opener(pngBytes(t, 30, 30)))
	if err == nil || summary != nil {
		t.Fatalf("expected failure for cancelled request, got %+v", summary)
	}
	if fv.calls.Load() != 0 {
		t.Errorf("vision called %d times", fv.calls.Load())
	}
	assertEmptyDir(t, uploadDir)

	files := artifactFiles(t, logDir, "error")
	if len(files) != 1 {
		t.Fatalf("error artifacts = %v, want exactly one", files)
	}
	b, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(b) == 0 {
		t.Error("error artifact is empty")
	}
}

func TestRunClientGoneAfterModelReplyWritesAllArtifacts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, uploadDir, logDir := newDiskService(t, &cancelAfterVision{inner: &fakeVision{}, cancel: cancel})

	if _, err := svc.Run(ctx, "req-late", "x.png", opener(pngBytes(t, 30, 30))); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertEmptyDir(t, uploadDir)

	for _, category := range []string{"openai_raw", "process_info", "full_response"} {
		if files := artifactFiles(t, logDir, category); len(files) != 1 {
			t.Errorf("%s artifacts = %v, want exactly one", category, files)
		}
	}
	if files := artifactFiles(t, logDir, "error"); len(files) != 0 {
		t.Errorf("unexpected error artifacts: %v", files)
	}
}
