package txlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/artifact"
	fluentd "handwriting/internal/database/fluentd/repository"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingClient struct{ posts int }

func (c *failingClient) Post(ctx context.Context, tag string, message any) error {
	c.posts++
	return errors.New("fluentd down")
}
func (c *failingClient) Close() error { return nil }

func newRecorder(t *testing.T, dir string, fc *failingClient) (Recorder, *observer.ObservedLogs) {
	t.Helper()
	conf := &config.Configuration{Log: config.Log{ArtifactDir: dir}}
	obsCore, logs := observer.New(zap.WarnLevel)
	return NewTransactionLogger(
		artifact.NewRepository(conf),
		fluentd.NewLogRepository(conf, fc),
		&telemetry.Trace{},
		&telemetry.Metric{},
		zap.New(obsCore),
	), logs
}

func TestRecordWritesFileAndMirrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fc := &failingClient{}
	rec, logs := newRecorder(t, dir, fc)

	rec.Record(context.Background(), "req-1", core.ArtifactOpenAIRaw, "hello")

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("entries = %v err = %v", entries, err)
	}
	if fc.posts != 1 {
		t.Errorf("fluentd posts = %d, want 1", fc.posts)
	}
	// fluentd 失敗只留 warn
	if logs.FilterMessage("mirror transaction log to fluentd failed").Len() != 1 {
		t.Errorf("missing fluentd warning: %v", logs.All())
	}
}

func TestRecordSwallowsDiskFailure(t *testing.T) {
	t.Parallel()

	// 目錄位置其實是一個檔案，MkdirAll 必定失敗
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, logs := newRecorder(t, filepath.Join(blocker, "logs"), &failingClient{})

	rec.Record(context.Background(), "req-2", core.ArtifactError, "boom")

	if logs.FilterMessage("write transaction log failed").Len() != 1 {
		t.Errorf("expected disk failure warning, got %v", logs.All())
	}
}
