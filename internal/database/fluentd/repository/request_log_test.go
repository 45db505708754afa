package repository

import (
	"context"
	"sync"
	"testing"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/fluentd/model"
)

type recordingClient struct {
	mu    sync.Mutex
	tags  []string
	posts []any
}

func (c *recordingClient) Post(ctx context.Context, tag string, message any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = append(c.tags, tag)
	c.posts = append(c.posts, message)
	return nil
}

func (c *recordingClient) Close() error { return nil }

func TestLogArtifactFillsDefaults(t *testing.T) {
	t.Parallel()

	rc := &recordingClient{}
	repo := NewLogRepository(&config.Configuration{App: config.App{Name: "hw", Version: "2.1.0"}}, rc)

	err := repo.LogArtifact(context.Background(), model.ArtifactLog{
		RequestID: "req-1",
		Category:  string(core.ArtifactProcessInfo),
		Payload:   map[string]any{"time_ms": 12},
	})
	if err != nil {
		t.Fatalf("LogArtifact: %v", err)
	}
	if len(rc.tags) != 1 || rc.tags[0] != string(core.FluentdArtifact) {
		t.Fatalf("tags = %v", rc.tags)
	}
	msg, ok := rc.posts[0].(map[string]any)
	if !ok {
		t.Fatalf("message type = %T, want map", rc.posts[0])
	}
	if msg["version"] != "2.1.0" || msg["project_name"] != "hw" {
		t.Errorf("defaults not applied: %v", msg)
	}
	if msg["logged_at"] == "" || msg["logged_at"] == nil {
		t.Errorf("logged_at missing: %v", msg)
	}
}

func TestLogRequestDefaultVersion(t *testing.T) {
	t.Parallel()

	rc := &recordingClient{}
	repo := NewLogRepository(&config.Configuration{}, rc)
	if err := repo.LogRequest(context.Background(), model.RequestLog{RequestID: "r", Path: "/x", Method: "POST"}); err != nil {
		t.Fatalf("LogRequest: %v", err)
	}
	msg := rc.posts[0].(map[string]any)
	if msg["version"] != "1.0.0" {
		t.Errorf("version = %v, want 1.0.0", msg["version"])
	}
}
