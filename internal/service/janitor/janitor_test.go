package janitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"handwriting/config"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "old.jpg"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(dir, "fresh.jpg"), now.Add(-time.Minute))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	conf := &config.Configuration{
		Upload:  config.Upload{Dir: dir},
		Janitor: config.Janitor{MaxAgeMinutes: 30},
	}
	j := NewJanitor(conf, &telemetry.Trace{}, nil, zap.NewNop())

	removed, err := j.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.jpg")); !os.IsNotExist(err) {
		t.Errorf("old file still present: %v", err)
	}
	for _, keep := range []string{"fresh.jpg", "nested"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("%s removed: %v", keep, err)
		}
	}
}

func TestSweepMissingDir(t *testing.T) {
	t.Parallel()

	conf := &config.Configuration{Upload: config.Upload{Dir: filepath.Join(t.TempDir(), "nope")}}
	removed, err := NewJanitor(conf, &telemetry.Trace{}, nil, zap.NewNop()).Sweep(context.Background())
	if err != nil || removed != 0 {
		t.Errorf("Sweep = %d, %v", removed, err)
	}
}

func TestNewJanitorMaxAge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		minutes int
		timeout int64
		want    time.Duration
	}{
		{name: "default", want: 120 * time.Minute},
		{name: "configured", minutes: 45, want: 45 * time.Minute},
		{name: "no provider timeout keeps configured age", minutes: 30, timeout: 0, want: 30 * time.Minute},
		{name: "raised above provider timeout", minutes: 30, timeout: 3600, want: 2 * time.Hour},
		{name: "already longer than provider timeout", minutes: 60, timeout: 600, want: time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			conf := &config.Configuration{
				Janitor: config.Janitor{MaxAgeMinutes: tt.minutes},
				OpenAI:  config.OpenAI{Timeout: tt.timeout},
			}
			j := NewJanitor(conf, &telemetry.Trace{}, nil, zap.NewNop())
			if j.maxAge != tt.want {
				t.Errorf("maxAge = %s, want %s", j.maxAge, tt.want)
			}
		})
	}
}

func TestSweepKeepsFileYoungerThanProviderTimeout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "inflight.jpg"), time.Now().Add(-90*time.Minute))

	conf := &config.Configuration{
		Upload:  config.Upload{Dir: dir},
		Janitor: config.Janitor{MaxAgeMinutes: 30},
		OpenAI:  config.OpenAI{Timeout: 3600},
	}
	j := NewJanitor(conf, &telemetry.Trace{}, nil, zap.NewNop())

	removed, err := j.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
