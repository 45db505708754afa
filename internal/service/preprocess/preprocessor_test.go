package preprocess

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"handwriting/config"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "src.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func newTestPreprocessor(dir string, maxWidth int) Service {
	conf := config.ApplyDefaults(&config.Configuration{Upload: config.Upload{Dir: dir, MaxWidth: maxWidth}})
	return NewPreprocessor(conf, &telemetry.Trace{}, zap.NewNop())
}

func TestCompressDownscales(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, 400, 200)
	p := newTestPreprocessor(dir, 100)

	out, err := p.Compress(context.Background(), src)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.Width != 100 || out.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", out.Width, out.Height)
	}
	if !strings.HasSuffix(out.Path, ".jpg") || filepath.Dir(out.Path) != dir {
		t.Errorf("unexpected output path %s", out.Path)
	}
	info, err := os.Stat(out.Path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() != out.Size {
		t.Errorf("size on disk = %d, reported %d", info.Size(), out.Size)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source must be kept: %v", err)
	}
}

func TestCompressNeverUpscales(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, 80, 60)
	p := newTestPreprocessor(dir, 1500)

	out, err := p.Compress(context.Background(), src)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.Width != 80 || out.Height != 60 {
		t.Errorf("size = %dx%d, want 80x60", out.Width, out.Height)
	}
}

func TestCompressUniqueOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, 50, 50)
	p := newTestPreprocessor(dir, 1500)

	a, err := p.Compress(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Compress(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if a.Path == b.Path {
		t.Errorf("outputs collide: %s", a.Path)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "note.jpg")
	if err := os.WriteFile(src, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := newTestPreprocessor(dir, 1500)

	_, err := p.Compress(context.Background(), src)
	var appErr *cErr.Error
	if !errors.As(err, &appErr) || appErr.ErrorCode() != cErr.PREPROCESS_FAILED {
		t.Fatalf("err = %v, want PREPROCESS_FAILED", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("leftover files after failure: %d", len(entries))
	}
}

func TestCompressMissingFile(t *testing.T) {
	t.Parallel()

	p := newTestPreprocessor(t.TempDir(), 1500)
	if _, err := p.Compress(context.Background(), "/nonexistent/file.png"); err == nil {
		t.Fatal("expected error")
	}
}
