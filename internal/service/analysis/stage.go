package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"handwriting/internal/core"
	cErr "handwriting/internal/pkg/error"

	"github.com/google/uuid"
)

const maxBaseNameLen = 64

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// storedName <原檔名>_<unix-ms>_<隨機碼><副檔名>，同名同毫秒也不會撞
func storedName(original string, unixMs int64) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "upload"
	}
	if len(name) > maxBaseNameLen {
		name = name[:maxBaseNameLen]
	}
	if ext == "." || unsafeNameChars.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%s_%d_%s%s", name, unixMs, uuid.NewString()[:8], ext)
}

// stage 把上傳內容寫進暫存目錄
func (s *Service) stage(ctx context.Context, filename string, open Opener) (_ *Upload, err error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanAnalysisStage))
	defer func() { end(err) }()

	src, err := open()
	if err != nil {
		return nil, cErr.StorageFailed(fmt.Sprintf("open upload: %v", err))
	}
	defer src.Close()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, cErr.StorageFailed(fmt.Sprintf("create upload dir: %v", err))
	}
	path := filepath.Join(s.uploadDir, storedName(filename, s.now().UnixMilli()))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, cErr.StorageFailed(fmt.Sprintf("create temp file: %v", err))
	}
	size, copyErr := io.Copy(dst, ctxReader{ctx: ctx, r: src})
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr == nil {
			copyErr = closeErr
		}
		return nil, cErr.StorageFailed(fmt.Sprintf("save upload: %v", copyErr))
	}

	upload := &Upload{OriginalName: filename, Path: path, Size: size}
	s.trace.ApplyTraceAttributes(span, core.TraceUploadMeta{OriginalName: filename, StoredPath: path, Size: size})
	return upload, nil
}

// ctxReader 讓大檔複製過程中可以被取消
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
