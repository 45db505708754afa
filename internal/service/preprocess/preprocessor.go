package preprocess

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"handwriting/config"
	"handwriting/internal/core"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/telemetry"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	// 額外支援手機常見的 webp
	_ "golang.org/x/image/webp"
)

type Preprocessor struct {
	dir      string
	maxWidth int
	quality  int
	trace    *telemetry.Trace
	logger   *zap.Logger
}

func NewPreprocessor(conf *config.Configuration, trace *telemetry.Trace, logger *zap.Logger) Service {
	return &Preprocessor{
		dir:      conf.Upload.Dir,
		maxWidth: conf.Upload.MaxWidth,
		quality:  conf.Upload.JPEGQuality,
		trace:    trace,
		logger:   logger,
	}
}

func (p *Preprocessor) Compress(ctx context.Context, srcPath string) (_ *CompressedImage, err error) {
	ctx, span, end := p.trace.WithSpan(ctx, string(core.SpanImagePreprocess))
	defer func() { end(err) }()

	if err := ctx.Err(); err != nil {
		return nil, cErr.PreprocessFailed(err.Error())
	}

	// 1) 解碼（依 EXIF 轉正，手機照片常帶旋轉資訊）
	src, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, cErr.PreprocessFailed(fmt.Sprintf("decode image: %v", err))
	}
	bounds := src.Bounds()
	meta := core.TraceCompressMeta{
		SourcePath:   srcPath,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
		Quality:      p.quality,
	}

	// 2) 只縮不放，高度依比例
	out := src
	if p.maxWidth > 0 && bounds.Dx() > p.maxWidth {
		out = imaging.Resize(src, p.maxWidth, 0, imaging.Lanczos)
	}
	meta.OutputWidth = out.Bounds().Dx()
	meta.OutputHeight = out.Bounds().Dy()

	// 3) 寫入新的暫存檔
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, cErr.StorageFailed(fmt.Sprintf("create upload dir: %v", err))
	}
	dst := filepath.Join(p.dir, fmt.Sprintf("compressed_%d_%s.jpg", time.Now().UnixMilli(), uuid.NewString()[:8]))
	if err := imaging.Save(out, dst, imaging.JPEGQuality(p.quality)); err != nil {
		_ = os.Remove(dst)
		return nil, cErr.PreprocessFailed(fmt.Sprintf("encode jpeg: %v", err))
	}
	info, err := os.Stat(dst)
	if err != nil {
		_ = os.Remove(dst)
		return nil, cErr.PreprocessFailed(fmt.Sprintf("stat compressed image: %v", err))
	}

	meta.OutputPath = dst
	meta.CompressedSize = info.Size()
	p.trace.ApplyTraceAttributes(span, meta)
	p.logger.Debug("image compressed",
		zap.String("src", srcPath),
		zap.String("dst", dst),
		zap.Int("src_width", meta.SourceWidth),
		zap.Int("out_width", meta.OutputWidth),
		zap.Int64("size", meta.CompressedSize),
	)

	return &CompressedImage{
		Path:   dst,
		Size:   info.Size(),
		Width:  meta.OutputWidth,
		Height: meta.OutputHeight,
	}, nil
}
