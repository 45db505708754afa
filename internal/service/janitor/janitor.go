// Package janitor 清掉程序異常中斷後留在暫存目錄的孤兒檔
package janitor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

type Janitor struct {
	dir    string
	maxAge time.Duration
	trace  *telemetry.Trace
	metric *telemetry.Metric
	logger *zap.Logger
	now    func() time.Time
}

func NewJanitor(conf *config.Configuration, trace *telemetry.Trace, metric *telemetry.Metric, logger *zap.Logger) *Janitor {
	minutes := conf.Janitor.MaxAgeMinutes
	if minutes <= 0 {
		minutes = config.DefaultJanitorMaxAge
	}
	maxAge := time.Duration(minutes) * time.Minute
	// 暫存檔至少要活過兩倍的上游逾時，避免還在處理中的請求被清掉
	if timeout := time.Duration(conf.OpenAI.Timeout) * time.Second; timeout > 0 && maxAge < 2*timeout {
		logger.Warn("janitor max age raised to outlive provider timeout",
			zap.Duration("configured", maxAge),
			zap.Duration("effective", 2*timeout),
		)
		maxAge = 2 * timeout
	}
	return &Janitor{
		dir:    conf.Upload.Dir,
		maxAge: maxAge,
		trace:  trace,
		metric: metric,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep 刪除暫存目錄下修改時間早於 maxAge 的一般檔案，回傳刪除數量。
// 只看第一層，不進子目錄；目錄不存在視為沒有檔案
func (j *Janitor) Sweep(ctx context.Context) (removed int, err error) {
	ctx, _, end := j.trace.WithSpan(ctx, string(core.SpanJanitorSweep))
	defer func() { end(err) }()

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := j.now().Add(-j.maxAge)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			j.logger.Warn("janitor remove failed", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	j.metric.JanitorRemoved(removed)
	if removed > 0 {
		j.logger.Info("janitor removed orphan temp files", zap.Int("count", removed), zap.String("dir", j.dir))
	}
	return removed, nil
}
