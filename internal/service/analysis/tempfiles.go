package analysis

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"
)

// tempFiles 請求期間建立的暫存檔；release 可重複呼叫
type tempFiles struct {
	mu    sync.Mutex
	paths []string
}

func (t *tempFiles) add(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
}

func (t *tempFiles) release(logger *zap.Logger) {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("remove temp file failed", zap.String("path", p), zap.Error(err))
		}
	}
}
