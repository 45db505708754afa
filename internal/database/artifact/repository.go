// Package artifact 將每筆交易紀錄寫成獨立的 JSON 檔：<category>_<unix-ms>.json
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"handwriting/config"
	"handwriting/internal/core"

	"github.com/google/uuid"
)

// 同一毫秒內撞名時最多重試幾次
const maxAttempts = 5

type Repository struct {
	dir string
	now func() time.Time
}

func NewRepository(conf *config.Configuration) *Repository {
	return &Repository{dir: conf.Log.ArtifactDir, now: time.Now}
}

// Write 以 2 格縮排寫入 payload，回傳檔案路徑。檔案只新增不覆寫。
// 本機寫檔不受請求取消影響，client 斷線後仍要留下紀錄
func (r *Repository) Write(ctx context.Context, category core.ArtifactCategory, payload any) (string, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s artifact: %w", category, err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	ts := strconv.FormatInt(r.now().UnixMilli(), 10)
	name := fmt.Sprintf("%s_%s.json", category, ts)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			name = fmt.Sprintf("%s_%s_%s.json", category, ts, uuid.NewString()[:8])
		}
		path := filepath.Join(r.dir, name)
		err := writeExclusive(path, body)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("write %s artifact: %w", category, err)
		}
	}
	return "", fmt.Errorf("write %s artifact: name collision after %d attempts", category, maxAttempts)
}

func writeExclusive(path string, body []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
