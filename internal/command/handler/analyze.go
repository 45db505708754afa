package command

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"handwriting/internal/service/analysis"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type AnalyzeHandler struct {
	analysis *analysis.Service
	logger   *zap.Logger
}

func NewAnalyzeHandler(analysisService *analysis.Service, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysisService,
		logger:   logger,
	}
}

// Analyze 本機跑一次完整分析流程；原檔會先複製到暫存目錄，不會被刪除
func (handler *AnalyzeHandler) Analyze(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: analyze <image>")
	}
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return err
	}

	summary, err := handler.analysis.Run(cmd.Context(), uuid.NewString(), filepath.Base(path), func() (io.ReadCloser, error) {
		return os.Open(path)
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err != nil {
		_ = enc.Encode(analysis.Failure{OK: false, Error: analysis.ErrorMessage(err)})
		return err
	}
	return enc.Encode(summary)
}
