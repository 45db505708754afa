// Package analysis 筆跡分析流程：暫存 → 壓縮 → 模型 → 計價 → 清除暫存 → 紀錄
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"handwriting/config"
	"handwriting/internal/core"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/service/cost"
	"handwriting/internal/service/preprocess"
	"handwriting/internal/service/report"
	"handwriting/internal/service/txlog"
	"handwriting/internal/service/vision"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

// Opener 延後開啟上傳內容，開檔失敗也走同一條錯誤路徑
type Opener func() (io.ReadCloser, error)

type Service struct {
	preprocessor preprocess.Service
	vision       vision.Service
	recorder     txlog.Recorder
	parser       *report.Parser
	rates        cost.Rates
	uploadDir    string
	prompt       string
	trace        *telemetry.Trace
	metric       *telemetry.Metric
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	conf *config.Configuration,
	preprocessor preprocess.Service,
	visionService vision.Service,
	recorder txlog.Recorder,
	parser *report.Parser,
	rates cost.Rates,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
) *Service {
	return &Service{
		preprocessor: preprocessor,
		vision:       visionService,
		recorder:     recorder,
		parser:       parser,
		rates:        rates,
		uploadDir:    conf.Upload.Dir,
		prompt:       core.AnalysisPrompt,
		trace:        trace,
		metric:       metric,
		logger:       logger,
		now:          time.Now,
	}
}

// Run 處理一張上傳圖片。無論成功或失敗，回傳前暫存檔都已刪除；
// 失敗時會寫一筆 error 紀錄，panic 也轉成 error 回傳
func (s *Service) Run(ctx context.Context, requestID, filename string, open Opener) (summary *Summary, err error) {
	start := s.now()
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanAnalysisRun))
	temps := &tempFiles{}

	defer func() {
		if err != nil {
			summary = nil
			s.recorder.Record(context.WithoutCancel(ctx), requestID, core.ArtifactError, ErrorMessage(err))
			s.metric.ObserveAnalysis(failureReason(err), s.now().Sub(start))
			s.logger.Error("handwriting analysis failed",
				zap.String("requestId", requestID),
				zap.String("filename", filename),
				zap.Error(err),
			)
		}
		end(err)
	}()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in handwriting analysis",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = cErr.InternalServer(fmt.Sprint(r))
		}
	}()
	defer temps.release(s.logger)

	upload, err := s.stage(ctx, filename, open)
	if err != nil {
		return nil, err
	}
	temps.add(upload.Path)

	compressed, err := s.preprocessor.Compress(ctx, upload.Path)
	if err != nil {
		return nil, err
	}
	temps.add(compressed.Path)

	result, err := s.vision.AnalyzeImage(ctx, compressed.Path, s.prompt)
	if err != nil {
		return nil, err
	}

	costUSD := s.rates.Estimate(result.Usage)
	temps.release(s.logger)
	elapsed := s.now().Sub(start)

	info := ProcessInfo{
		RequestID:            requestID,
		Model:                result.Model,
		OriginalSize:         upload.Size,
		CompressedSize:       compressed.Size,
		FileCompressionRatio: cost.FormatRatio(upload.Size, compressed.Size),
		TimeMs:               elapsed.Milliseconds(),
		PromptTokens:         result.Usage.PromptTokens,
		CompletionTokens:     result.Usage.CompletionTokens,
		ImageTokens:          result.Usage.ImageTokens,
		CostUSD:              cost.FormatUSD(costUSD),
	}
	if _, perr := s.parser.Parse(result.Text); perr != nil {
		info.ReportError = perr.Error()
		if !errors.Is(perr, report.ErrNoOutput) {
			s.logger.Warn("model report did not match schema",
				zap.String("requestId", requestID),
				zap.Error(perr),
			)
		}
	} else {
		info.ReportValid = true
	}
	s.metric.ReportValidated(info.ReportValid)

	// 模型已回覆就一定要落檔，即使 client 已經離開
	logCtx := context.WithoutCancel(ctx)
	s.recorder.Record(logCtx, requestID, core.ArtifactOpenAIRaw, result.Text)
	s.recorder.Record(logCtx, requestID, core.ArtifactProcessInfo, info)
	s.recorder.Record(logCtx, requestID, core.ArtifactFullResponse, result.Raw)

	s.metric.ObserveAnalysis("success", elapsed)
	s.metric.ObserveUsage(
		result.Usage.PromptTokens,
		result.Usage.CompletionTokens,
		result.Usage.ImageTokens,
		costUSD,
		cost.Ratio(upload.Size, compressed.Size),
	)
	s.trace.ApplyTraceAttributes(span, core.TraceAnalysisMeta{
		RequestID:        requestID,
		OriginalSize:     upload.Size,
		CompressedSize:   compressed.Size,
		CompressionRatio: info.FileCompressionRatio,
		TimeMs:           info.TimeMs,
		TokensPrompt:     info.PromptTokens,
		TokensCompletion: info.CompletionTokens,
		TokensImage:      info.ImageTokens,
		CostUSD:          costUSD,
		ReportValid:      info.ReportValid,
		NoOutput:         result.NoOutput,
	})

	return &Summary{
		OK:             true,
		TimeMs:         info.TimeMs,
		OriginalSize:   upload.Size,
		CompressedSize: compressed.Size,
		Tokens: Tokens{
			Prompt:     info.PromptTokens,
			Completion: info.CompletionTokens,
			Image:      info.ImageTokens,
		},
		CostUSD: info.CostUSD,
		Report:  result.Text,
	}, nil
}

// ErrorMessage 回應與 error 紀錄共用的錯誤字串
func ErrorMessage(err error) string {
	var appErr *cErr.Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}

func failureReason(err error) string {
	var appErr *cErr.Error
	if !errors.As(err, &appErr) {
		return "internal"
	}
	switch appErr.ErrorCode() {
	case cErr.PREPROCESS_FAILED:
		return "preprocess"
	case cErr.STORAGE_FAILED:
		return "storage"
	case cErr.EXTERNAL_REQUEST_ERROR, cErr.EXTERNAL_RESPONSE_FORMAT_ERROR, cErr.GATEWAY_TIMEOUT:
		return "upstream"
	default:
		return "internal"
	}
}
