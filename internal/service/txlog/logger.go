// Package txlog 交易紀錄：寫檔為主，fluentd 為鏡像；任何失敗都只記 log 不往上拋
package txlog

import (
	"context"

	"handwriting/internal/core"
	"handwriting/internal/database/artifact"
	"handwriting/internal/database/fluentd/model"
	fluentd "handwriting/internal/database/fluentd/repository"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

type Recorder interface {
	Record(ctx context.Context, requestID string, category core.ArtifactCategory, payload any)
}

type TransactionLogger struct {
	artifacts     *artifact.Repository
	logRepository *fluentd.LogRepository
	trace         *telemetry.Trace
	metric        *telemetry.Metric
	logger        *zap.Logger
}

func NewTransactionLogger(
	artifacts *artifact.Repository,
	logRepository *fluentd.LogRepository,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
) Recorder {
	return &TransactionLogger{
		artifacts:     artifacts,
		logRepository: logRepository,
		trace:         trace,
		metric:        metric,
		logger:        logger,
	}
}

func (l *TransactionLogger) Record(ctx context.Context, requestID string, category core.ArtifactCategory, payload any) {
	ctx, span, end := l.trace.WithSpan(ctx, string(core.SpanArtifactWrite))
	defer end(nil)

	path, err := l.artifacts.Write(ctx, category, payload)
	l.trace.ApplyTraceAttributes(span, core.TraceArtifactMeta{Category: string(category), Path: path})
	if err != nil {
		span.RecordError(err)
		l.metric.ArtifactFailed(string(category))
		l.logger.Warn("write transaction log failed",
			zap.String("category", string(category)),
			zap.String("requestId", requestID),
			zap.Error(err),
		)
	}

	if l.logRepository == nil {
		return
	}
	if err := l.logRepository.LogArtifact(ctx, model.ArtifactLog{
		RequestID: requestID,
		Category:  string(category),
		FilePath:  path,
		Payload:   payload,
	}); err != nil {
		l.logger.Warn("mirror transaction log to fluentd failed",
			zap.String("category", string(category)),
			zap.String("requestId", requestID),
			zap.Error(err),
		)
	}
}
