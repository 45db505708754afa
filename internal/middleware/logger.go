package middleware

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/fluentd/model"
	"handwriting/internal/database/fluentd/repository"
	"handwriting/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bodyPreviewLimit = 2000

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// LoggerHandler 記錄每個請求；multipart/圖片不讀 body，只記大小
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if isUntraced(endpoint) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))
		requestTime := requestStart(c)

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		var bodyRaw string
		switch {
		case isBinaryContent(mediaType):
			if c.Request.ContentLength > 0 {
				bodyRaw = fmt.Sprintf("(binary %s, %d bytes)", mediaType, c.Request.ContentLength)
			} else {
				bodyRaw = fmt.Sprintf("(binary %s)", mediaType)
			}
		case c.Request.Body != nil && c.Request.ContentLength != 0:
			// 只讀預覽長度，剩下的接回去給下游
			head, _ := io.ReadAll(io.LimitReader(c.Request.Body, bodyPreviewLimit+1))
			c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(head), c.Request.Body), c.Request.Body}
			bodyRaw = toSafePreview(head, bodyPreviewLimit)
		}

		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			headerMap[strings.ToLower(k)] = strings.Join(v, ",")
		}

		meta := core.LoggerRequestMeta{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			FullPath:   endpoint,
			Query:      c.Request.URL.RawQuery,
			Body:       bodyRaw,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
		}
		m.trace.ApplyTraceAttributes(span, meta)

		traceID, spanID := telemetry.IDs(span)
		logFields := []zap.Field{
			zap.String("method", meta.Method),
			zap.String("path", meta.Path),
			zap.Any("headers", headerMap),
		}
		if meta.Query != "" {
			logFields = append(logFields, zap.String("query", meta.Query))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		logFields = append(logFields, zap.String("spanId", spanID), zap.String("traceId", traceID))
		m.logger.Info("[Request] logging middleware message", logFields...)

		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID:   requestID(c),
			Method:      meta.Method,
			Path:        meta.Path,
			ProjectName: m.config.App.Name,
			RequestTS:   requestTime.UTC().Format("2006-01-02 15:04:05.999999 UTC"),
			Body:        bodyRaw,
			IPHash:      base64.RawStdEncoding.EncodeToString([]byte(c.ClientIP())),
			UserAgent:   meta.UserAgent,
			Version:     m.config.App.Version,
		}); err != nil {
			m.logger.Warn("fluentd request log failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// 僅對文字內容做安全預覽：UTF-8 直接截斷；非 UTF-8 以 Base64 表示
func toSafePreview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
	if len(b) > max {
		b = b[:max]
		if utf8.Valid(b) {
			return string(b) + "…"
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

// 是否為二進位內容（不讀 body）
func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}

// elapsedMs 自請求開始的毫秒數
func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Milliseconds())
}
