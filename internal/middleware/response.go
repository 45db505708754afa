package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/fluentd/model"
	"handwriting/internal/database/fluentd/repository"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/pkg/response"
	"handwriting/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 把 handler 以 response.Success 設定的 data 包成統一格式；
// response.Raw 輸出的端點只記錄，不改寫 body 與狀態碼
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isUntraced(c.FullPath()) {
			c.Next()
			return
		}
		requestTime := requestStart(c)

		c.Next()

		if len(c.Errors) > 0 {
			return
		}
		statusCode := c.Writer.Status()

		if c.GetBool(response.PassthroughKey) {
			middleware.record(c, requestTime, statusCode, "passthrough", nil)
			return
		}
		if c.Writer.Written() {
			return
		}

		// 若 status >= 400：轉為應用錯誤交給 Recovery 統一輸出
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, "request error"))
			return
		}

		data, _ := c.Get("data")
		if data == nil {
			data = map[string]any{}
		}
		message := "Request Success"
		if s := c.GetString("message"); s != "" {
			message = s
		}

		rid := middleware.record(c, requestTime, statusCode, message, data)
		jsonBytes, err := json.Marshal(response.Response{
			RequestID:   rid,
			Code:        0,
			Data:        data,
			Message:     "OK",
			Description: message,
		})
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed"))
			return
		}
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Writer.WriteHeader(statusCode) // handler 可能設了 201
		if _, werr := c.Writer.Write(jsonBytes); werr != nil {
			middleware.logger.Warn("write response failed", zap.Error(werr))
		}
	}
}

// record 寫 trace / log / fluentd，回傳 request id
func (middleware *Response) record(c *gin.Context, requestTime time.Time, statusCode int, message string, data any) string {
	ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
	defer end(nil)

	rid := requestID(c)
	duration := time.Since(requestTime)
	preview := ""
	if data != nil {
		preview = safePreviewJSON(data, bodyPreviewLimit)
	}
	middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
		Status:     statusCode,
		Message:    message,
		DurationMs: float64(duration.Milliseconds()),
		Data:       preview,
	})

	traceID, spanID := telemetry.IDs(span)
	middleware.logger.Info("[Response] "+message,
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", statusCode),
		zap.Duration("duration", duration),
		zap.String("spanId", spanID),
		zap.String("traceId", traceID),
	)

	if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:   rid,
		ProjectName: middleware.config.App.Name,
		StatusCode:  statusCode,
		Body:        preview,
		ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		Version:     middleware.config.App.Version,
	}); err != nil {
		middleware.logger.Warn("fluentd response log failed", zap.Error(err))
	}
	return rid
}

// safePreviewJSON 會把資料序列化為 JSON 字串（UTF-8），並限制長度。
func safePreviewJSON(data any, max int) string {
	var out string
	switch v := data.(type) {
	case string:
		out = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("[marshal error: %v]", err)
		}
		out = string(b)
	}
	return toSafePreview([]byte(out), max)
}
