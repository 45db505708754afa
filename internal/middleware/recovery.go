package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/fluentd/model"
	"handwriting/internal/database/fluentd/repository"
	cErr "handwriting/internal/pkg/error"
	res "handwriting/internal/pkg/response"
	"handwriting/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// ErrorHandler panic 與 c.Errors 統一轉為錯誤回應；已寫出回應的請求不再處理
func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := requestStart(c)

		// ---- panic recover 必須在 c.Next() 之前註冊 ----
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			rid := requestID(c)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: elapsedMs(requestTime),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.String("user_agent", meta.UserAgent),
				zap.Float64("duration_ms", meta.DurationMs),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", rid),
			)

			err := cErr.InternalServer("unexpected panic")
			end(err)
			// 尚未回寫才輸出；不把 stack 回給呼叫端
			if !c.Writer.Written() {
				res.FailByErr(c, rid, err)
			}
			middleware.logResponse(ctx, rid, cErr.INTERNAL_ERROR, http.StatusInternalServerError, meta.Message)
			c.Abort()
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		rid := requestID(c)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))

		// 找第一個 *cErr.Error
		for _, e := range c.Errors {
			var appErr *cErr.Error
			if !errors.As(e.Err, &appErr) {
				continue
			}
			middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
				Code:       appErr.ErrorCode(),
				Message:    appErr.Error(),
				Detail:     appErr.ErrorDesc(),
				DurationMs: elapsedMs(requestTime),
				Status:     appErr.HttpCode(),
			})
			middleware.logger.Warn(appErr.Error(),
				zap.Int("code", appErr.ErrorCode()),
				zap.String("data", appErr.ErrorDesc()),
				zap.String("requestId", rid),
			)
			end(appErr)
			res.FailByErr(c, rid, appErr)
			middleware.logResponse(ctx, rid, appErr.ErrorCode(), appErr.HttpCode(), appErr.Message())
			c.Abort()
			return
		}

		// 其餘未知錯誤
		unknown := toSafeString(c.Errors.String())
		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       cErr.INTERNAL_ERROR,
			Message:    "unknown-error",
			Detail:     unknown,
			DurationMs: elapsedMs(requestTime),
			Status:     http.StatusInternalServerError,
		})
		middleware.logger.Warn("[ERROR] unknown",
			zap.String("error", unknown),
			zap.String("requestId", rid),
		)
		end(errors.New(unknown))
		res.Fail(c, rid, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "unknown-error", "internal error")
		middleware.logResponse(ctx, rid, cErr.INTERNAL_ERROR, http.StatusInternalServerError, unknown)
		c.Abort()
	}
}

func (middleware *Recovery) logResponse(ctx context.Context, rid string, code, status int, msg string) {
	if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:   rid,
		ProjectName: middleware.config.App.Name,
		Code:        code,
		StatusCode:  status,
		Error:       msg,
		ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		Version:     middleware.config.App.Version,
	}); err != nil {
		middleware.logger.Warn("fluentd response log failed", zap.Error(err))
	}
}

// ---- helpers ----

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}
