package handler

import (
	"io"
	"net/http"

	"handwriting/internal/core"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/pkg/response"
	"handwriting/internal/service/analysis"
	"handwriting/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type AnalysisHandler struct {
	trace    *telemetry.Trace
	analysis *analysis.Service
	logger   *zap.Logger
}

func NewAnalysisHandler(
	trace *telemetry.Trace,
	analysisService *analysis.Service,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		trace:    trace,
		analysis: analysisService,
		logger:   logger,
	}
}

// AnalyzeHandwriting 筆跡分析
// @Summary 上傳手寫照片進行筆跡分析
// @Description 圖片壓縮後交給模型分析，回傳模型原文（JSON 字串）與 token/費用資訊
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "手寫照片"
// @Success 200 {object} analysis.Summary
// @Failure 400 {object} map[string]string "No photo uploaded"
// @Failure 500 {object} analysis.Failure
// @Router /analyze-handwriting [post]
func (handler *AnalysisHandler) AnalyzeHandwriting(c *gin.Context) {
	ctx, span, end := handler.trace.WithSpan(c)
	defer end(nil)

	requestID := requestIDFrom(c, span.SpanContext().TraceID().String(), span.SpanContext().HasTraceID())
	c.Header(requestIDHeader, requestID)
	span.SetAttributes(attribute.String("analysis.request_id", requestID))

	file, err := c.FormFile(core.UploadField)
	if err != nil {
		handler.logger.Info("analyze request without photo",
			zap.String("requestId", requestID),
			zap.Error(err),
		)
		appErr := cErr.NoPhotoUploaded()
		response.Raw(c, appErr.HttpCode(), gin.H{"error": appErr.Error()})
		return
	}

	summary, err := handler.analysis.Run(ctx, requestID, file.Filename, func() (io.ReadCloser, error) {
		return file.Open()
	})
	if err != nil {
		end(err)
		response.Raw(c, http.StatusInternalServerError, analysis.Failure{
			OK:    false,
			Error: analysis.ErrorMessage(err),
		})
		return
	}

	response.Raw(c, http.StatusOK, summary)
}

// requestIDFrom 優先沿用呼叫端帶的 X-Request-ID，其次 trace id，最後隨機產生
func requestIDFrom(c *gin.Context, traceID string, hasTraceID bool) string {
	if id := c.GetHeader(requestIDHeader); id != "" && len(id) <= 128 {
		return id
	}
	if hasTraceID {
		return traceID
	}
	return uuid.NewString()
}
