package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/google/wire"
	"go.opentelemetry.io/otel/trace"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewLogger,
	NewRecovery,
	NewResponse,
)

const requestStartKey = "requestDuration"

// 這些路徑不做 tracing / logging / 包裝
var untracedPrefixes = []string{"/swagger", "/metrics", "/health", "/debug/pprof"}

func isUntraced(endpoint string) bool {
	for _, p := range untracedPrefixes {
		if strings.HasPrefix(endpoint, p) {
			return true
		}
	}
	return false
}

func requestStart(c *gin.Context) time.Time {
	if startTime, exists := c.Get(requestStartKey); exists {
		if t, ok := startTime.(time.Time); ok {
			return t
		}
	}
	now := time.Now()
	c.Set(requestStartKey, now)
	return now
}

// requestID 有 trace 時沿用 trace id，否則產生 uuid v7
func requestID(c *gin.Context) string {
	span := trace.SpanFromContext(c.Request.Context())
	if tid := span.SpanContext().TraceID(); tid.IsValid() {
		return fmt.Sprintf("%x", tid[:])
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
