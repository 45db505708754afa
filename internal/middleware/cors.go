package middleware

import (
	"handwriting/internal/core"
	"handwriting/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace *telemetry.Trace
}

func NewCors(trace *telemetry.Trace) *Cors {
	return &Cors{trace: trace}
}

// CorsHandler 允許所有來源（前端直接呼叫上傳端點）；跳過 tracing 的路徑仍套用 CORS
func (m *Cors) CorsHandler() gin.HandlerFunc {
	cfg := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
	}
	corsHandler := cors.New(cfg)

	type corsMeta struct {
		AllowAll     bool     `trace:"http.cors.allow_all_origins"`
		AllowMethods []string `trace:"http.cors.allow_methods"`
		AllowHeaders []string `trace:"http.cors.allow_headers"`
	}

	return func(c *gin.Context) {
		if isUntraced(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowAll:     cfg.AllowAllOrigins,
			AllowMethods: cfg.AllowMethods,
			AllowHeaders: cfg.AllowHeaders,
		})
		end(nil)

		// cors 內部會呼叫 c.Next()
		corsHandler(c)
	}
}
