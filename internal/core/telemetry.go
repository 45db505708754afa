package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"

	SpanAnalysisRun      TraceSpanName = "analysis.run"
	SpanAnalysisStage    TraceSpanName = "analysis.stage_upload"
	SpanImagePreprocess  TraceSpanName = "imaging.compress"
	SpanVisionFileUpload TraceSpanName = "openai.files.create"
	SpanVisionResponses  TraceSpanName = "openai.responses.create"
	SpanArtifactWrite    TraceSpanName = "artifact.write"
	SpanJanitorSweep     TraceSpanName = "janitor.sweep"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal     MetricName = "requests_total"
	MetricHttpRequestDuration   MetricName = "request_duration_seconds"
	MetricAnalysisTotal         MetricName = "analysis_total"
	MetricAnalysisDuration      MetricName = "analysis_duration_seconds"
	MetricAnalysisTokensTotal   MetricName = "analysis_tokens_total"
	MetricAnalysisCostUSDTotal  MetricName = "analysis_cost_usd_total"
	MetricCompressionRatio      MetricName = "analysis_compression_ratio"
	MetricArtifactFailTotal     MetricName = "artifact_write_fail_total"
	MetricJanitorRemovedTotal   MetricName = "janitor_removed_files_total"
	MetricReportValidationTotal MetricName = "report_validation_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelKind     MetricLabelName = "kind"
	MetricLabelCategory MetricLabelName = "category"
	MetricLabelResult   MetricLabelName = "result"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

// ==== 筆跡分析 ====

type TraceUploadMeta struct {
	OriginalName string `trace:"upload.original_name"`
	StoredPath   string `trace:"upload.path"`
	Size         int64  `trace:"upload.size_bytes"`
}

type TraceCompressMeta struct {
	SourcePath     string `trace:"imaging.source_path"`
	OutputPath     string `trace:"imaging.output_path"`
	SourceWidth    int    `trace:"imaging.source_width"`
	SourceHeight   int    `trace:"imaging.source_height"`
	OutputWidth    int    `trace:"imaging.output_width"`
	OutputHeight   int    `trace:"imaging.output_height"`
	Quality        int    `trace:"imaging.jpeg_quality"`
	CompressedSize int64  `trace:"imaging.output_size_bytes"`
}

type TraceVisionMeta struct {
	Provider   string `trace:"ai.provider"`
	Model      string `trace:"ai.model"`
	URL        string `trace:"http.url"`
	FileID     string `trace:"ai.file_id,omitempty"`
	StatusCode int    `trace:"http.status_code"`
}

type TraceAnalysisMeta struct {
	RequestID        string  `trace:"analysis.request_id"`
	OriginalSize     int64   `trace:"analysis.original_size"`
	CompressedSize   int64   `trace:"analysis.compressed_size"`
	CompressionRatio string  `trace:"analysis.compression_ratio"`
	TimeMs           int64   `trace:"analysis.time_ms"`
	TokensPrompt     int     `trace:"ai.tokens.prompt"`
	TokensCompletion int     `trace:"ai.tokens.completion"`
	TokensImage      int     `trace:"ai.tokens.image"`
	CostUSD          float64 `trace:"ai.cost_usd"`
	ReportValid      bool    `trace:"analysis.report_valid"`
	NoOutput         bool    `trace:"analysis.no_output"`
}

type TraceArtifactMeta struct {
	Category string `trace:"artifact.category"`
	Path     string `trace:"artifact.path"`
	Bytes    int    `trace:"artifact.size_bytes"`
}
