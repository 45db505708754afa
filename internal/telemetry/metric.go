package telemetry

import (
	"handwriting/config"
	"handwriting/internal/core"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric 所有欄位在停用時皆為 nil，記錄方法會自行略過
type Metric struct {
	HttpRequestsTotal     *prometheus.CounterVec
	HttpRequestDuration   *prometheus.HistogramVec
	AnalysisTotal         *prometheus.CounterVec
	AnalysisDuration      *prometheus.HistogramVec
	AnalysisTokensTotal   *prometheus.CounterVec
	AnalysisCostUSDTotal  prometheus.Counter
	CompressionRatio      prometheus.Histogram
	ArtifactFailTotal     *prometheus.CounterVec
	JanitorRemovedTotal   prometheus.Counter
	ReportValidationTotal *prometheus.CounterVec
}

// NewMetric 建立所有指標（註冊在預設 registry）
func NewMetric(config *config.Configuration) *Metric {
	return newMetric(promauto.With(prometheus.DefaultRegisterer), config)
}

func newMetric(factory promauto.Factory, config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	prefix := config.App.Name + "_"
	return &Metric{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricHttpRequestDuration),
				Help:    "HTTP request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		AnalysisTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricAnalysisTotal),
				Help: "Handwriting analyses by result (success / failure reason)",
			},
			labelNames(core.MetricLabelResult),
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + string(core.MetricAnalysisDuration),
				Help: "End-to-end analysis duration (seconds)",
				// 模型呼叫通常數秒到數十秒
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			labelNames(core.MetricLabelResult),
		),
		AnalysisTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricAnalysisTokensTotal),
				Help: "Tokens consumed by kind (prompt / completion / image)",
			},
			labelNames(core.MetricLabelKind),
		),
		AnalysisCostUSDTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricAnalysisCostUSDTotal),
				Help: "Estimated provider cost in USD",
			},
		),
		CompressionRatio: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricCompressionRatio),
				Help:    "compressed_size / original_size",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		ArtifactFailTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricArtifactFailTotal),
				Help: "Transaction log writes that failed (swallowed)",
			},
			labelNames(core.MetricLabelCategory),
		),
		JanitorRemovedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricJanitorRemovedTotal),
				Help: "Orphaned temp files removed by the janitor",
			},
		),
		ReportValidationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricReportValidationTotal),
				Help: "Model report schema validation results",
			},
			labelNames(core.MetricLabelResult),
		),
	}
}

func (m *Metric) ObserveHTTP(endpoint string, status int, d time.Duration) {
	if m == nil || m.HttpRequestsTotal == nil || m.HttpRequestDuration == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveAnalysis result 為 "success" 或失敗原因
func (m *Metric) ObserveAnalysis(result string, d time.Duration) {
	if m == nil || m.AnalysisTotal == nil || m.AnalysisDuration == nil {
		return
	}
	m.AnalysisTotal.WithLabelValues(result).Inc()
	m.AnalysisDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metric) ObserveUsage(prompt, completion, image int, costUSD, ratio float64) {
	if m == nil || m.AnalysisTokensTotal == nil {
		return
	}
	m.AnalysisTokensTotal.WithLabelValues("prompt").Add(float64(prompt))
	m.AnalysisTokensTotal.WithLabelValues("completion").Add(float64(completion))
	m.AnalysisTokensTotal.WithLabelValues("image").Add(float64(image))
	if costUSD > 0 {
		m.AnalysisCostUSDTotal.Add(costUSD)
	}
	if ratio > 0 {
		m.CompressionRatio.Observe(ratio)
	}
}

func (m *Metric) ArtifactFailed(category string) {
	if m == nil || m.ArtifactFailTotal == nil {
		return
	}
	m.ArtifactFailTotal.WithLabelValues(category).Inc()
}

func (m *Metric) JanitorRemoved(n int) {
	if m == nil || m.JanitorRemovedTotal == nil || n <= 0 {
		return
	}
	m.JanitorRemovedTotal.Add(float64(n))
}

func (m *Metric) ReportValidated(valid bool) {
	if m == nil || m.ReportValidationTotal == nil {
		return
	}
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.ReportValidationTotal.WithLabelValues(result).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
