// Package cost 依 token 用量估算模型費用
package cost

import (
	"math"
	"strconv"

	"handwriting/config"
)

// Usage 三種 token 計數；負值視為 0
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	ImageTokens      int `json:"image_tokens"`
}

// Rates 每 1000 tokens 的美元單價
type Rates struct {
	PromptPer1K     float64
	CompletionPer1K float64
	ImagePer1K      float64
}

func DefaultRates() Rates {
	return Rates{
		PromptPer1K:     config.DefaultPromptPer1K,
		CompletionPer1K: config.DefaultCompletionPer1K,
		ImagePer1K:      config.DefaultImagePer1K,
	}
}

func NewRates(conf *config.Configuration) Rates {
	return Rates{
		PromptPer1K:     conf.Pricing.PromptPer1K,
		CompletionPer1K: conf.Pricing.CompletionPer1K,
		ImagePer1K:      conf.Pricing.ImagePer1K,
	}
}

// Estimate 費用 = Σ tokens/1000 × 單價，結果不為負也不為 NaN
func (r Rates) Estimate(u Usage) float64 {
	total := perK(u.PromptTokens, r.PromptPer1K) +
		perK(u.CompletionTokens, r.CompletionPer1K) +
		perK(u.ImageTokens, r.ImagePer1K)
	if math.IsNaN(total) || total < 0 {
		return 0
	}
	return total
}

func perK(tokens int, rate float64) float64 {
	if tokens <= 0 || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return float64(tokens) / 1000 * rate
}

// FormatUSD 固定 6 位小數，例如 "0.002400"
func FormatUSD(v float64) string {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Ratio compressed/original；original 為 0 時回傳 0
func Ratio(original, compressed int64) float64 {
	if original <= 0 || compressed < 0 {
		return 0
	}
	return float64(compressed) / float64(original)
}

// FormatRatio 固定 3 位小數，例如 "0.250"
func FormatRatio(original, compressed int64) string {
	return strconv.FormatFloat(Ratio(original, compressed), 'f', 3, 64)
}
