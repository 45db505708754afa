package vision

import (
	"handwriting/internal/core"
	"handwriting/internal/service/cost"
)

// extractText 只取 output[0].content[0].text，其餘情況回傳 sentinel
func extractText(out []outputEntry) (string, bool) {
	if len(out) == 0 || len(out[0].Content) == 0 {
		return core.NoOutputSentinel, true
	}
	t := out[0].Content[0].Text
	if t == nil || *t == "" {
		return core.NoOutputSentinel, true
	}
	return *t, false
}

// toCostUsage prompt/completion 缺少時改用 input/output；完全沒有 usage 則全為 0
func toCostUsage(u *Usage) cost.Usage {
	if u == nil {
		return cost.Usage{}
	}
	merged := mergeUsage(&Usage{
		PromptTokens:     u.InputTokens,
		CompletionTokens: u.OutputTokens,
	}, u)
	return cost.Usage{
		PromptTokens:     nonNegative(merged.PromptTokens),
		CompletionTokens: nonNegative(merged.CompletionTokens),
		ImageTokens:      nonNegative(merged.ImageTokens),
	}
}

// mergeUsage 以 src 中非 0 的欄位覆蓋 dst
func mergeUsage(dst, src *Usage) *Usage {
	if src == nil {
		return dst
	}
	if dst == nil {
		cp := *src
		return &cp
	}
	if src.PromptTokens != 0 {
		dst.PromptTokens = src.PromptTokens
	}
	if src.CompletionTokens != 0 {
		dst.CompletionTokens = src.CompletionTokens
	}
	if src.ImageTokens != 0 {
		dst.ImageTokens = src.ImageTokens
	}
	if src.InputTokens != 0 {
		dst.InputTokens = src.InputTokens
	}
	if src.OutputTokens != 0 {
		dst.OutputTokens = src.OutputTokens
	}
	if src.TotalTokens != 0 {
		dst.TotalTokens = src.TotalTokens
	}
	return dst
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
