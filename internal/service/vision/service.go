package vision

import (
	"context"
	"encoding/json"

	"handwriting/internal/service/cost"
)

// Result 模型回應。Text 沒有內容時為 core.NoOutputSentinel，NoOutput 為 true
type Result struct {
	Text     string
	NoOutput bool
	Usage    cost.Usage
	Model    string
	FileID   string
	// 供應商原始回應（已解壓），寫入 full_response 紀錄
	Raw json.RawMessage
}

type Service interface {
	// AnalyzeImage 上傳圖片並以 prompt 要求模型分析；只呼叫一次，不重試
	AnalyzeImage(ctx context.Context, imagePath, prompt string) (*Result, error)
}

// ---- OpenAI Responses API ----

type inputContent struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	FileID string `json:"file_id,omitempty"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []inputContent `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
}

type outputSegment struct {
	Type string  `json:"type"`
	Text *string `json:"text,omitempty"`
}

type outputEntry struct {
	Type    string          `json:"type"`
	Role    string          `json:"role,omitempty"`
	Content []outputSegment `json:"content"`
}

// Usage 同時接受 prompt/completion 與 input/output 兩種欄位
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	ImageTokens      int `json:"image_tokens,omitempty"`
	InputTokens      int `json:"input_tokens,omitempty"`
	OutputTokens     int `json:"output_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

type responsesResponse struct {
	ID     string        `json:"id"`
	Model  string        `json:"model"`
	Output []outputEntry `json:"output"`
	Usage  *Usage        `json:"usage,omitempty"`
}

type fileObject struct {
	ID      string `json:"id"`
	Purpose string `json:"purpose"`
}
