package analysis

// Upload 使用者上傳的原圖，已存到暫存目錄
type Upload struct {
	OriginalName string
	Path         string
	Size         int64
}

type Tokens struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Image      int `json:"image"`
}

// Summary 成功時回給前端的內容；report 為模型原文，不在後端解析
type Summary struct {
	OK             bool   `json:"ok"`
	TimeMs         int64  `json:"time_ms"`
	OriginalSize   int64  `json:"original_size"`
	CompressedSize int64  `json:"compressed_size"`
	Tokens         Tokens `json:"tokens"`
	CostUSD        string `json:"cost_usd"`
	Report         string `json:"report"`
}

// Failure 500 時的回應
type Failure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ProcessInfo process_info 紀錄檔內容
type ProcessInfo struct {
	RequestID            string `json:"request_id"`
	Model                string `json:"model"`
	OriginalSize         int64  `json:"original_size"`
	CompressedSize       int64  `json:"compressed_size"`
	FileCompressionRatio string `json:"file_compression_ratio"`
	TimeMs               int64  `json:"time_ms"`
	PromptTokens         int    `json:"prompt_tokens"`
	CompletionTokens     int    `json:"completion_tokens"`
	ImageTokens          int    `json:"image_tokens"`
	CostUSD              string `json:"cost_usd"`
	ReportValid          bool   `json:"report_valid"`
	ReportError          string `json:"report_error,omitempty"`
}
