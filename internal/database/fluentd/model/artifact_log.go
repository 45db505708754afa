package model

// ArtifactLog 交易紀錄檔的 fluentd 鏡像
type ArtifactLog struct {
	RequestID   string `json:"request_id"`
	ProjectName string `json:"project_name,omitempty"`
	Category    string `json:"category"`
	FilePath    string `json:"file_path,omitempty"`
	Payload     any    `json:"payload"`
	Version     string `json:"version,omitempty"`
	LoggedAt    string `json:"logged_at"`
}
