package core

type OpenAIEndpoint string

const (
	OpenAIFilesEndpoint     OpenAIEndpoint = "/v1/files"
	OpenAIResponsesEndpoint OpenAIEndpoint = "/v1/responses"
)

// 上傳檔案用途
const OpenAIFilePurposeVision = "vision"

// NoOutputSentinel 模型回應中沒有任何文字時的替代值
const NoOutputSentinel = "NO_OUTPUT"

// UploadField multipart 欄位名稱
const UploadField = "photo"
