package core

// ─── Storage ───────────────────────────────────────────────────────────────────

type FluentdSubTag string

const (
	FluentdRequest  FluentdSubTag = "request_log"
	FluentdResponse FluentdSubTag = "response_log"
	FluentdArtifact FluentdSubTag = "handwriting_artifact_log"
)

// ArtifactCategory 交易紀錄檔的類別，亦為檔名前綴
type ArtifactCategory string

const (
	ArtifactOpenAIRaw    ArtifactCategory = "openai_raw"
	ArtifactProcessInfo  ArtifactCategory = "process_info"
	ArtifactFullResponse ArtifactCategory = "full_response"
	ArtifactError        ArtifactCategory = "error"
)
