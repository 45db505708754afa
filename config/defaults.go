package config

const (
	DefaultPort            = 3000
	DefaultName            = "handwriting"
	DefaultUploadDir       = "uploads"
	DefaultArtifactDir     = "logs"
	DefaultMaxWidth        = 1500
	DefaultJPEGQuality     = 60
	DefaultMaxMemory       = 32 << 20
	DefaultOpenAIBaseURL   = "https://api.openai.com"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultPromptPer1K     = 0.000150
	DefaultCompletionPer1K = 0.000600
	DefaultImagePer1K      = 0.001650
	DefaultJanitorSpec     = "0 */10 * * * *"
	DefaultJanitorMaxAge   = 120
)

// ApplyDefaults 補齊未設定的欄位；nil 時回傳全預設的設定
func ApplyDefaults(conf *Configuration) *Configuration {
	if conf == nil {
		conf = &Configuration{}
	}
	if conf.App.Port == 0 {
		conf.App.Port = DefaultPort
	}
	if conf.App.Name == "" {
		conf.App.Name = DefaultName
	}
	if conf.Log.ArtifactDir == "" {
		conf.Log.ArtifactDir = DefaultArtifactDir
	}
	if conf.Upload.Dir == "" {
		conf.Upload.Dir = DefaultUploadDir
	}
	if conf.Upload.MaxWidth <= 0 {
		conf.Upload.MaxWidth = DefaultMaxWidth
	}
	if conf.Upload.JPEGQuality <= 0 || conf.Upload.JPEGQuality > 100 {
		conf.Upload.JPEGQuality = DefaultJPEGQuality
	}
	if conf.Upload.MaxMemory <= 0 {
		conf.Upload.MaxMemory = DefaultMaxMemory
	}
	if conf.OpenAI.BaseURL == "" {
		conf.OpenAI.BaseURL = DefaultOpenAIBaseURL
	}
	if conf.OpenAI.Model == "" {
		conf.OpenAI.Model = DefaultOpenAIModel
	}
	// 價格允許設定為 0 以外的值；全為 0 視為未設定
	if conf.Pricing == (Pricing{}) {
		conf.Pricing = Pricing{
			PromptPer1K:     DefaultPromptPer1K,
			CompletionPer1K: DefaultCompletionPer1K,
			ImagePer1K:      DefaultImagePer1K,
		}
	}
	if conf.Janitor.Spec == "" {
		conf.Janitor.Spec = DefaultJanitorSpec
	}
	if conf.Janitor.MaxAgeMinutes <= 0 {
		conf.Janitor.MaxAgeMinutes = DefaultJanitorMaxAge
	}
	return conf
}
