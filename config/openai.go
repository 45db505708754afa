package config

type OpenAI struct {
	APIKey  string `mapstructure:"API_KEY" json:"-" yaml:"api_key"`
	BaseURL string `mapstructure:"BASE_URL" json:"base_url" yaml:"base_url"`
	Model   string `mapstructure:"MODEL" json:"model" yaml:"model"`
	// 單位：秒，0 代表不設上限
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}
